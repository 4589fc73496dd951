package dbclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sheetsfdw/internal/domain"
	"sheetsfdw/internal/fdw"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoWriter implements Writer for MongoDB. Each row becomes one document
// keyed by column name; absent cells are omitted.
type mongoWriter struct {
	client *mongo.Client
	dbName string
	logger *slog.Logger
}

func newMongoWriter(dest *domain.Destination, password string, logger *slog.Logger) (*mongoWriter, error) {
	uri, dbName := buildMongoURI(dest, password)

	logger.Info("connecting", "uri", maskPassword(uri, password), "database", dbName)
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return &mongoWriter{client: client, dbName: dbName, logger: logger}, nil
}

// buildMongoURI returns the connection URI and database name for dest.
// A Host that is already a mongodb:// or mongodb+srv:// URI is used as is,
// with <password> placeholders filled in.
func buildMongoURI(dest *domain.Destination, password string) (uri, dbName string) {
	if strings.HasPrefix(dest.Host, "mongodb+srv://") || strings.HasPrefix(dest.Host, "mongodb://") {
		uri = dest.Host
		if password != "" {
			uri = strings.ReplaceAll(uri, "<password>", password)
			uri = strings.ReplaceAll(uri, "<db_password>", password)
		}
	} else {
		port := dest.Port
		if port == 0 {
			port = 27017
		}
		if dest.Username != "" {
			uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", dest.Username, password, dest.Host, port)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%d", dest.Host, port)
		}
	}

	dbName = dest.Database
	if dbName == "" {
		dbName = databaseFromURI(uri)
	}
	return uri, dbName
}

// databaseFromURI extracts the path segment of user:pass@host/DB?params.
func databaseFromURI(uri string) string {
	rest := uri
	for _, prefix := range []string{"mongodb+srv://", "mongodb://"} {
		rest = strings.TrimPrefix(rest, prefix)
	}
	if at := strings.LastIndex(rest, "@"); at != -1 {
		rest = rest[at+1:]
	}
	slash := strings.Index(rest, "/")
	if slash == -1 {
		return "test"
	}
	path := rest[slash+1:]
	if q := strings.Index(path, "?"); q != -1 {
		path = path[:q]
	}
	if path == "" {
		return "test"
	}
	return path
}

func maskPassword(uri, password string) string {
	if password == "" {
		return uri
	}
	return strings.ReplaceAll(uri, password, "***")
}

func (w *mongoWriter) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return w.client.Ping(ctx, nil)
}

func (w *mongoWriter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return w.client.Disconnect(ctx)
}

func (w *mongoWriter) Write(ctx context.Context, table string, columns []fdw.Column, rows []fdw.Row, mode domain.SyncMode) (int, error) {
	coll := w.client.Database(w.dbName).Collection(table)

	if mode == domain.SyncReplace {
		if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
			return 0, fmt.Errorf("clear target: %w", err)
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}

	docs := make([]any, 0, len(rows))
	for i, row := range rows {
		doc, err := rowDocument(columns, row)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		docs = append(docs, doc)
	}

	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	w.logger.Info("documents written", "collection", table, "documents", len(res.InsertedIDs), "mode", string(mode))
	return len(res.InsertedIDs), nil
}

// rowDocument maps a row onto a BSON document. JSON cells are embedded as
// structured values rather than strings, with numbers kept exact.
func rowDocument(columns []fdw.Column, row fdw.Row) (bson.D, error) {
	if len(row) != len(columns) {
		return nil, fmt.Errorf("has %d cells, want %d", len(row), len(columns))
	}
	doc := make(bson.D, 0, len(columns))
	for i, col := range columns {
		cell := row[i]
		if cell == nil {
			continue
		}
		value := cell.Value()
		if js, ok := cell.(fdw.JSON); ok {
			v, err := fdw.DecodeJSON([]byte(js))
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Name, err)
			}
			value = bsonNumbers(v)
		}
		doc = append(doc, bson.E{Key: col.Name, Value: value})
	}
	return doc, nil
}

// bsonNumbers replaces json.Number leaves with BSON numeric values: int64
// when the number fits, decimal128 for larger integers, double otherwise.
func bsonNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if !strings.ContainsAny(t.String(), ".eE") {
			if d, err := bson.ParseDecimal128(t.String()); err == nil {
				return d
			}
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = bsonNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = bsonNumbers(e)
		}
		return t
	}
	return v
}
