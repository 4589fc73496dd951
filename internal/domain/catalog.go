package domain

import (
	"fmt"
	"sort"

	"sheetsfdw/internal/fdw"
)

// ForeignServer binds a named server to a profile and its server options.
type ForeignServer struct {
	Name    string      `json:"name"`
	Profile string      `json:"profile"`
	Options fdw.Options `json:"options"`
}

// ColumnDef is a declared foreign table column.
type ColumnDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ForeignTable is a named table on a foreign server.
type ForeignTable struct {
	Name       string      `json:"name"`
	Server     string      `json:"server"`
	Options    fdw.Options `json:"options"`
	ColumnDefs []ColumnDef `json:"columns"`
}

// Columns resolves the declared columns into scan columns, numbered from 1
// in declaration order.
func (t *ForeignTable) Columns() ([]fdw.Column, error) {
	cols := make([]fdw.Column, 0, len(t.ColumnDefs))
	for i, def := range t.ColumnDefs {
		typ, err := fdw.ParseTypeOID(def.Type)
		if err != nil {
			return nil, fmt.Errorf("table %s column %s: %w", t.Name, def.Name, err)
		}
		cols = append(cols, fdw.Column{Num: i + 1, Name: def.Name, Type: typ})
	}
	return cols, nil
}

// Catalog is the set of servers, tables and destinations known to the process.
type Catalog struct {
	Servers      map[string]*ForeignServer
	Tables       map[string]*ForeignTable
	Destinations map[string]*Destination
}

// Server returns the named server.
func (c *Catalog) Server(name string) (*ForeignServer, error) {
	s, ok := c.Servers[name]
	if !ok {
		return nil, fmt.Errorf("foreign server not found: %s", name)
	}
	return s, nil
}

// Table returns the named table.
func (c *Catalog) Table(name string) (*ForeignTable, error) {
	t, ok := c.Tables[name]
	if !ok {
		return nil, fmt.Errorf("foreign table not found: %s", name)
	}
	return t, nil
}

// Destination returns the named destination.
func (c *Catalog) Destination(name string) (*Destination, error) {
	d, ok := c.Destinations[name]
	if !ok {
		return nil, fmt.Errorf("destination not found: %s", name)
	}
	return d, nil
}

// TableNames returns table names sorted alphabetically.
func (c *Catalog) TableNames() []string {
	names := make([]string, 0, len(c.Tables))
	for name := range c.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
