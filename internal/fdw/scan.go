package fdw

import "context"

// Scan runs one full scan lifecycle on c and collects up to limit rows
// (limit <= 0 means all). EndScan always runs, even when a pull fails.
func Scan(ctx context.Context, c *Connector, table Options, columns []Column, limit int) (rows []Row, err error) {
	if err := c.BeginScan(ctx, table); err != nil {
		return nil, err
	}
	defer func() {
		if endErr := c.EndScan(); err == nil {
			err = endErr
		}
	}()

	for limit <= 0 || len(rows) < limit {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		row, ok, err := c.IterScan(columns)
		if err != nil {
			return rows, err
		}
		if !ok {
			break
		}
		rows = append(rows, row)
	}
	return rows, nil
}
