package datastore

import (
	"context"
	"database/sql"
)

// SQLGateway runs over database/sql with ? placeholders. Timestamps are
// written as RFC3339 text so the sqlite schema can stay untyped.
type SQLGateway struct {
	DB *sql.DB
	b  builder
}

func NewSQL(db *sql.DB) *SQLGateway {
	return &SQLGateway{DB: db, b: builder{ph: question, encodeTime: true}}
}

func (g *SQLGateway) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	query, args, err := g.b.selectSQL(table, q)
	if err != nil {
		return nil, err
	}
	rows, err := g.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (g *SQLGateway) SelectOne(ctx context.Context, table string, filter Filter) (Row, error) {
	return selectOne(ctx, g, table, filter)
}

func (g *SQLGateway) Insert(ctx context.Context, table string, row Row) error {
	query, args, err := g.b.insertSQL(table, row)
	if err != nil {
		return err
	}
	_, err = g.DB.ExecContext(ctx, query, args...)
	return err
}

func (g *SQLGateway) Update(ctx context.Context, table string, filter Filter, changes Row) (int64, error) {
	query, args, err := g.b.updateSQL(table, filter, changes)
	if err != nil {
		return 0, err
	}
	return g.exec(ctx, query, args)
}

func (g *SQLGateway) Delete(ctx context.Context, table string, filter Filter) (int64, error) {
	query, args, err := g.b.deleteSQL(table, filter)
	if err != nil {
		return 0, err
	}
	return g.exec(ctx, query, args)
}

func (g *SQLGateway) Ping(ctx context.Context) error {
	return g.DB.PingContext(ctx)
}

func (g *SQLGateway) exec(ctx context.Context, query string, args []any) (int64, error) {
	res, err := g.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
