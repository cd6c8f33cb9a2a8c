package datastore

import (
	"context"

	"workforce/internal/platform/querier"
)

type PostgresGateway struct {
	DB querier.Querier
	b  builder
}

func NewPostgres(db querier.Querier) *PostgresGateway {
	return &PostgresGateway{DB: db, b: builder{ph: dollar}}
}

func (g *PostgresGateway) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	query, args, err := g.b.selectSQL(table, q)
	if err != nil {
		return nil, err
	}
	rows, err := g.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (g *PostgresGateway) SelectOne(ctx context.Context, table string, filter Filter) (Row, error) {
	return selectOne(ctx, g, table, filter)
}

func (g *PostgresGateway) Insert(ctx context.Context, table string, row Row) error {
	query, args, err := g.b.insertSQL(table, row)
	if err != nil {
		return err
	}
	_, err = g.DB.Exec(ctx, query, args...)
	return err
}

func (g *PostgresGateway) Update(ctx context.Context, table string, filter Filter, changes Row) (int64, error) {
	query, args, err := g.b.updateSQL(table, filter, changes)
	if err != nil {
		return 0, err
	}
	tag, err := g.DB.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (g *PostgresGateway) Delete(ctx context.Context, table string, filter Filter) (int64, error) {
	query, args, err := g.b.deleteSQL(table, filter)
	if err != nil {
		return 0, err
	}
	tag, err := g.DB.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (g *PostgresGateway) Ping(ctx context.Context) error {
	var one int
	return g.DB.QueryRow(ctx, "SELECT 1").Scan(&one)
}
