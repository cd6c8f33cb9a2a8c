// Package datastore is the table gateway the domain stores persist through:
// select, insert, update and delete keyed by table name and equality filters.
package datastore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrEmptyRow          = errors.New("row has no columns")
)

type Row map[string]any

type Filter map[string]any

type Query struct {
	Filter  Filter
	Range   Range
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// Range bounds one time column to [From, Until). A zero bound is open.
type Range struct {
	Column string
	From   time.Time
	Until  time.Time
}

func (r Range) empty() bool {
	return r.Column == "" || (r.From.IsZero() && r.Until.IsZero())
}

func (r Range) contains(v any) bool {
	t, ok := asTime(v)
	if !ok {
		return false
	}
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.Until.IsZero() && !t.Before(r.Until) {
		return false
	}
	return true
}

type Gateway interface {
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	SelectOne(ctx context.Context, table string, filter Filter) (Row, error)
	Insert(ctx context.Context, table string, row Row) error
	Update(ctx context.Context, table string, filter Filter, changes Row) (int64, error)
	Delete(ctx context.Context, table string, filter Filter) (int64, error)
	Ping(ctx context.Context) error
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

func selectOne(ctx context.Context, g Gateway, table string, filter Filter) (Row, error) {
	rows, err := g.Select(ctx, table, Query{Filter: filter, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}
