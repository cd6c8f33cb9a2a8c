package datastore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"
)

// MemoryGateway keeps rows in process. Rows are copied on the way in and out.
type MemoryGateway struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

func NewMemory() *MemoryGateway {
	return &MemoryGateway{tables: make(map[string][]Row)}
}

func (g *MemoryGateway) Select(_ context.Context, table string, q Query) ([]Row, error) {
	if err := checkIdent(table); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Row
	for _, row := range g.tables[table] {
		if !matches(row, q.Filter) {
			continue
		}
		if !q.Range.empty() && !q.Range.contains(row[q.Range.Column]) {
			continue
		}
		out = append(out, row.clone())
	}
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			c := compareValues(out[i][q.OrderBy], out[j][q.OrderBy])
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (g *MemoryGateway) SelectOne(ctx context.Context, table string, filter Filter) (Row, error) {
	return selectOne(ctx, g, table, filter)
}

func (g *MemoryGateway) Insert(_ context.Context, table string, row Row) error {
	if err := checkIdent(table); err != nil {
		return err
	}
	if len(row) == 0 {
		return ErrEmptyRow
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tables[table] = append(g.tables[table], row.clone())
	return nil
}

func (g *MemoryGateway) Update(_ context.Context, table string, filter Filter, changes Row) (int64, error) {
	if err := checkIdent(table); err != nil {
		return 0, err
	}
	if len(changes) == 0 {
		return 0, ErrEmptyRow
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var n int64
	for _, row := range g.tables[table] {
		if !matches(row, filter) {
			continue
		}
		for k, v := range changes {
			row[k] = v
		}
		n++
	}
	return n, nil
}

func (g *MemoryGateway) Delete(_ context.Context, table string, filter Filter) (int64, error) {
	if err := checkIdent(table); err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	rows := g.tables[table]
	kept := rows[:0]
	var n int64
	for _, row := range rows {
		if matches(row, filter) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	g.tables[table] = kept
	return n, nil
}

func (g *MemoryGateway) Ping(context.Context) error {
	return nil
}

func matches(row Row, filter Filter) bool {
	for col, want := range filter {
		got, ok := row[col]
		if want == nil {
			if ok && got != nil {
				return false
			}
			continue
		}
		if !ok || compareValues(got, want) != 0 {
			return false
		}
	}
	return true
}

func compareValues(a, b any) int {
	if at, ok := asTime(a); ok {
		if bt, ok := asTime(b); ok {
			return at.Compare(bt)
		}
	}
	if af, ok := asNumber(a); ok {
		if bf, ok := asNumber(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	default:
		return time.Time{}, false
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
