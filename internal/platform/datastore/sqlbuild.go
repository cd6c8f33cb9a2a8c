package datastore

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// textTimeLayout is fixed width so text columns sort and compare in time order.
const textTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type placeholder func(n int) string

func dollar(n int) string   { return "$" + strconv.Itoa(n) }
func question(_ int) string { return "?" }

type builder struct {
	ph         placeholder
	encodeTime bool
}

func (b builder) arg(v any) any {
	if t, ok := v.(time.Time); ok && b.encodeTime {
		return t.UTC().Format(textTimeLayout)
	}
	if t, ok := v.(*time.Time); ok {
		if t == nil {
			return nil
		}
		return b.arg(*t)
	}
	return v
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b builder) where(filter Filter, start int) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	parts := make([]string, 0, len(filter))
	args := make([]any, 0, len(filter))
	for _, col := range sortedKeys(filter) {
		if err := checkIdent(col); err != nil {
			return "", nil, err
		}
		v := filter[col]
		if v == nil {
			parts = append(parts, col+" IS NULL")
			continue
		}
		args = append(args, b.arg(v))
		parts = append(parts, col+" = "+b.ph(start+len(args)))
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

func (b builder) rangeSQL(r Range, start int) (string, []any, error) {
	if err := checkIdent(r.Column); err != nil {
		return "", nil, err
	}
	var parts []string
	var args []any
	if !r.From.IsZero() {
		args = append(args, b.arg(r.From))
		parts = append(parts, r.Column+" >= "+b.ph(start+len(args)))
	}
	if !r.Until.IsZero() {
		args = append(args, b.arg(r.Until))
		parts = append(parts, r.Column+" < "+b.ph(start+len(args)))
	}
	return strings.Join(parts, " AND "), args, nil
}

func (b builder) selectSQL(table string, q Query) (string, []any, error) {
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	where, args, err := b.where(q.Filter, 0)
	if err != nil {
		return "", nil, err
	}
	if !q.Range.empty() {
		bounds, boundArgs, err := b.rangeSQL(q.Range, len(args))
		if err != nil {
			return "", nil, err
		}
		if where == "" {
			where = " WHERE " + bounds
		} else {
			where += " AND " + bounds
		}
		args = append(args, boundArgs...)
	}
	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table)
	sb.WriteString(where)
	if q.OrderBy != "" {
		if err := checkIdent(q.OrderBy); err != nil {
			return "", nil, err
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(q.OrderBy)
		if q.Desc {
			sb.WriteString(" DESC")
		}
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(q.Offset))
	}
	return sb.String(), args, nil
}

func (b builder) insertSQL(table string, row Row) (string, []any, error) {
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	if len(row) == 0 {
		return "", nil, ErrEmptyRow
	}
	cols := sortedKeys(row)
	holders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		if err := checkIdent(col); err != nil {
			return "", nil, err
		}
		holders[i] = b.ph(i + 1)
		args[i] = b.arg(row[col])
	}
	return "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(holders, ", ") + ")", args, nil
}

func (b builder) updateSQL(table string, filter Filter, changes Row) (string, []any, error) {
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	if len(changes) == 0 {
		return "", nil, ErrEmptyRow
	}
	cols := sortedKeys(changes)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(filter))
	for i, col := range cols {
		if err := checkIdent(col); err != nil {
			return "", nil, err
		}
		args = append(args, b.arg(changes[col]))
		sets[i] = col + " = " + b.ph(len(args))
	}
	where, whereArgs, err := b.where(filter, len(args))
	if err != nil {
		return "", nil, err
	}
	args = append(args, whereArgs...)
	return "UPDATE " + table + " SET " + strings.Join(sets, ", ") + where, args, nil
}

func (b builder) deleteSQL(table string, filter Filter) (string, []any, error) {
	if err := checkIdent(table); err != nil {
		return "", nil, err
	}
	where, args, err := b.where(filter, 0)
	if err != nil {
		return "", nil, err
	}
	return "DELETE FROM " + table + where, args, nil
}
