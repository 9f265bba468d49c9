package store

import (
	"context"
	"reflect"
	"strings"
	"sync"
)

// StructsByName runs sql and fills one T per row, matching columns to db tags
// or, when a field has no tag, to its lowercased name
// columns without a field are dropped, a repeated column keeps its last value
func StructsByName[T any](ctx context.Context, q RowQuerier, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	idx := fieldsOf(reflect.TypeFor[T]())
	cols := rows.Columns()
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	var out []T
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		var item T
		rv := reflect.ValueOf(&item).Elem()
		for i, c := range cols {
			if f, ok := idx[strings.ToLower(c)]; ok {
				set(rv.Field(f), vals[i])
			}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

var fieldCache sync.Map // reflect.Type -> map[string]int

func fieldsOf(t reflect.Type) map[string]int {
	if m, ok := fieldCache.Load(t); ok {
		return m.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get("db")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		m[strings.ToLower(name)] = i
	}
	fieldCache.Store(t, m)
	return m
}

// set stores v in dst when it is assignable or convertible, text goes both
// ways between string and []byte, anything else leaves dst zero
func set(dst reflect.Value, v any) {
	if v == nil {
		dst.SetZero()
		return
	}
	sv := reflect.ValueOf(v)
	switch {
	case sv.Type().AssignableTo(dst.Type()):
		dst.Set(sv)
	case sv.Kind() == reflect.Slice && dst.Kind() == reflect.String:
		if b, ok := v.([]byte); ok {
			dst.SetString(string(b))
		}
	case sv.Kind() == reflect.String && dst.Kind() == reflect.Slice:
		if dst.Type().Elem().Kind() == reflect.Uint8 {
			dst.SetBytes([]byte(v.(string)))
		}
	case sv.Type().ConvertibleTo(dst.Type()) && sv.Kind() != reflect.String && dst.Kind() != reflect.String:
		dst.Set(sv.Convert(dst.Type()))
	}
}
