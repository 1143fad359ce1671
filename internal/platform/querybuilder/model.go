package querybuilder

import (
	"errors"
	"reflect"
	"slices"
	"strings"
)

// InsertModel builds an INSERT from the `db` tags of a struct. Columns named
// in skip are left out so the database can apply defaults.
func InsertModel(table string, model any, suffix string, skip ...string) (string, []any, error) {
	cols, vals, err := modelColumns(model, skip)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).Columns(cols...).Values(vals...).Suffix(suffix).ToSQL()
}

// modelColumns walks exported fields in declaration order.
func modelColumns(model any, skip []string) (cols []string, vals []any, err error) {
	v := reflect.Indirect(reflect.ValueOf(model))
	if !v.IsValid() {
		return nil, nil, errors.New("model cannot be nil")
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, errors.New("model must be struct")
	}

	for _, field := range reflect.VisibleFields(v.Type()) {
		if !field.IsExported() || len(field.Index) > 1 {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" || slices.Contains(skip, col) {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, v.Field(field.Index[0]).Interface())
	}
	if len(cols) == 0 {
		return nil, nil, errors.New("model has no db columns")
	}
	return cols, vals, nil
}
