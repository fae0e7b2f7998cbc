package postgres

import (
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ExtractDBColumns extracts all column names from struct "db" tags.
// Embedded structs (entity.Catalog, entity.Document, ledger.Row) are walked recursively.
// Called once per repository at construction.
//
//	columns := ExtractDBColumns[bottletype.BottleType]()
//	// ["id", "version", "code", "name", "unit_price", ...]
func ExtractDBColumns[T any]() []string {
	var zero T
	return extractColumnsFromType(reflect.TypeOf(zero))
}

func extractColumnsFromType(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			cols = append(cols, extractColumnsFromType(field.Type)...)
			continue
		}
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, tag)
	}
	return cols
}

type fieldInfo struct {
	index int
	dbTag string
}

type typeMetadata struct {
	fields          []fieldInfo
	embeddedIndices []int
}

// typeCache holds map[reflect.Type]*typeMetadata.
var typeCache sync.Map

func getOrCreateTypeMetadata(t reflect.Type) *typeMetadata {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Anonymous {
				meta.embeddedIndices = append(meta.embeddedIndices, i)
				continue
			}
			tag := field.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			meta.fields = append(meta.fields, fieldInfo{index: i, dbTag: tag})
		}
	}

	typeCache.Store(t, meta)
	return meta
}

// StructToMap converts a struct to a column map using "db" tags.
// Fields without a tag or tagged "-" are skipped.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := getOrCreateTypeMetadata(rv.Type())
	res := make(map[string]any, len(meta.fields))

	for _, fi := range meta.fields {
		res[fi.dbTag] = rv.Field(fi.index).Interface()
	}
	for _, embIdx := range meta.embeddedIndices {
		for k, v := range StructToMap(rv.Field(embIdx).Interface()) {
			res[k] = v
		}
	}
	return res
}

// PickColumns keeps the entries of data named in cols.
func PickColumns(data map[string]any, cols []string) map[string]any {
	out := make(map[string]any, len(cols))
	for _, col := range cols {
		if val, ok := data[col]; ok {
			out[col] = val
		}
	}
	return out
}

// RowValues returns the values of data in cols order, nil for missing columns.
func RowValues(data map[string]any, cols []string) []any {
	out := make([]any, len(cols))
	for i, col := range cols {
		out[i] = copyValue(data[col])
	}
	return out
}

// copyValue converts values COPY cannot encode in binary format.
func copyValue(v any) any {
	if d, ok := v.(decimal.Decimal); ok {
		return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
	}
	return v
}
