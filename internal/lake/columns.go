// Package lake converts curated tables into Arrow records and encodes them for publication.
package lake

import (
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// timestampType is the type of every date column, microseconds in UTC
var timestampType = arrow.FixedWidthTypes.Timestamp_us

// column describes one field of a table and how to append it from a row
type column[T any] struct {
	field    arrow.Field
	appendTo func(b array.Builder, row T)
}

func stringColumn[T any](name string, get func(T) string) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: arrow.BinaryTypes.String},
		appendTo: func(b array.Builder, row T) {
			b.(*array.StringBuilder).Append(get(row))
		},
	}
}

func nullableStringColumn[T any](name string, get func(T) *string) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true},
		appendTo: func(b array.Builder, row T) {
			if v := get(row); v != nil {
				b.(*array.StringBuilder).Append(*v)
				return
			}
			b.AppendNull()
		},
	}
}

func int64Column[T any](name string, get func(T) int64) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64},
		appendTo: func(b array.Builder, row T) {
			b.(*array.Int64Builder).Append(get(row))
		},
	}
}

func nullableInt64Column[T any](name string, get func(T) *int64) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		appendTo: func(b array.Builder, row T) {
			if v := get(row); v != nil {
				b.(*array.Int64Builder).Append(*v)
				return
			}
			b.AppendNull()
		},
	}
}

func intColumn[T any](name string, get func(T) int) column[T] {
	return int64Column(name, func(row T) int64 { return int64(get(row)) })
}

func float64Column[T any](name string, get func(T) float64) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64},
		appendTo: func(b array.Builder, row T) {
			b.(*array.Float64Builder).Append(get(row))
		},
	}
}

func nullableFloat64Column[T any](name string, get func(T) *float64) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		appendTo: func(b array.Builder, row T) {
			if v := get(row); v != nil {
				b.(*array.Float64Builder).Append(*v)
				return
			}
			b.AppendNull()
		},
	}
}

func boolColumn[T any](name string, get func(T) bool) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Boolean},
		appendTo: func(b array.Builder, row T) {
			b.(*array.BooleanBuilder).Append(get(row))
		},
	}
}

func timestampColumn[T any](name string, get func(T) time.Time) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: timestampType},
		appendTo: func(b array.Builder, row T) {
			b.(*array.TimestampBuilder).Append(arrow.Timestamp(get(row).UnixMicro()))
		},
	}
}

func nullableTimestampColumn[T any](name string, get func(T) *time.Time) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: timestampType, Nullable: true},
		appendTo: func(b array.Builder, row T) {
			if v := get(row); v != nil {
				b.(*array.TimestampBuilder).Append(arrow.Timestamp(v.UnixMicro()))
				return
			}
			b.AppendNull()
		},
	}
}

// schemaOf returns the Arrow schema of a column set
func schemaOf[T any](columns []column[T]) *arrow.Schema {
	fields := make([]arrow.Field, 0, len(columns))
	for _, c := range columns {
		fields = append(fields, c.field)
	}
	return arrow.NewSchema(fields, nil)
}

// buildRecord appends every row column by column. The caller owns the returned record.
func buildRecord[T any](mem memory.Allocator, columns []column[T], rows []T) arrow.Record {
	builder := array.NewRecordBuilder(mem, schemaOf(columns))
	defer builder.Release()

	builder.Reserve(len(rows))
	for i, c := range columns {
		fb := builder.Field(i)
		for _, row := range rows {
			c.appendTo(fb, row)
		}
	}
	return builder.NewRecord()
}
