package lake

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// Format is an encoding of a curated table
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
)

// Extension returns the file extension of the format
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatParquet:
		return "application/vnd.apache.parquet"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// Encode encodes a record in the given format
func Encode(format Format, rec arrow.Record) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case FormatParquet:
		err = WriteParquet(&buf, rec)
	case FormatCSV:
		err = WriteCSV(&buf, rec)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteParquet writes a record as a snappy compressed Parquet file
func WriteParquet(w io.Writer, rec arrow.Record) error {
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	fw, err := pqarrow.NewFileWriter(rec.Schema(), w, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}

	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// WriteCSV writes a record as CSV with a header row. Nulls are written as empty cells.
func WriteCSV(w io.Writer, rec arrow.Record) error {
	cw := csv.NewWriter(w, rec.Schema(), csv.WithHeader(true), csv.WithNullWriter(""))
	if err := cw.Write(rec); err != nil {
		return fmt.Errorf("failed to write csv record: %w", err)
	}
	if err := cw.Flush(); err != nil {
		return fmt.Errorf("failed to flush csv writer: %w", err)
	}
	return cw.Error()
}

// ReadParquet reads a Parquet file back into an Arrow table. The caller must release it.
func ReadParquet(ctx context.Context, data []byte, mem memory.Allocator) (arrow.Table, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	tbl, err := pqarrow.ReadTable(ctx, bytes.NewReader(data), parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet table: %w", err)
	}
	return tbl, nil
}
