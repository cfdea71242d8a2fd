package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/duckdb/duckdb-go/v2"
)

// ExportParquet writes the full catalog to a parquet file via Arrow record
// batches.
func (c *Catalog) ExportParquet(ctx context.Context, path string) error {
	conn, err := c.connector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	ar, err := duckdb.NewArrowFromConn(conn)
	if err != nil {
		return fmt.Errorf("failed to create arrow from duckdb: %w", err)
	}

	reader, err := ar.QueryContext(ctx, "SELECT * FROM products ORDER BY ID")
	if err != nil {
		return fmt.Errorf("failed to query products: %w", err)
	}
	defer reader.Release()

	var recs []arrow.RecordBatch
	for reader.Next() {
		rec := reader.RecordBatch()
		rec.Retain()
		recs = append(recs, rec)
	}
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()

	if len(recs) == 0 {
		return fmt.Errorf("catalog is empty, nothing to export")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()

	schema := recs[0].Schema()
	writer, err := pqarrow.NewFileWriter(
		schema,
		f,
		parquet.NewWriterProperties(
			parquet.WithCompression(compress.Codecs.Snappy)),
		pqarrow.DefaultWriterProps(),
	)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %v", err)
	}
	defer writer.Close()

	for _, rec := range recs {
		if err := writer.WriteBuffered(rec); err != nil {
			return fmt.Errorf("failed to write record batch: %v", err)
		}
	}

	return nil
}
