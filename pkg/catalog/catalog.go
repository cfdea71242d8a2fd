// Package catalog keeps a DuckDB-backed inventory of geocoded products, so
// batch runs can be queried, exported and mapped without reopening every
// output file.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/duckdb/duckdb-go/v2"
)

// Product is one geocoded output registered in the catalog.
type Product struct {
	ID           int
	Scene        string
	Sensor       string
	Source       string
	OutputPath   string
	EPSG         int
	PixelSpacing float64
	Resampling   string
	WarpOrder    int
	// Bounds in target projection units.
	MinX, MinY, MaxX, MaxY float64
	CreatedAt              time.Time
}

// Catalog stores products in a DuckDB database.
type Catalog struct {
	connector *duckdb.Connector
	db        *sql.DB
}

const createTable = `CREATE TABLE IF NOT EXISTS products (
	ID INTEGER,
	SCENE VARCHAR,
	SENSOR VARCHAR,
	SOURCE VARCHAR,
	OUTPUT VARCHAR,
	EPSG INTEGER,
	PIXEL_SPACING DOUBLE,
	RESAMPLING VARCHAR,
	WARP_ORDER INTEGER,
	MIN_X DOUBLE,
	MIN_Y DOUBLE,
	MAX_X DOUBLE,
	MAX_Y DOUBLE,
	CREATED_AT TIMESTAMP
)`

// Open opens (or creates) a catalog database. An empty path gives an
// in-memory catalog.
func Open(path string) (*Catalog, error) {
	connector, err := duckdb.NewConnector(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		connector.Close()
		return nil, fmt.Errorf("failed to create products table: %w", err)
	}

	return &Catalog{connector: connector, db: db}, nil
}

func (c *Catalog) Close() error {
	if err := c.db.Close(); err != nil {
		return err
	}
	return c.connector.Close()
}

// Insert registers a product and returns it with its assigned ID and
// creation timestamp.
func (c *Catalog) Insert(ctx context.Context, p Product) (*Product, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var nextID int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(ID), 0) + 1 FROM products").Scan(&nextID); err != nil {
		return nil, fmt.Errorf("failed to get next product id: %w", err)
	}

	p.ID = nextID
	p.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	insertQuery := `INSERT INTO products
		(ID, SCENE, SENSOR, SOURCE, OUTPUT, EPSG, PIXEL_SPACING, RESAMPLING, WARP_ORDER,
		 MIN_X, MIN_Y, MAX_X, MAX_Y, CREATED_AT)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, insertQuery,
		p.ID, p.Scene, p.Sensor, p.Source, p.OutputPath, p.EPSG, p.PixelSpacing,
		p.Resampling, p.WarpOrder, p.MinX, p.MinY, p.MaxX, p.MaxY, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &p, nil
}

// List returns all products, newest first.
func (c *Catalog) List(ctx context.Context) ([]Product, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT
		ID, SCENE, SENSOR, SOURCE, OUTPUT, EPSG, PIXEL_SPACING, RESAMPLING, WARP_ORDER,
		MIN_X, MIN_Y, MAX_X, MAX_Y, CREATED_AT
		FROM products ORDER BY ID DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Scene, &p.Sensor, &p.Source, &p.OutputPath,
			&p.EPSG, &p.PixelSpacing, &p.Resampling, &p.WarpOrder,
			&p.MinX, &p.MinY, &p.MaxX, &p.MaxY, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}
