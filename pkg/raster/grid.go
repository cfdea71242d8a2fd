package raster

import (
	"fmt"
	"math"
)

// Grid is a single raster band held in memory as float64 samples,
// stored row-major.
type Grid struct {
	Data []float64
	Rows int
	Cols int
}

func NewGrid(data []float64, rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid shape %dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("grid data length %d does not match shape %dx%d", len(data), rows, cols)
	}
	return &Grid{Data: data, Rows: rows, Cols: cols}, nil
}

// At returns the sample at the given row and column.
func (g *Grid) At(row, col int) float64 {
	return g.Data[row*g.Cols+col]
}

// Shape returns rows and columns.
func (g *Grid) Shape() (int, int) {
	return g.Rows, g.Cols
}

// MinMax returns the minimum and maximum sample values, skipping NaNs.
func (g *Grid) MinMax() (float64, float64) {
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, v := range g.Data {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// GCP ties a pixel/line position in raw image geometry to a geographic
// coordinate. Pixel and Line follow the GDAL GCP convention used when
// embedding tie points (1-based sample coordinates).
type GCP struct {
	Pixel  float64
	Line   float64
	Lon    float64
	Lat    float64
	Height float64
}
