package raster

import (
	"fmt"
	"strconv"

	"github.com/airbusgeo/godal"
)

// ReadGrid reads the first band of a raster dataset into a Grid.
func ReadGrid(path string) (*Grid, error) {
	grids, err := ReadGrids(path)
	if err != nil {
		return nil, err
	}
	return grids[0], nil
}

// ReadGrids reads all bands of a raster dataset into Grids.
func ReadGrids(path string) ([]*Grid, error) {
	ds, err := godal.Open(path, godal.RasterOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer ds.Close()

	st := ds.Structure()
	if st.NBands == 0 {
		return nil, fmt.Errorf("%s has no raster bands", path)
	}

	grids := make([]*Grid, 0, st.NBands)
	for _, band := range ds.Bands() {
		buf := make([]float64, st.SizeX*st.SizeY)
		if err := band.Read(0, 0, buf, st.SizeX, st.SizeY); err != nil {
			return nil, fmt.Errorf("failed to read band from %s: %w", path, err)
		}
		grid, err := NewGrid(buf, st.SizeY, st.SizeX)
		if err != nil {
			return nil, err
		}
		grids = append(grids, grid)
	}

	return grids, nil
}

// WriteGTiffWithGCPs writes the given bands to a GeoTIFF and embeds the GCP
// list with its projection. All bands must share the same shape.
func WriteGTiffWithGCPs(path string, bands []*Grid, gcpList []GCP, projWKT string) error {
	if len(bands) == 0 {
		return fmt.Errorf("no bands to write")
	}
	rows, cols := bands[0].Shape()
	for i, b := range bands {
		if b.Rows != rows || b.Cols != cols {
			return fmt.Errorf("band %d shape %dx%d does not match %dx%d", i+1, b.Rows, b.Cols, rows, cols)
		}
	}

	ds, err := godal.Create(godal.GTiff, path, len(bands), godal.Float32, cols, rows)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	for i, band := range ds.Bands() {
		buf := make([]float32, len(bands[i].Data))
		for j, v := range bands[i].Data {
			buf[j] = float32(v)
		}
		if err := band.Write(0, 0, buf, cols, rows); err != nil {
			ds.Close()
			return fmt.Errorf("failed to write band %d: %w", i+1, err)
		}
	}

	if err := ds.SetGCPs(godalGCPs(gcpList), godal.GCPProjection(projWKT)); err != nil {
		ds.Close()
		return fmt.Errorf("failed to set GCPs: %w", err)
	}

	return ds.Close()
}

// WriteENVIMask writes a byte mask in ENVI format and embeds the GCP list
// with its projection.
func WriteENVIMask(path string, mask []byte, rows, cols int, gcpList []GCP, projWKT string) error {
	if len(mask) != rows*cols {
		return fmt.Errorf("mask length %d does not match shape %dx%d", len(mask), rows, cols)
	}

	ds, err := godal.Create(godal.DriverName("ENVI"), path, 1, godal.Byte, cols, rows)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := ds.Bands()[0].Write(0, 0, mask, cols, rows); err != nil {
		ds.Close()
		return fmt.Errorf("failed to write mask band: %w", err)
	}

	if err := ds.SetGCPs(godalGCPs(gcpList), godal.GCPProjection(projWKT)); err != nil {
		ds.Close()
		return fmt.Errorf("failed to set GCPs: %w", err)
	}

	return ds.Close()
}

// Warp runs the library version of gdalwarp on src, writing the result to
// dst. It returns the bounds of the warped dataset in its target projection
// (minx, miny, maxx, maxy).
func Warp(src, dst string, switches []string) ([4]float64, error) {
	var bounds [4]float64

	srcDs, err := godal.Open(src, godal.RasterOnly())
	if err != nil {
		return bounds, fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer srcDs.Close()

	warped, err := srcDs.Warp(dst, switches, godal.GTiff)
	if err != nil {
		return bounds, fmt.Errorf("gdalwarp failed: %w", err)
	}
	defer warped.Close()

	gt, err := warped.GeoTransform()
	if err != nil {
		return bounds, fmt.Errorf("failed to read geotransform: %w", err)
	}
	st := warped.Structure()

	// Corners of an axis-aligned (north-up) warp output.
	bounds[0] = gt[0]
	bounds[3] = gt[3]
	bounds[2] = gt[0] + float64(st.SizeX)*gt[1]
	bounds[1] = gt[3] + float64(st.SizeY)*gt[5]

	return bounds, nil
}

func godalGCPs(list []GCP) []godal.GCP {
	out := make([]godal.GCP, len(list))
	for i, g := range list {
		out[i] = godal.GCP{
			PszId:      strconv.Itoa(i + 1),
			DfGCPPixel: g.Pixel,
			DfGCPLine:  g.Line,
			DfGCPX:     g.Lon,
			DfGCPY:     g.Lat,
			DfGCPZ:     g.Height,
		}
	}
	return out
}
