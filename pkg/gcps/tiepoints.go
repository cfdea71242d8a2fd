package gcps

import (
	"fmt"

	"geocoding/pkg/raster"
)

// WGS84WKT is the well-known text of EPSG:4326, the projection of tie points
// extracted from lat/lon bands or SAFE annotation.
const WGS84WKT = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AUTHORITY["EPSG","4326"]]`

// TiePointGrid extracts an n-by-n tie point grid from lat/lon bands. Rows
// and columns are sampled at evenly spaced indices including both endpoints.
// GCP pixel/line coordinates are 1-based.
func TiePointGrid(lat, lon *raster.Grid, n int) ([]raster.GCP, error) {
	if lat.Rows != lon.Rows || lat.Cols != lon.Cols {
		return nil, fmt.Errorf("lat and lon grids must have the same shape, got %dx%d and %dx%d",
			lat.Rows, lat.Cols, lon.Rows, lon.Cols)
	}
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 tie points per dimension, got %d", n)
	}
	if lat.Rows < n || lat.Cols < n {
		return nil, fmt.Errorf("grid %dx%d is smaller than the %d tie points per dimension",
			lat.Rows, lat.Cols, n)
	}

	tiePointsX := linspaceIndices(lat.Cols-1, n)
	tiePointsY := linspaceIndices(lat.Rows-1, n)

	gcps := make([]raster.GCP, 0, n*n)
	for _, x := range tiePointsX {
		for _, y := range tiePointsY {
			gcps = append(gcps, raster.GCP{
				Pixel: float64(x) + 1.0,
				Line:  float64(y) + 1.0,
				Lon:   lon.At(y, x),
				Lat:   lat.At(y, x),
			})
		}
	}

	return gcps, nil
}

// linspaceIndices returns n integer indices evenly spaced over [0, max],
// endpoints included, truncated like numpy's linspace(...).astype(int).
func linspaceIndices(max, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = int(float64(i) * float64(max) / float64(n-1))
	}
	return out
}
