package gcps

import (
	"testing"

	"geocoding/pkg/raster"

	"github.com/stretchr/testify/assert"
)

// syntheticLatLon builds lat/lon grids where lat decreases along rows and
// lon increases along columns, like a north-up scene.
func syntheticLatLon(t *testing.T, rows, cols int) (*raster.Grid, *raster.Grid) {
	t.Helper()

	latData := make([]float64, rows*cols)
	lonData := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			latData[r*cols+c] = 80.0 - 0.01*float64(r)
			lonData[r*cols+c] = 20.0 + 0.02*float64(c)
		}
	}

	lat, err := raster.NewGrid(latData, rows, cols)
	assert.NoError(t, err)
	lon, err := raster.NewGrid(lonData, rows, cols)
	assert.NoError(t, err)
	return lat, lon
}

func TestTiePointGrid(t *testing.T) {
	lat, lon := syntheticLatLon(t, 101, 201)

	gcpList, err := TiePointGrid(lat, lon, 21)
	assert.NoError(t, err)
	assert.Len(t, gcpList, 21*21)

	// First GCP is the top-left corner with 1-based pixel coordinates.
	first := gcpList[0]
	assert.Equal(t, 1.0, first.Pixel)
	assert.Equal(t, 1.0, first.Line)
	assert.InDelta(t, 20.0, first.Lon, 1e-9)
	assert.InDelta(t, 80.0, first.Lat, 1e-9)

	// Last GCP is the bottom-right corner.
	last := gcpList[len(gcpList)-1]
	assert.Equal(t, 201.0, last.Pixel)
	assert.Equal(t, 101.0, last.Line)
	assert.InDelta(t, 20.0+0.02*200, last.Lon, 1e-9)
	assert.InDelta(t, 80.0-0.01*100, last.Lat, 1e-9)
}

func TestTiePointGridShapeMismatch(t *testing.T) {
	lat, _ := syntheticLatLon(t, 50, 60)
	_, lon := syntheticLatLon(t, 60, 50)

	_, err := TiePointGrid(lat, lon, 5)
	assert.Error(t, err)
}

func TestTiePointGridTooFewPoints(t *testing.T) {
	lat, lon := syntheticLatLon(t, 50, 60)

	_, err := TiePointGrid(lat, lon, 1)
	assert.Error(t, err)
}

func TestTiePointGridSmallerThanGrid(t *testing.T) {
	lat, lon := syntheticLatLon(t, 5, 5)

	_, err := TiePointGrid(lat, lon, 21)
	assert.Error(t, err)
}

func TestLinspaceIndices(t *testing.T) {
	idx := linspaceIndices(200, 21)
	assert.Len(t, idx, 21)
	assert.Equal(t, 0, idx[0])
	assert.Equal(t, 200, idx[len(idx)-1])
	assert.Equal(t, 10, idx[1])

	// endpoints always included
	idx = linspaceIndices(7, 3)
	assert.Equal(t, []int{0, 3, 7}, idx)
}
