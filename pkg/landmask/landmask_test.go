package landmask

import (
	"testing"

	"geocoding/pkg/raster"

	"github.com/stretchr/testify/assert"
)

// identityTransform maps lon/lat directly onto pixel/line, so polygons can
// be stated in image coordinates.
type identityTransform struct{}

func (identityTransform) ToPixel(lon, lat float64) (float64, float64) {
	return lon, lat
}

func TestRasterizeLand(t *testing.T) {
	// a 10x10 land square in the middle of a 40x40 scene
	polygons := []raster.Polygon{
		{raster.Ring{{10, 10}, {20, 10}, {20, 20}, {10, 20}, {10, 10}}},
	}

	mask := rasterizeLand(polygons, identityTransform{}, 40, 40)
	assert.Len(t, mask, 40*40)

	// inside the square: land
	assert.Equal(t, byte(0), mask[15*40+15])
	// outside: water
	assert.Equal(t, byte(1), mask[5*40+5])
	assert.Equal(t, byte(1), mask[35*40+35])
}

func TestRasterizeLandMultiplePolygons(t *testing.T) {
	polygons := []raster.Polygon{
		{raster.Ring{{0, 0}, {8, 0}, {8, 8}, {0, 8}, {0, 0}}},
		{raster.Ring{{30, 30}, {38, 30}, {38, 38}, {30, 38}, {30, 30}}},
	}

	mask := rasterizeLand(polygons, identityTransform{}, 40, 40)

	assert.Equal(t, byte(0), mask[4*40+4])
	assert.Equal(t, byte(0), mask[34*40+34])
	assert.Equal(t, byte(1), mask[20*40+20])
}

func TestRasterizeLandDegeneratePolygon(t *testing.T) {
	// two-point "polygons" cannot be filled and are skipped
	polygons := []raster.Polygon{
		{raster.Ring{{10, 10}, {20, 20}}},
		{},
	}

	mask := rasterizeLand(polygons, identityTransform{}, 20, 20)
	for _, v := range mask {
		assert.Equal(t, byte(1), v)
	}
}

func TestRasterizeLandAllWater(t *testing.T) {
	mask := rasterizeLand(nil, identityTransform{}, 8, 8)
	for _, v := range mask {
		assert.Equal(t, byte(1), v)
	}
}
