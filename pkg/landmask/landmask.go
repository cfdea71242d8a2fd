// Package landmask warps OSM land polygons into SAR image geometry. The
// resulting byte mask is 1 for water and 0 for land, with the tie-point GCPs
// of the scene embedded so the mask geocodes like any other feature band.
package landmask

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"geocoding/pkg/gcps"
	"geocoding/pkg/raster"

	"github.com/fogleman/gg"
)

type Options struct {
	// TiePoints is the number of tie points per dimension extracted from
	// the lat/lon bands.
	TiePoints int
	// Order of the polynomial fitted from the tie points.
	Order int
	// Overwrite replaces an existing output file.
	Overwrite bool
}

func DefaultOptions() Options {
	return Options{
		TiePoints: 21,
		Order:     3,
	}
}

// FromShapefile builds a SAR geometry landmask from a land-polygon
// shapefile. Land polygon vertices are mapped from lon/lat to raw image
// coordinates with a polynomial transform fitted from the tie points, then
// filled. Output is written in ENVI format with the GCPs embedded.
func FromShapefile(latPath, lonPath, shapefilePath, outPath string, opts Options) error {
	log.Printf("Warping %s to SAR geometry landmask", shapefilePath)

	for _, p := range []string{latPath, lonPath, shapefilePath} {
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			return fmt.Errorf("cannot find input file %s", p)
		}
	}
	if _, err := os.Stat(outPath); err == nil {
		if !opts.Overwrite {
			return fmt.Errorf("output file %s already exists", outPath)
		}
		log.Printf("Removing existing output file %s", outPath)
		os.Remove(outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	lat, err := raster.ReadGrid(latPath)
	if err != nil {
		return err
	}
	lon, err := raster.ReadGrid(lonPath)
	if err != nil {
		return err
	}

	// the southern extent matters when the land polygons stop short of
	// Antarctica, so keep it visible in the run log
	minLat, _ := lat.MinMax()
	log.Printf("Minimum latitude of the scene: %g", minLat)

	gcpList, err := gcps.TiePointGrid(lat, lon, opts.TiePoints)
	if err != nil {
		return err
	}

	transform, err := gcps.FitInverse(gcpList, opts.Order)
	if err != nil {
		return err
	}

	polygons, err := raster.ReadPolygons(shapefilePath)
	if err != nil {
		return err
	}
	log.Printf("Masking %d land polygons, resulting mask is water=1, land=0", len(polygons))

	mask := rasterizeLand(polygons, transform, lat.Rows, lat.Cols)

	return raster.WriteENVIMask(outPath, mask, lat.Rows, lat.Cols, gcpList, gcps.WGS84WKT)
}

// pixelMapper maps a lon/lat coordinate to pixel/line image coordinates.
type pixelMapper interface {
	ToPixel(lon, lat float64) (float64, float64)
}

// rasterizeLand fills the outer ring of every land polygon onto a white
// canvas and thresholds the result into a water=1/land=0 byte mask.
func rasterizeLand(polygons []raster.Polygon, transform pixelMapper, rows, cols int) []byte {
	dc := gg.NewContext(cols, rows)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	for i, poly := range polygons {
		if i > 0 && i%10000 == 0 {
			log.Printf("Processing polygon %d of %d", i, len(polygons))
		}
		if len(poly) == 0 {
			continue
		}
		// OSM land polygons carry the land outline in the outer ring.
		drawRing(dc, poly[0], transform)
	}

	return maskFromImage(dc.Image(), rows, cols)
}

func drawRing(dc *gg.Context, ring raster.Ring, transform pixelMapper) {
	points := make([][2]float64, 0, len(ring))
	for _, vertex := range ring {
		px, py := transform.ToPixel(vertex[0], vertex[1])
		points = append(points, [2]float64{px, py})
	}

	// the polygon fill needs at least two points to make sense
	if len(points) <= 2 {
		return
	}

	dc.NewSubPath()
	dc.MoveTo(points[0][0], points[0][1])
	for _, p := range points[1:] {
		dc.LineTo(p[0], p[1])
	}
	dc.ClosePath()
	dc.Fill()
}

// maskFromImage thresholds the canvas into mask bytes, water=1, land=0.
func maskFromImage(img image.Image, rows, cols int) []byte {
	mask := make([]byte, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if r >= 0x8000 {
				mask[y*cols+x] = 1
			}
		}
	}
	return mask
}
