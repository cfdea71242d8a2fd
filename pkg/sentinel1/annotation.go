// Package sentinel1 reads geolocation information from Sentinel-1 SAFE
// products. The annotation XML of a SAFE folder carries a geolocation grid
// that maps raw image pixel/line positions to lat/lon coordinates, which is
// exactly the GCP list needed for geocoding.
package sentinel1

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"geocoding/pkg/raster"
)

type annotationProduct struct {
	XMLName         xml.Name `xml:"product"`
	GeolocationGrid struct {
		PointList struct {
			Count  int                    `xml:"count,attr"`
			Points []geolocationGridPoint `xml:"geolocationGridPoint"`
		} `xml:"geolocationGridPointList"`
	} `xml:"geolocationGrid"`
}

type geolocationGridPoint struct {
	Line      float64 `xml:"line"`
	Pixel     float64 `xml:"pixel"`
	Latitude  float64 `xml:"latitude"`
	Longitude float64 `xml:"longitude"`
	Height    float64 `xml:"height"`
}

// FindAnnotation locates the annotation XML for the given polarisation
// ("hh", "vv", ...) inside a SAFE folder. With an empty polarisation the
// first annotation file is returned.
func FindAnnotation(safeDir, polarisation string) (string, error) {
	annotationDir := filepath.Join(safeDir, "annotation")
	entries, err := os.ReadDir(annotationDir)
	if err != nil {
		return "", fmt.Errorf("cannot read SAFE annotation folder: %w", err)
	}

	polarisation = strings.ToLower(polarisation)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".xml") {
			continue
		}
		if polarisation == "" || strings.Contains(name, "-"+polarisation+"-") {
			return filepath.Join(annotationDir, name), nil
		}
	}

	if polarisation == "" {
		return "", fmt.Errorf("no annotation file found in %s", annotationDir)
	}
	return "", fmt.Errorf("no annotation file for polarisation %q in %s", polarisation, annotationDir)
}

// ParseAnnotation reads the geolocation grid of an annotation XML into a
// GCP list. Pixel/line coordinates are converted to the same 1-based
// convention used for tie points extracted from lat/lon bands.
func ParseAnnotation(r io.Reader) ([]raster.GCP, error) {
	var product annotationProduct
	if err := xml.NewDecoder(r).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to parse annotation xml: %w", err)
	}

	points := product.GeolocationGrid.PointList.Points
	if len(points) == 0 {
		return nil, fmt.Errorf("annotation has an empty geolocation grid")
	}

	gcps := make([]raster.GCP, len(points))
	for i, p := range points {
		gcps[i] = raster.GCP{
			Pixel:  p.Pixel + 1.0,
			Line:   p.Line + 1.0,
			Lon:    p.Longitude,
			Lat:    p.Latitude,
			Height: p.Height,
		}
	}

	return gcps, nil
}

// GCPsFromSAFE extracts the GCP list from the annotation of a SAFE folder.
func GCPsFromSAFE(safeDir, polarisation string) ([]raster.GCP, error) {
	path, err := FindAnnotation(safeDir, polarisation)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open annotation file: %w", err)
	}
	defer f.Close()

	return ParseAnnotation(f)
}
