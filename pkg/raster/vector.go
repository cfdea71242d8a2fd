package raster

import (
	"encoding/json"
	"fmt"

	"github.com/airbusgeo/godal"
)

// Ring is a closed sequence of lon/lat vertices.
type Ring [][2]float64

// Polygon holds the rings of a polygon feature, outer ring first.
type Polygon []Ring

// ReadPolygons reads all polygon features from the first layer of a vector
// dataset (e.g. an OSM land-polygon shapefile). MultiPolygons are flattened
// into their member polygons.
func ReadPolygons(path string) ([]Polygon, error) {
	ds, err := godal.Open(path, godal.VectorOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer ds.Close()

	layers := ds.Layers()
	if len(layers) == 0 {
		return nil, fmt.Errorf("%s has no vector layers", path)
	}

	// OSM land/water polygon shapefiles keep everything in the first layer.
	layer := layers[0]
	layer.ResetReading()

	var polygons []Polygon
	for {
		feature := layer.NextFeature()
		if feature == nil {
			break
		}
		geom := feature.Geometry()
		gj, err := geom.GeoJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to export feature geometry: %w", err)
		}
		polys, err := parsePolygonGeoJSON([]byte(gj))
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, polys...)
	}

	return polygons, nil
}

func parsePolygonGeoJSON(data []byte) ([]Polygon, error) {
	var g struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse geometry json: %w", err)
	}

	switch g.Type {
	case "Polygon":
		var rings []Ring
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("failed to parse polygon coordinates: %w", err)
		}
		return []Polygon{rings}, nil
	case "MultiPolygon":
		var polys []Polygon
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("failed to parse multipolygon coordinates: %w", err)
		}
		return polys, nil
	default:
		// Point/line features in the source are not maskable, skip them.
		return nil, nil
	}
}
