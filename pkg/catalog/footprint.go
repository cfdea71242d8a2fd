package catalog

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"text/template"
)

// Footprint is a product outline in WGS84 lat/lon.
type Footprint struct {
	MinLon, MinLat float64
	MaxLon, MaxLat float64
}

// Corner points of the product bounds transformed with the DuckDB spatial
// extension. EPSG:4326 uses authority axis order, so the transformed point
// comes back lat-first.
const footprintQuery = `
select
ST_X(ST_Transform(ST_Point({{.X}}, {{.Y}}), 'EPSG:{{.EPSG}}', 'EPSG:4326')) as lat,
ST_Y(ST_Transform(ST_Point({{.X}}, {{.Y}}), 'EPSG:{{.EPSG}}', 'EPSG:4326')) as lon
`

// FootprintWGS84 transforms the product bounds to a WGS84 lat/lon footprint.
func (c *Catalog) FootprintWGS84(ctx context.Context, p Product) (*Footprint, error) {
	if _, err := c.db.ExecContext(ctx, "INSTALL spatial; LOAD spatial;"); err != nil {
		return nil, fmt.Errorf("failed to load spatial extension: %w", err)
	}

	tmpl, err := template.New("footprintQuery").Parse(footprintQuery)
	if err != nil {
		return nil, err
	}

	corners := [4][2]float64{
		{p.MinX, p.MinY},
		{p.MinX, p.MaxY},
		{p.MaxX, p.MinY},
		{p.MaxX, p.MaxY},
	}

	out := &Footprint{
		MinLon: math.Inf(1), MinLat: math.Inf(1),
		MaxLon: math.Inf(-1), MaxLat: math.Inf(-1),
	}

	for _, corner := range corners {
		data := map[string]any{
			"X":    corner[0],
			"Y":    corner[1],
			"EPSG": p.EPSG,
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, err
		}

		var lat, lon float64
		if err := c.db.QueryRowContext(ctx, buf.String()).Scan(&lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to transform corner: %w", err)
		}

		out.MinLon = math.Min(out.MinLon, lon)
		out.MaxLon = math.Max(out.MaxLon, lon)
		out.MinLat = math.Min(out.MinLat, lat)
		out.MaxLat = math.Max(out.MaxLat, lat)
	}

	return out, nil
}
