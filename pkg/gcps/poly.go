package gcps

import (
	"fmt"
	"math"

	"geocoding/pkg/raster"
)

// PolyTransform maps lon/lat coordinates to pixel/line coordinates with a
// 2D polynomial of order 1 to 3, fitted by least squares from a GCP list.
// It plays the role of an inverse GCP_POLYNOMIAL transformer when polygon
// vertices have to be placed in raw image geometry.
type PolyTransform struct {
	order int
	px    []float64
	py    []float64

	// normalization of the lon/lat input space, as GDAL's GCP fitting does,
	// to keep the normal equations well conditioned
	lon0, lat0         float64
	lonScale, latScale float64
}

// FitInverse fits a PolyTransform of the given order to the GCP list.
func FitInverse(gcpList []raster.GCP, order int) (*PolyTransform, error) {
	if order < 1 || order > 3 {
		return nil, fmt.Errorf("unsupported polynomial order %d", order)
	}

	nTerms := (order + 1) * (order + 2) / 2
	if len(gcpList) < nTerms {
		return nil, fmt.Errorf("need at least %d GCPs for order %d, got %d", nTerms, order, len(gcpList))
	}

	t := &PolyTransform{order: order}
	t.normalizeFrom(gcpList)

	rows := make([][]float64, len(gcpList))
	pixels := make([]float64, len(gcpList))
	lines := make([]float64, len(gcpList))
	for i, g := range gcpList {
		u, v := t.normalize(g.Lon, g.Lat)
		rows[i] = polyTerms(u, v, order)
		pixels[i] = g.Pixel
		lines[i] = g.Line
	}

	px, err := solveLeastSquares(rows, pixels, nTerms)
	if err != nil {
		return nil, fmt.Errorf("failed to fit pixel polynomial: %w", err)
	}
	py, err := solveLeastSquares(rows, lines, nTerms)
	if err != nil {
		return nil, fmt.Errorf("failed to fit line polynomial: %w", err)
	}

	t.px = px
	t.py = py
	return t, nil
}

func (t *PolyTransform) normalizeFrom(gcpList []raster.GCP) {
	lonMin, lonMax := gcpList[0].Lon, gcpList[0].Lon
	latMin, latMax := gcpList[0].Lat, gcpList[0].Lat
	for _, g := range gcpList {
		lonMin = math.Min(lonMin, g.Lon)
		lonMax = math.Max(lonMax, g.Lon)
		latMin = math.Min(latMin, g.Lat)
		latMax = math.Max(latMax, g.Lat)
	}
	t.lon0 = (lonMin + lonMax) / 2
	t.lat0 = (latMin + latMax) / 2
	t.lonScale = (lonMax - lonMin) / 2
	t.latScale = (latMax - latMin) / 2
	if t.lonScale == 0 {
		t.lonScale = 1
	}
	if t.latScale == 0 {
		t.latScale = 1
	}
}

func (t *PolyTransform) normalize(lon, lat float64) (float64, float64) {
	return (lon - t.lon0) / t.lonScale, (lat - t.lat0) / t.latScale
}

// Order returns the polynomial order of the transform.
func (t *PolyTransform) Order() int {
	return t.order
}

// ToPixel maps a lon/lat coordinate to pixel/line coordinates.
func (t *PolyTransform) ToPixel(lon, lat float64) (float64, float64) {
	u, v := t.normalize(lon, lat)
	terms := polyTerms(u, v, t.order)
	var pixel, line float64
	for i, term := range terms {
		pixel += t.px[i] * term
		line += t.py[i] * term
	}
	return pixel, line
}

// polyTerms returns the monomials x^i*y^j with i+j <= order.
func polyTerms(x, y float64, order int) []float64 {
	terms := make([]float64, 0, (order+1)*(order+2)/2)
	for total := 0; total <= order; total++ {
		for i := total; i >= 0; i-- {
			terms = append(terms, math.Pow(x, float64(i))*math.Pow(y, float64(total-i)))
		}
	}
	return terms
}

// solveLeastSquares solves min ||A*c - b|| via the normal equations with
// Gaussian elimination and partial pivoting. The systems here are tiny
// (at most 10 unknowns for order 3).
func solveLeastSquares(a [][]float64, b []float64, nTerms int) ([]float64, error) {
	// Build A^T*A and A^T*b.
	ata := make([][]float64, nTerms)
	atb := make([]float64, nTerms)
	for i := range ata {
		ata[i] = make([]float64, nTerms)
	}
	for r := range a {
		for i := 0; i < nTerms; i++ {
			atb[i] += a[r][i] * b[r]
			for j := 0; j < nTerms; j++ {
				ata[i][j] += a[r][i] * a[r][j]
			}
		}
	}

	for col := 0; col < nTerms; col++ {
		pivot := col
		for r := col + 1; r < nTerms; r++ {
			if math.Abs(ata[r][col]) > math.Abs(ata[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(ata[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular system, GCPs may be collinear")
		}
		ata[col], ata[pivot] = ata[pivot], ata[col]
		atb[col], atb[pivot] = atb[pivot], atb[col]

		for r := col + 1; r < nTerms; r++ {
			f := ata[r][col] / ata[col][col]
			for c := col; c < nTerms; c++ {
				ata[r][c] -= f * ata[col][c]
			}
			atb[r] -= f * atb[col]
		}
	}

	coeffs := make([]float64, nTerms)
	for i := nTerms - 1; i >= 0; i-- {
		sum := atb[i]
		for j := i + 1; j < nTerms; j++ {
			sum -= ata[i][j] * coeffs[j]
		}
		coeffs[i] = sum / ata[i][i]
	}

	return coeffs, nil
}
