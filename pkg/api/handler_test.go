package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"geocoding/pkg/catalog"
)

func TestGeocodeHandler_InvalidMethod(t *testing.T) {
	handler := NewAPIHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/geocode", nil)
	rr := httptest.NewRecorder()

	handler.GeocodeHandler(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
	}
}

func TestGeocodeHandler_InvalidJSON(t *testing.T) {
	handler := NewAPIHandler(nil)

	body := bytes.NewBufferString(`{not json`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/geocode", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.GeocodeHandler(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestGeocodeHandler_MissingFields(t *testing.T) {
	handler := NewAPIHandler(nil)

	cases := []string{
		`{}`,
		`{"image": "a.img"}`,
		`{"image": "a.img", "output": "out.tiff"}`,
		`{"image": "a.img", "output": "out.tiff", "epsg": 3996}`,
		`{"image": "a.img", "output": "out.tiff", "epsg": 3996, "pixel_spacing": 40}`,
		`{"image": "a.img", "output": "out.tiff", "epsg": 3996, "pixel_spacing": 40, "lat": "lat.img"}`,
	}

	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/geocode", bytes.NewBufferString(c))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handler.GeocodeHandler(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Request %s: expected status %d, got %d", c, http.StatusBadRequest, rr.Code)
		}
	}
}

func TestGeocodeHandler_SafeAndLatLonExclusive(t *testing.T) {
	handler := NewAPIHandler(nil)

	body := bytes.NewBufferString(`{
		"image": "a.img", "output": "out.tiff", "epsg": 3996, "pixel_spacing": 40,
		"lat": "lat.img", "lon": "lon.img", "safe": "scene.SAFE"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/geocode", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.GeocodeHandler(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestGeocodeHandler_InvalidOrder(t *testing.T) {
	handler := NewAPIHandler(nil)

	body := bytes.NewBufferString(`{
		"image": "a.img", "output": "out.tiff", "epsg": 3996, "pixel_spacing": 40,
		"lat": "lat.img", "lon": "lon.img", "order": 7
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/geocode", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.GeocodeHandler(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestGeocodeHandler_MissingInputFiles(t *testing.T) {
	handler := NewAPIHandler(nil)

	body := bytes.NewBufferString(`{
		"image": "/nonexistent/a.img", "output": "/tmp/out.tiff", "epsg": 3996, "pixel_spacing": 40,
		"lat": "/nonexistent/lat.img", "lon": "/nonexistent/lon.img"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/geocode", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.GeocodeHandler(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}

func TestProductsHandler_InvalidMethod(t *testing.T) {
	handler := NewAPIHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
	rr := httptest.NewRecorder()

	handler.ProductsHandler(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
	}
}

func TestProductsHandler_NoCatalog(t *testing.T) {
	handler := NewAPIHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rr := httptest.NewRecorder()

	handler.ProductsHandler(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}

func TestProductsHandler_Empty(t *testing.T) {
	cat, err := catalog.Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	handler := NewAPIHandler(cat)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rr := httptest.NewRecorder()

	handler.ProductsHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var products []catalog.Product
	if err := json.Unmarshal(rr.Body.Bytes(), &products); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("Expected empty product list, got %d entries", len(products))
	}
}
