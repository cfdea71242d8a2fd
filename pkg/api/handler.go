package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"geocoding/pkg/catalog"
	"geocoding/pkg/geocode"
	"geocoding/pkg/sentinel1"
)

// APIHandler handles REST API requests for geocoding
type APIHandler struct {
	cat *catalog.Catalog
}

// NewAPIHandler creates a new APIHandler. The catalog may be nil, in which
// case products are not recorded.
func NewAPIHandler(cat *catalog.Catalog) *APIHandler {
	return &APIHandler{
		cat: cat,
	}
}

// GeocodeRequest represents the request for a geocode run
type GeocodeRequest struct {
	Image        string   `json:"image"`
	Lat          string   `json:"lat"`
	Lon          string   `json:"lon"`
	Safe         string   `json:"safe"`
	Output       string   `json:"output"`
	EPSG         int      `json:"epsg"`
	PixelSpacing float64  `json:"pixel_spacing"`
	TiePoints    int      `json:"tie_points"`
	Order        int      `json:"order"`
	Resampling   string   `json:"resampling"`
	SrcNodata    *float64 `json:"src_nodata"`
	DstNodata    *float64 `json:"dst_nodata"`
	Polarisation string   `json:"polarisation"`
	Overwrite    bool     `json:"overwrite"`
	KeepGCPFile  bool     `json:"keep_gcp_file"`
	Scene        string   `json:"scene"`
	Sensor       string   `json:"sensor"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// GeocodeHandler handles POST requests to geocode an image
func (h *APIHandler) GeocodeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}

	var req GeocodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse request body: %v", err))
		return
	}
	defer r.Body.Close()

	if err := req.validate(); err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := req.options()

	var result *geocode.Result
	var err error
	if req.Safe != "" {
		result, err = geocode.FromSAFE(req.Image, req.Safe, req.Output, req.EPSG, req.PixelSpacing, opts)
	} else {
		result, err = geocode.FromLatLon(req.Image, req.Lat, req.Lon, req.Output, req.EPSG, req.PixelSpacing, opts)
	}
	if err != nil {
		if errors.Is(err, geocode.ErrExists) {
			h.sendError(w, http.StatusConflict, err.Error())
			return
		}
		if errors.Is(err, geocode.ErrInvalidOptions) {
			h.sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("geocoding failed: %v", err))
		return
	}

	product := catalog.Product{
		Scene:        req.scene(),
		Sensor:       req.sensor(),
		Source:       req.Image,
		OutputPath:   result.OutputPath,
		EPSG:         result.EPSG,
		PixelSpacing: result.PixelSpacing,
		Resampling:   opts.Resampling,
		WarpOrder:    opts.Order,
		MinX:         result.Bounds[0],
		MinY:         result.Bounds[1],
		MaxX:         result.Bounds[2],
		MaxY:         result.Bounds[3],
	}

	if h.cat != nil {
		inserted, err := h.cat.Insert(r.Context(), product)
		if err != nil {
			h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to record product: %v", err))
			return
		}
		product = *inserted
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(product)
}

// ProductsHandler handles GET requests for the product catalog
func (h *APIHandler) ProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, http.StatusMethodNotAllowed, "only GET method is allowed")
		return
	}

	if h.cat == nil {
		h.sendError(w, http.StatusServiceUnavailable, "no catalog configured")
		return
	}

	products, err := h.cat.List(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list products: %v", err))
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(products)
}

func (r *GeocodeRequest) validate() error {
	if r.Image == "" {
		return fmt.Errorf("missing required field: image")
	}
	if r.Output == "" {
		return fmt.Errorf("missing required field: output")
	}
	if r.EPSG <= 0 {
		return fmt.Errorf("missing or invalid field: epsg")
	}
	if r.PixelSpacing <= 0 {
		return fmt.Errorf("missing or invalid field: pixel_spacing")
	}
	if r.Order < 0 || r.Order > 3 {
		return fmt.Errorf("invalid field: order, must be 1, 2 or 3")
	}
	if r.Safe == "" && (r.Lat == "" || r.Lon == "") {
		return fmt.Errorf("either safe or both lat and lon must be given")
	}
	if r.Safe != "" && (r.Lat != "" || r.Lon != "") {
		return fmt.Errorf("safe and lat/lon are mutually exclusive")
	}
	return nil
}

func (r *GeocodeRequest) options() geocode.Options {
	opts := geocode.DefaultOptions()
	if r.TiePoints > 0 {
		opts.TiePoints = r.TiePoints
	}
	if r.Order > 0 {
		opts.Order = r.Order
	}
	if r.Resampling != "" {
		opts.Resampling = r.Resampling
	}
	if r.SrcNodata != nil {
		opts.SrcNodata = r.SrcNodata
	}
	if r.DstNodata != nil {
		opts.DstNodata = r.DstNodata
	}
	opts.Polarisation = r.Polarisation
	opts.Overwrite = r.Overwrite
	opts.KeepGCPFile = r.KeepGCPFile
	return opts
}

func (r *GeocodeRequest) scene() string {
	if r.Scene != "" {
		return r.Scene
	}
	if r.Safe != "" {
		return filepath.Base(r.Safe)
	}
	return ""
}

func (r *GeocodeRequest) sensor() string {
	if r.Sensor != "" {
		return r.Sensor
	}
	if r.Safe != "" {
		if _, err := sentinel1.ParseSceneID(filepath.Base(r.Safe)); err == nil {
			return "S1"
		}
	}
	return ""
}

// sendError sends an error response as JSON
func (h *APIHandler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
