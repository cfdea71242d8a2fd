// Package geocode assigns map geometry to satellite image data. Tie-point
// GCPs are extracted from lat/lon bands or from a Sentinel-1 SAFE product,
// embedded into a temporary GeoTIFF next to the output, and the image is
// warped to the target projection with GDAL's warper.
package geocode

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"geocoding/pkg/gcps"
	"geocoding/pkg/raster"
	"geocoding/pkg/sentinel1"
)

// ErrExists is returned when the output file already exists and Overwrite
// was not requested.
var ErrExists = errors.New("output file already exists")

// ErrInvalidOptions is returned when the options fail validation.
var ErrInvalidOptions = errors.New("invalid options")

// Options control the geocoding pipeline. The zero value is not useful,
// start from DefaultOptions.
type Options struct {
	// TiePoints is the number of tie points per dimension extracted from
	// lat/lon bands.
	TiePoints int
	// SrcNodata and DstNodata are the warp nodata values, nil to omit.
	SrcNodata *float64
	DstNodata *float64
	// Order of the polynomial used by the warper.
	Order int
	// Resampling method passed to the warper ("near", "bilinear", ...).
	Resampling string
	// Polarisation selects the SAFE annotation file ("" = first available).
	Polarisation string
	// KeepGCPFile keeps the temporary GeoTIFF with embedded GCPs.
	KeepGCPFile bool
	// Overwrite replaces an existing output file.
	Overwrite bool
}

func DefaultOptions() Options {
	zero := 0.0
	return Options{
		TiePoints:  21,
		SrcNodata:  &zero,
		DstNodata:  &zero,
		Order:      3,
		Resampling: "near",
	}
}

// Result describes a geocoded product.
type Result struct {
	OutputPath   string
	EPSG         int
	PixelSpacing float64
	// Bounds of the output in target projection units (minx, miny, maxx, maxy).
	Bounds [4]float64
}

// FromLatLon geocodes an image using GCPs extracted from lat/lon bands.
func FromLatLon(imgPath, latPath, lonPath, outPath string, targetEPSG int, pixelSpacing float64, opts Options) (*Result, error) {
	log.Printf("Geocoding %s using lat/lon bands", imgPath)

	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	if err := checkInputs(imgPath, latPath, lonPath); err != nil {
		return nil, err
	}
	if err := prepareOutput(outPath, opts.Overwrite); err != nil {
		return nil, err
	}

	lat, err := raster.ReadGrid(latPath)
	if err != nil {
		return nil, err
	}
	lon, err := raster.ReadGrid(lonPath)
	if err != nil {
		return nil, err
	}

	gcpList, err := gcps.TiePointGrid(lat, lon, opts.TiePoints)
	if err != nil {
		return nil, err
	}

	return run(imgPath, outPath, gcpList, targetEPSG, pixelSpacing, opts)
}

// FromSAFE geocodes an image using GCPs from the annotation of a Sentinel-1
// SAFE product.
func FromSAFE(imgPath, safeDir, outPath string, targetEPSG int, pixelSpacing float64, opts Options) (*Result, error) {
	log.Printf("Geocoding %s using GCPs from %s", imgPath, safeDir)

	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	if err := checkInputs(imgPath); err != nil {
		return nil, err
	}
	if info, err := os.Stat(safeDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("cannot find SAFE folder %s", safeDir)
	}
	if err := prepareOutput(outPath, opts.Overwrite); err != nil {
		return nil, err
	}

	gcpList, err := sentinel1.GCPsFromSAFE(safeDir, opts.Polarisation)
	if err != nil {
		return nil, err
	}

	return run(imgPath, outPath, gcpList, targetEPSG, pixelSpacing, opts)
}

// run embeds the GCP list into a temporary GeoTIFF and warps it to the
// target projection.
func run(imgPath, outPath string, gcpList []raster.GCP, targetEPSG int, pixelSpacing float64, opts Options) (*Result, error) {
	bands, err := raster.ReadGrids(imgPath)
	if err != nil {
		return nil, err
	}

	gcpPath := GCPTiffPath(outPath)
	if _, err := os.Stat(gcpPath); err == nil {
		log.Printf("Removing existing %s", gcpPath)
		os.Remove(gcpPath)
	}

	if err := raster.WriteGTiffWithGCPs(gcpPath, bands, gcpList, gcps.WGS84WKT); err != nil {
		return nil, err
	}

	switches := WarpSwitches(targetEPSG, pixelSpacing, opts)
	log.Printf("Warping to epsg:%d with: %s", targetEPSG, strings.Join(switches, " "))

	bounds, err := raster.Warp(gcpPath, outPath, switches)
	if err != nil {
		return nil, err
	}

	if opts.KeepGCPFile {
		log.Printf("Keeping temporary tiff file with embedded GCPs")
	} else {
		os.Remove(gcpPath)
	}

	return &Result{
		OutputPath:   outPath,
		EPSG:         targetEPSG,
		PixelSpacing: pixelSpacing,
		Bounds:       bounds,
	}, nil
}

// WarpSwitches builds the gdalwarp switch list for a target projection,
// pixel spacing and options.
func WarpSwitches(targetEPSG int, pixelSpacing float64, opts Options) []string {
	spacing := strconv.FormatFloat(pixelSpacing, 'g', -1, 64)
	switches := []string{
		"-overwrite",
		"-t_srs", fmt.Sprintf("epsg:%d", targetEPSG),
		"-tr", spacing, spacing,
		"-r", opts.Resampling,
		"-order", strconv.Itoa(opts.Order),
	}
	if opts.SrcNodata != nil {
		switches = append(switches, "-srcnodata", strconv.FormatFloat(*opts.SrcNodata, 'g', -1, 64))
	}
	if opts.DstNodata != nil {
		switches = append(switches, "-dstnodata", strconv.FormatFloat(*opts.DstNodata, 'g', -1, 64))
	}
	return switches
}

// GCPTiffPath returns the path of the temporary GeoTIFF with embedded GCPs
// for a given output path.
func GCPTiffPath(outPath string) string {
	ext := filepath.Ext(outPath)
	stem := strings.TrimSuffix(filepath.Base(outPath), ext)
	return filepath.Join(filepath.Dir(outPath), stem+"_with_gcps.tiff")
}

// checkOptions rejects warp options outside the range gdalwarp accepts.
func checkOptions(opts Options) error {
	if opts.Order < 1 || opts.Order > 3 {
		return fmt.Errorf("%w: polynomial order must be 1, 2 or 3, got %d", ErrInvalidOptions, opts.Order)
	}
	if opts.Resampling == "" {
		return fmt.Errorf("%w: resampling method must be given", ErrInvalidOptions)
	}
	return nil
}

func checkInputs(paths ...string) error {
	for _, p := range paths {
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			return fmt.Errorf("cannot find input file %s", p)
		}
	}
	return nil
}

// prepareOutput enforces the overwrite policy and makes sure the output
// directory exists.
func prepareOutput(outPath string, overwrite bool) error {
	if _, err := os.Stat(outPath); err == nil {
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrExists, outPath)
		}
		log.Printf("Removing existing output file %s", outPath)
		if err := os.Remove(outPath); err != nil {
			return fmt.Errorf("failed to remove existing output: %v", err)
		}
	}
	return os.MkdirAll(filepath.Dir(outPath), 0o755)
}
