package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"geocoding/pkg/geocode"
	"geocoding/pkg/raster"
)

func main() {
	imgPaths := flag.String("img", "", "input image file(s), comma separated")
	latPath := flag.String("lat", "", "latitude band file")
	lonPath := flag.String("lon", "", "longitude band file")
	safeDir := flag.String("safe", "", "Sentinel-1 SAFE folder (instead of lat/lon bands)")
	outPath := flag.String("o", "", "output tiff path (for a single input) or output directory")
	stackPath := flag.String("stack", "", "optional path for a stacked multi-band composite")
	epsg := flag.Int("epsg", 0, "target epsg code")
	spacing := flag.Float64("spacing", 0, "output pixel spacing in target projection units")
	tiePoints := flag.Int("tiepoints", 21, "number of tie points per dimension")
	order := flag.Int("order", 3, "gdalwarp polynomial order")
	resampling := flag.String("r", "near", "gdalwarp resampling method")
	srcNodata := flag.String("srcnodata", "0", "source nodata value, 'none' to omit")
	dstNodata := flag.String("dstnodata", "0", "output nodata value, 'none' to omit")
	polarisation := flag.String("pol", "", "SAFE annotation polarisation (default: first available)")
	keepGCPs := flag.Bool("keep-gcps", false, "keep temporary tiff with embedded GCPs")
	overwrite := flag.Bool("overwrite", false, "overwrite existing output files")

	flag.Parse()

	if *imgPaths == "" {
		log.Fatal(fmt.Errorf("input image required (-img)"))
	}
	if *outPath == "" {
		log.Fatal(fmt.Errorf("output path required (-o)"))
	}
	if *epsg == 0 {
		log.Fatal(fmt.Errorf("target epsg required (-epsg)"))
	}
	if *spacing == 0 {
		log.Fatal(fmt.Errorf("pixel spacing required (-spacing)"))
	}
	if *safeDir == "" && (*latPath == "" || *lonPath == "") {
		log.Fatal(fmt.Errorf("either -safe or both -lat and -lon required"))
	}

	opts := geocode.DefaultOptions()
	opts.TiePoints = *tiePoints
	opts.Order = *order
	opts.Resampling = *resampling
	opts.Polarisation = *polarisation
	opts.KeepGCPFile = *keepGCPs
	opts.Overwrite = *overwrite

	var err error
	if opts.SrcNodata, err = parseNodata(*srcNodata); err != nil {
		log.Fatal(err)
	}
	if opts.DstNodata, err = parseNodata(*dstNodata); err != nil {
		log.Fatal(err)
	}

	raster.Init()

	inputs := strings.Split(*imgPaths, ",")
	var outputs []string
	for _, img := range inputs {
		img = strings.TrimSpace(img)
		out := outputFor(img, *outPath, *epsg, len(inputs) > 1)

		var result *geocode.Result
		if *safeDir != "" {
			result, err = geocode.FromSAFE(img, *safeDir, out, *epsg, *spacing, opts)
		} else {
			result, err = geocode.FromLatLon(img, *latPath, *lonPath, out, *epsg, *spacing, opts)
		}
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Wrote %s", result.OutputPath)
		outputs = append(outputs, result.OutputPath)
	}

	if *stackPath != "" {
		if err := raster.Stack(outputs, *stackPath); err != nil {
			log.Fatal(err)
		}
		log.Printf("Wrote stacked composite %s", *stackPath)
	}
}

// outputFor builds the per-image output path. With several inputs, -o names
// a directory and the output file name is derived from the input.
func outputFor(img, outPath string, epsg int, multi bool) string {
	if !multi {
		return outPath
	}
	ext := filepath.Ext(img)
	stem := strings.TrimSuffix(filepath.Base(img), ext)
	return filepath.Join(outPath, fmt.Sprintf("%s_epsg%d.tiff", stem, epsg))
}

func parseNodata(s string) (*float64, error) {
	if strings.EqualFold(s, "none") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid nodata value %q: %v", s, err)
	}
	return &v, nil
}
