package main

import (
	"flag"
	"fmt"
	"log"

	"geocoding/pkg/landmask"
	"geocoding/pkg/raster"
)

func main() {
	latPath := flag.String("lat", "", "latitude band file")
	lonPath := flag.String("lon", "", "longitude band file")
	shpPath := flag.String("shp", "", "OSM land-polygon shapefile")
	outPath := flag.String("o", "", "output mask path (ENVI format)")
	tiePoints := flag.Int("tiepoints", 21, "number of tie points per dimension")
	order := flag.Int("order", 3, "polynomial order of the fitted transform")
	overwrite := flag.Bool("overwrite", false, "overwrite existing output file")

	flag.Parse()

	if *latPath == "" || *lonPath == "" {
		log.Fatal(fmt.Errorf("latitude and longitude bands required (-lat, -lon)"))
	}
	if *shpPath == "" {
		log.Fatal(fmt.Errorf("shapefile required (-shp)"))
	}
	if *outPath == "" {
		log.Fatal(fmt.Errorf("output path required (-o)"))
	}

	opts := landmask.DefaultOptions()
	opts.TiePoints = *tiePoints
	opts.Order = *order
	opts.Overwrite = *overwrite

	raster.Init()

	if err := landmask.FromShapefile(*latPath, *lonPath, *shpPath, *outPath, opts); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote landmask %s", *outPath)
}
