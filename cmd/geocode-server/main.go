package main

import (
	"log"
	"os"
	"strconv"

	"geocoding/pkg/api"
	"geocoding/pkg/catalog"
	"geocoding/pkg/raster"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	raster.Init()

	// Catalog setup, in-memory when GEOCODING_CATALOG is unset
	catalogPath := os.Getenv("GEOCODING_CATALOG")
	cat, err := catalog.Open(catalogPath)
	if err != nil {
		log.Fatal("Failed to open catalog:", err)
	}
	defer cat.Close()

	restPort := 8080
	if p := os.Getenv("GEOCODING_PORT"); p != "" {
		restPort, err = strconv.Atoi(p)
		if err != nil {
			log.Fatalf("Invalid GEOCODING_PORT %q: %v", p, err)
		}
	}

	apiServer := api.NewAPIServer(cat, restPort)
	if err := apiServer.Start(); err != nil {
		log.Fatal("REST API server failed:", err)
	}
}
