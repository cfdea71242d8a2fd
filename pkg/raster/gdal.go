package raster

import (
	"os"
	"sync"

	"github.com/airbusgeo/godal"
)

var initOnce sync.Once

// Init registers the GDAL drivers and sets environment defaults. It is safe
// to call more than once.
func Init() {
	initOnce.Do(func() {
		setDefaultEnv("GDAL_PAM_ENABLED", "NO")
		setDefaultEnv("GDAL_DISABLE_READDIR_ON_OPEN", "EMPTY_DIR")
		setDefaultEnv("GDAL_MAX_DATASET_POOL_SIZE", "10")
		godal.RegisterAll()
	})
}

func setDefaultEnv(envVar string, defaultVal string) {
	if _, ok := os.LookupEnv(envVar); !ok {
		os.Setenv(envVar, defaultVal)
	}
}
