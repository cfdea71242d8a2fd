package sentinel1

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const sceneTimeLayout = "20060102T150405"

// SceneID holds the fields encoded in a Sentinel-1 product name such as
// S1A_EW_GRDM_1SDH_20220501T070432_20220501T070537_043014_0522C4_5982.
type SceneID struct {
	Mission     string
	Mode        string
	ProductType string
	Level       string
	StartTime   time.Time
	StopTime    time.Time
	Orbit       int
	DataTakeID  string
	UniqueID    string
}

// ParseSceneID parses a Sentinel-1 product name. A trailing ".SAFE" suffix
// is accepted.
func ParseSceneID(name string) (*SceneID, error) {
	name = strings.TrimSuffix(name, ".SAFE")

	parts := strings.Split(name, "_")
	if len(parts) != 9 {
		return nil, fmt.Errorf("invalid Sentinel-1 product name %q", name)
	}

	if !strings.HasPrefix(parts[0], "S1") {
		return nil, fmt.Errorf("%q is not a Sentinel-1 mission identifier", parts[0])
	}

	start, err := time.Parse(sceneTimeLayout, parts[4])
	if err != nil {
		return nil, fmt.Errorf("invalid start time in %q: %w", name, err)
	}
	stop, err := time.Parse(sceneTimeLayout, parts[5])
	if err != nil {
		return nil, fmt.Errorf("invalid stop time in %q: %w", name, err)
	}
	orbit, err := strconv.Atoi(parts[6])
	if err != nil {
		return nil, fmt.Errorf("invalid orbit number in %q: %w", name, err)
	}

	return &SceneID{
		Mission:     parts[0],
		Mode:        parts[1],
		ProductType: parts[2],
		Level:       parts[3],
		StartTime:   start,
		StopTime:    stop,
		Orbit:       orbit,
		DataTakeID:  parts[7],
		UniqueID:    parts[8],
	}, nil
}
