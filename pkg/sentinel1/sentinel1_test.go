package sentinel1

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testAnnotation = `<?xml version="1.0" encoding="UTF-8"?>
<product>
  <adsHeader>
    <missionId>S1A</missionId>
    <productType>GRD</productType>
    <polarisation>HH</polarisation>
    <mode>EW</mode>
  </adsHeader>
  <geolocationGrid>
    <geolocationGridPointList count="4">
      <geolocationGridPoint>
        <azimuthTime>2022-05-01T07:04:32.123456</azimuthTime>
        <line>0</line>
        <pixel>0</pixel>
        <latitude>79.1234</latitude>
        <longitude>18.5678</longitude>
        <height>0.0</height>
      </geolocationGridPoint>
      <geolocationGridPoint>
        <line>0</line>
        <pixel>10293</pixel>
        <latitude>79.5</latitude>
        <longitude>22.1</longitude>
        <height>0.0</height>
      </geolocationGridPoint>
      <geolocationGridPoint>
        <line>8443</line>
        <pixel>0</pixel>
        <latitude>78.2</latitude>
        <longitude>17.9</longitude>
        <height>0.0</height>
      </geolocationGridPoint>
      <geolocationGridPoint>
        <line>8443</line>
        <pixel>10293</pixel>
        <latitude>78.6</latitude>
        <longitude>21.4</longitude>
        <height>12.5</height>
      </geolocationGridPoint>
    </geolocationGridPointList>
  </geolocationGrid>
</product>`

func TestParseAnnotation(t *testing.T) {
	gcps, err := ParseAnnotation(strings.NewReader(testAnnotation))
	assert.NoError(t, err)
	assert.Len(t, gcps, 4)

	assert.Equal(t, 1.0, gcps[0].Pixel)
	assert.Equal(t, 1.0, gcps[0].Line)
	assert.InDelta(t, 18.5678, gcps[0].Lon, 1e-9)
	assert.InDelta(t, 79.1234, gcps[0].Lat, 1e-9)

	last := gcps[3]
	assert.Equal(t, 10294.0, last.Pixel)
	assert.Equal(t, 8444.0, last.Line)
	assert.InDelta(t, 12.5, last.Height, 1e-9)
}

func TestParseAnnotationEmptyGrid(t *testing.T) {
	xml := `<product><geolocationGrid><geolocationGridPointList count="0"></geolocationGridPointList></geolocationGrid></product>`
	_, err := ParseAnnotation(strings.NewReader(xml))
	assert.Error(t, err)
}

func TestFindAnnotation(t *testing.T) {
	safeDir := t.TempDir()
	annotationDir := filepath.Join(safeDir, "annotation")
	assert.NoError(t, os.MkdirAll(filepath.Join(annotationDir, "calibration"), 0o755))

	hhFile := filepath.Join(annotationDir, "s1a-ew-grd-hh-20220501t070432-20220501t070537-043014-0522c4-001.xml")
	hvFile := filepath.Join(annotationDir, "s1a-ew-grd-hv-20220501t070432-20220501t070537-043014-0522c4-002.xml")
	assert.NoError(t, os.WriteFile(hhFile, []byte(testAnnotation), 0o644))
	assert.NoError(t, os.WriteFile(hvFile, []byte(testAnnotation), 0o644))

	found, err := FindAnnotation(safeDir, "hv")
	assert.NoError(t, err)
	assert.Equal(t, hvFile, found)

	found, err = FindAnnotation(safeDir, "")
	assert.NoError(t, err)
	assert.Equal(t, hhFile, found)

	_, err = FindAnnotation(safeDir, "vv")
	assert.Error(t, err)

	_, err = FindAnnotation(filepath.Join(safeDir, "missing"), "hh")
	assert.Error(t, err)
}

func TestGCPsFromSAFE(t *testing.T) {
	safeDir := t.TempDir()
	annotationDir := filepath.Join(safeDir, "annotation")
	assert.NoError(t, os.MkdirAll(annotationDir, 0o755))
	assert.NoError(t, os.WriteFile(
		filepath.Join(annotationDir, "s1a-ew-grd-hh-20220501t070432-20220501t070537-043014-0522c4-001.xml"),
		[]byte(testAnnotation), 0o644))

	gcps, err := GCPsFromSAFE(safeDir, "hh")
	assert.NoError(t, err)
	assert.Len(t, gcps, 4)
}

func TestParseSceneID(t *testing.T) {
	scene, err := ParseSceneID("S1A_EW_GRDM_1SDH_20220501T070432_20220501T070537_043014_0522C4_5982")
	assert.NoError(t, err)

	assert.Equal(t, "S1A", scene.Mission)
	assert.Equal(t, "EW", scene.Mode)
	assert.Equal(t, "GRDM", scene.ProductType)
	assert.Equal(t, "1SDH", scene.Level)
	assert.Equal(t, time.Date(2022, 5, 1, 7, 4, 32, 0, time.UTC), scene.StartTime)
	assert.Equal(t, time.Date(2022, 5, 1, 7, 5, 37, 0, time.UTC), scene.StopTime)
	assert.Equal(t, 43014, scene.Orbit)
	assert.Equal(t, "0522C4", scene.DataTakeID)
	assert.Equal(t, "5982", scene.UniqueID)
}

func TestParseSceneIDSafeSuffix(t *testing.T) {
	scene, err := ParseSceneID("S1B_IW_GRDH_1SDV_20200101T120000_20200101T120030_019001_023F00_ABCD.SAFE")
	assert.NoError(t, err)
	assert.Equal(t, "S1B", scene.Mission)
	assert.Equal(t, "IW", scene.Mode)
}

func TestParseSceneIDInvalid(t *testing.T) {
	_, err := ParseSceneID("not_a_scene")
	assert.Error(t, err)

	_, err = ParseSceneID("S2A_EW_GRDM_1SDH_20220501T070432_20220501T070537_043014_0522C4_5982")
	assert.Error(t, err)

	_, err = ParseSceneID("S1A_EW_GRDM_1SDH_garbage_20220501T070537_043014_0522C4_5982")
	assert.Error(t, err)
}
