package raster

import (
	"fmt"

	"github.com/airbusgeo/godal"
)

// stackInput captures the georeferencing of one raster to stack.
type stackInput struct {
	path  string
	sizeX int
	sizeY int
	gt    [6]float64
	proj  string
}

func (in stackInput) matches(ref stackInput) error {
	if in.sizeX != ref.sizeX || in.sizeY != ref.sizeY {
		return fmt.Errorf("input %s size %dx%d does not match %s", in.path, in.sizeX, in.sizeY, ref.path)
	}
	if in.gt != ref.gt {
		return fmt.Errorf("input %s geotransform does not match %s", in.path, ref.path)
	}
	if in.proj != ref.proj {
		return fmt.Errorf("input %s projection does not match %s", in.path, ref.path)
	}
	return nil
}

// Stack combines geocoded rasters into a single multi-band GeoTIFF. All
// inputs must share dimensions, projection and geotransform; those of the
// first input are carried over to the output, along with its nodata value.
func Stack(inputs []string, outPath string) error {
	if len(inputs) < 2 {
		return fmt.Errorf("need at least two inputs to stack, got %d", len(inputs))
	}

	datasets := make([]*godal.Dataset, 0, len(inputs))
	defer func() {
		for _, ds := range datasets {
			ds.Close()
		}
	}()

	nBands := 0
	for _, path := range inputs {
		ds, err := godal.Open(path, godal.RasterOnly())
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		datasets = append(datasets, ds)
		nBands += ds.Structure().NBands
	}

	first := datasets[0].Structure()
	firstGt, err := datasets[0].GeoTransform()
	if err != nil {
		return fmt.Errorf("input %s has no geotransform: %w", inputs[0], err)
	}
	ref := stackInput{
		path:  inputs[0],
		sizeX: first.SizeX,
		sizeY: first.SizeY,
		gt:    firstGt,
		proj:  datasets[0].Projection(),
	}
	for i, ds := range datasets[1:] {
		st := ds.Structure()
		gt, err := ds.GeoTransform()
		if err != nil {
			return fmt.Errorf("input %s has no geotransform: %w", inputs[i+1], err)
		}
		in := stackInput{
			path:  inputs[i+1],
			sizeX: st.SizeX,
			sizeY: st.SizeY,
			gt:    gt,
			proj:  ds.Projection(),
		}
		if err := in.matches(ref); err != nil {
			return err
		}
	}

	out, err := godal.Create(godal.GTiff, outPath, nBands, first.DataType, first.SizeX, first.SizeY)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}

	if err := out.SetGeoTransform(firstGt); err != nil {
		out.Close()
		return fmt.Errorf("failed to set geotransform: %w", err)
	}
	if err := out.SetProjection(ref.proj); err != nil {
		out.Close()
		return fmt.Errorf("failed to set projection: %w", err)
	}

	outBands := out.Bands()
	bandIdx := 0
	for i, ds := range datasets {
		st := ds.Structure()
		for _, band := range ds.Bands() {
			buf := make([]float64, st.SizeX*st.SizeY)
			if err := band.Read(0, 0, buf, st.SizeX, st.SizeY); err != nil {
				out.Close()
				return fmt.Errorf("failed to read band from %s: %w", inputs[i], err)
			}
			if err := outBands[bandIdx].Write(0, 0, buf, st.SizeX, st.SizeY); err != nil {
				out.Close()
				return fmt.Errorf("failed to write band %d: %w", bandIdx+1, err)
			}
			if nd, ok := band.NoData(); ok {
				if err := outBands[bandIdx].SetNoData(nd); err != nil {
					out.Close()
					return fmt.Errorf("failed to set nodata on band %d: %w", bandIdx+1, err)
				}
			}
			bandIdx++
		}
	}

	return out.Close()
}
