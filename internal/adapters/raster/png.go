// Package raster implements the Rasterizer port with image/png. Each data
// cell becomes one pixel; the longitudinal axis runs left to right and the
// transverse axis bottom to top. Axis typography is out of scope, so the
// Title annotation of a spec is ignored.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/pic-tools/picmovie/internal/ports"
)

// PNG implements ports.Rasterizer with lossless PNG output.
type PNG struct{}

// NewPNG creates a PNG rasterizer.
func NewPNG() *PNG {
	return &PNG{}
}

// Rasterize writes one PNG at path. The spec's edge arrays must be one
// element longer than the data in each axis; the value range degenerating
// to zero width renders a uniform image instead of failing, so an
// all-zero frame in variable-scale mode stays valid.
func (p *PNG) Rasterize(ctx context.Context, path string, spec ports.RasterSpec) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data := spec.Data
	if len(spec.XEdges) != data.NX+1 {
		return fmt.Errorf("raster: %d x-edges for %d rows", len(spec.XEdges), data.NX)
	}
	if len(spec.ZEdges) != data.NZ+1 {
		return fmt.Errorf("raster: %d z-edges for %d columns", len(spec.ZEdges), data.NZ)
	}

	cmap, ok := Lookup(spec.Colormap)
	if !ok {
		return fmt.Errorf("raster: unknown colormap %q", spec.Colormap)
	}

	normalize, err := normalizer(spec)
	if err != nil {
		return err
	}

	img := image.NewNRGBA(image.Rect(0, 0, data.NZ, data.NX))
	for i := 0; i < data.NX; i++ {
		// Flip vertically so increasing transverse coordinate is up.
		y := data.NX - 1 - i
		for j := 0; j < data.NZ; j++ {
			img.SetNRGBA(j, y, cmap.At(normalize(data.At(i, j))))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("raster: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("raster: close %s: %w", path, err)
	}
	return nil
}

// normalizer builds the value -> [0,1] mapping for the spec.
func normalizer(spec ports.RasterSpec) (func(float64) float64, error) {
	if spec.Log {
		if spec.Floor <= 0 {
			return nil, fmt.Errorf("raster: log floor must be positive, got %v", spec.Floor)
		}
		top := spec.Max
		if top <= spec.Floor {
			top = spec.Floor * 10
		}
		logLo := math.Log10(spec.Floor)
		span := math.Log10(top) - logLo
		return func(v float64) float64 {
			if v < spec.Floor {
				v = spec.Floor
			}
			return (math.Log10(v) - logLo) / span
		}, nil
	}

	span := spec.Max - spec.Min
	if span <= 0 {
		// Degenerate range: uniform frame.
		return func(float64) float64 { return 0 }, nil
	}
	lo := spec.Min
	return func(v float64) float64 {
		return (v - lo) / span
	}, nil
}
