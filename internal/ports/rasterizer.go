package ports

import (
	"context"

	"github.com/pic-tools/picmovie/internal/domain"
)

// RasterSpec describes one pseudocolor image. XEdges and ZEdges are
// cell-edge coordinate arrays, one element longer than the data in each
// axis, so the rendering exactly covers the data domain.
type RasterSpec struct {
	// Data is the 2-D array to render.
	Data domain.Grid

	// XEdges has Data.NX+1 monotonically increasing transverse edges.
	XEdges []float64

	// ZEdges has Data.NZ+1 monotonically increasing longitudinal edges.
	ZEdges []float64

	// Min and Max bound the linear color scale.
	Min float64
	Max float64

	// Log selects logarithmic color mapping from Floor to Max. Min is
	// ignored when set.
	Log bool

	// Floor is the small positive lower bound of the log scale.
	Floor float64

	// Colormap names the color table to use (e.g. "seismic", "viridis").
	Colormap string

	// Title is a short annotation for the frame (e.g. the propagation
	// distance label). Implementations may ignore it.
	Title string
}

// Rasterizer converts a RasterSpec into one raster image file.
type Rasterizer interface {
	// Rasterize writes exactly one image file at path.
	Rasterize(ctx context.Context, path string, spec RasterSpec) error
}
