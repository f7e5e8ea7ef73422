// Package render turns one snapshot into one numbered frame image. The
// renderer is a pure function of its task: it reads the snapshot, applies
// unit and quantity scaling, computes cell-edge coordinates, and hands a
// fully resolved raster spec to the Rasterizer port. The only side effect
// is the single frame file; the shared scale bound is read, never written.
package render

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pic-tools/picmovie/internal/domain"
	"github.com/pic-tools/picmovie/internal/ports"
	"github.com/pic-tools/picmovie/internal/units"
	"github.com/pic-tools/picmovie/pkg/log"
)

// DefaultLogFloor is the lower bound of the log color scale when the
// caller does not set one.
const DefaultLogFloor = 1e-6

// ColormapClass labels a colormap as diverging (for signed fields) or
// sequential (for non-negative densities).
type ColormapClass int

const (
	Sequential ColormapClass = iota
	Diverging
)

// Default colormap names per class.
const (
	DefaultDiverging  = "seismic"
	DefaultSequential = "viridis"
)

// DefaultColormapClasses returns the classification table for the
// built-in colormaps. The table is plain data passed into the renderer,
// not package state.
func DefaultColormapClasses() map[string]ColormapClass {
	return map[string]ColormapClass{
		"seismic":  Diverging,
		"coolwarm": Diverging,
		"viridis":  Sequential,
		"inferno":  Sequential,
	}
}

// Params are the shared render parameters, fixed before the worker pool
// starts and read-only afterwards.
type Params struct {
	// Quantity and Slice identify what is rendered.
	Quantity domain.Quantity
	Slice    domain.Slice

	// TransverseUnit and LongitudinalUnit convert axis extents.
	TransverseUnit   units.AxisUnit
	LongitudinalUnit units.AxisUnit

	// SkinDepthMicrons is c/omega_p from the simulation config.
	SkinDepthMicrons float64

	// ValueScale multiplies array values and the scale bound. Carries
	// the per-quantity normalization (e.g. beam density ratio).
	ValueScale float64

	// Colormap overrides the signedness-based default when non-empty.
	Colormap string

	// ColormapClasses classifies colormaps for the aesthetic-mismatch
	// warning. Defaults to DefaultColormapClasses.
	ColormapClasses map[string]ColormapClass

	// LogScale renders a logarithmic color scale. Only valid for
	// non-negative densities.
	LogScale bool

	// LogFloor is the positive lower bound of the log scale.
	LogFloor float64

	// XWindow and ZWindow crop the rendered region, in converted axis
	// units. Nil means the full extent.
	XWindow *domain.AxisBounds
	ZWindow *domain.AxisBounds
}

// Renderer renders frames for one series.
type Renderer struct {
	reader ports.SnapshotReader
	raster ports.Rasterizer
	params Params
	logger log.Logger
}

// New validates the parameters and creates a Renderer. Requesting log
// scale for a signed field is a precondition violation caught here,
// before any rendering begins. A colormap override that fights the
// quantity's signedness only warns: it is an aesthetic default, not a
// correctness requirement.
func New(reader ports.SnapshotReader, raster ports.Rasterizer, params Params, logger log.Logger) (*Renderer, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if params.LogScale && params.Quantity.Signed() {
		return nil, fmt.Errorf("log scale cannot render the signed field %s", params.Quantity.ID)
	}
	if params.ValueScale == 0 {
		params.ValueScale = 1
	}
	if params.LogScale && params.LogFloor <= 0 {
		params.LogFloor = DefaultLogFloor
	}
	if params.ColormapClasses == nil {
		params.ColormapClasses = DefaultColormapClasses()
	}
	if params.Colormap == "" {
		if params.Quantity.Signed() {
			params.Colormap = DefaultDiverging
		} else {
			params.Colormap = DefaultSequential
		}
	} else {
		warnColormapMismatch(params, logger)
	}
	return &Renderer{reader: reader, raster: raster, params: params, logger: logger}, nil
}

func warnColormapMismatch(params Params, logger log.Logger) {
	class, known := params.ColormapClasses[params.Colormap]
	if !known {
		logger.Warn("colormap not in classification table",
			log.String("colormap", params.Colormap),
		)
		return
	}
	wantDiverging := params.Quantity.Signed()
	if (class == Diverging) != wantDiverging {
		logger.Warn("colormap class does not match quantity",
			log.String("colormap", params.Colormap),
			log.Bool("signed", wantDiverging),
		)
	}
}

// RenderFrame renders one task into dir. Exactly one file is written:
// dir/<kind>_<id>_<index>.png.
func (r *Renderer) RenderFrame(ctx context.Context, dir string, task domain.FrameTask) error {
	p := r.params

	snap, err := r.reader.Read(ctx, task.Ref.Path)
	if err != nil {
		return err
	}

	item := p.Quantity.ItemName(p.Slice)
	grid, ok := snap.Item(item)
	if !ok {
		return fmt.Errorf("snapshot %s: no item %q", task.Ref.Path, item)
	}

	if !p.Quantity.Signed() {
		grid = grid.Abs()
	}
	grid = grid.Scaled(p.ValueScale)

	var bound float64
	if task.Bound.Fixed {
		bound = task.Bound.Value * p.ValueScale
	} else {
		bound = grid.AbsMax()
	}

	tm := p.TransverseUnit.Multiplier(p.SkinDepthMicrons)
	lm := p.LongitudinalUnit.Multiplier(p.SkinDepthMicrons)
	xEdges := cellEdges(snap.X.Scaled(tm), grid.NX)
	zEdges := cellEdges(snap.Z.Scaled(lm), grid.NZ)

	grid, xEdges, zEdges, err = crop(grid, xEdges, zEdges, p.XWindow, p.ZWindow)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", task.Ref.Path, err)
	}

	spec := ports.RasterSpec{
		Data:     grid,
		XEdges:   xEdges,
		ZEdges:   zEdges,
		Colormap: p.Colormap,
		Title:    distanceLabel(snap.Time, lm, p.LongitudinalUnit),
	}
	if p.LogScale {
		spec.Log = true
		spec.Floor = p.LogFloor
		spec.Max = bound
	} else if p.Quantity.Signed() {
		spec.Min = -bound
		spec.Max = bound
	} else {
		spec.Max = bound
	}

	path := filepath.Join(dir, p.Quantity.FrameName(task.Index))
	if err := r.raster.Rasterize(ctx, path, spec); err != nil {
		return err
	}

	r.logger.Debug("rendered frame",
		log.Int("index", task.Index),
		log.String("snapshot", filepath.Base(task.Ref.Path)),
		log.Float64("bound", bound),
	)
	return nil
}

// cellEdges converts the cell-center extent of n cells into n+1 edge
// coordinates, offset by half a cell width at each end, so a pseudocolor
// rendering using edges exactly covers the data domain.
func cellEdges(b domain.AxisBounds, n int) []float64 {
	var dx float64
	switch {
	case n > 1:
		dx = b.Width() / float64(n-1)
	case b.Width() > 0:
		dx = b.Width()
	default:
		dx = 1
	}

	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = b.Lo - dx/2 + float64(i)*dx
	}
	return edges
}

// crop restricts the grid and edges to the cells whose extent overlaps
// the requested windows. A window that excludes every cell is an error.
func crop(grid domain.Grid, xEdges, zEdges []float64, xw, zw *domain.AxisBounds) (domain.Grid, []float64, []float64, error) {
	x0, x1, ok := cellRange(xEdges, xw)
	if !ok {
		return domain.Grid{}, nil, nil, fmt.Errorf("transverse window [%v, %v] excludes all cells", xw.Lo, xw.Hi)
	}
	z0, z1, ok := cellRange(zEdges, zw)
	if !ok {
		return domain.Grid{}, nil, nil, fmt.Errorf("longitudinal window [%v, %v] excludes all cells", zw.Lo, zw.Hi)
	}
	if x0 == 0 && x1 == grid.NX && z0 == 0 && z1 == grid.NZ {
		return grid, xEdges, zEdges, nil
	}

	out := domain.NewGrid(x1-x0, z1-z0)
	for i := x0; i < x1; i++ {
		for j := z0; j < z1; j++ {
			out.Set(i-x0, j-z0, grid.At(i, j))
		}
	}
	return out, xEdges[x0 : x1+1], zEdges[z0 : z1+1], nil
}

// cellRange returns the half-open cell index range [i0, i1) whose cells
// overlap the window, or ok=false when empty.
func cellRange(edges []float64, w *domain.AxisBounds) (int, int, bool) {
	n := len(edges) - 1
	if w == nil {
		return 0, n, true
	}
	i0, i1 := n, 0
	for i := 0; i < n; i++ {
		if edges[i+1] > w.Lo && edges[i] < w.Hi {
			if i < i0 {
				i0 = i
			}
			i1 = i + 1
		}
	}
	if i0 >= i1 {
		return 0, 0, false
	}
	return i0, i1, true
}

// distanceLabel formats the propagation distance derived from the
// simulation time (in inverse plasma frequencies, so c*t is the distance
// in plasma units).
func distanceLabel(time, multiplier float64, unit units.AxisUnit) string {
	return fmt.Sprintf("z = %.4g %s", time*multiplier, unit.Label())
}
