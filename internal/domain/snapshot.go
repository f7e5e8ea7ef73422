package domain

import "fmt"

// SnapshotExt is the file extension of simulation snapshot files.
const SnapshotExt = ".snap"

// Slice identifies the 2-D cross-section orientation extracted from the
// 3-D simulation state.
type Slice string

// Supported slice orientations: the two principal planes through the
// propagation axis.
const (
	SliceXZ Slice = "xz"
	SliceYZ Slice = "yz"
)

// Valid reports whether s is a known slice orientation.
func (s Slice) Valid() bool {
	return s == SliceXZ || s == SliceYZ
}

// Kind classifies a series: a particle beam, a plasma species, or a field
// component.
type Kind string

const (
	KindBeam    Kind = "beam"
	KindSpecies Kind = "species"
	KindField   Kind = "field"
)

// Quantity identifies what is rendered: the charge density of one beam or
// species, or one electromagnetic field component.
type Quantity struct {
	// Kind is the series kind.
	Kind Kind

	// ID is the beam/species identifier (e.g. "driver", "electrons") or
	// the field component name (e.g. "Ez", "Ex", "By").
	ID string
}

// Signed reports whether the quantity takes both signs. Field components
// are signed; charge densities are rendered as magnitudes.
func (q Quantity) Signed() bool {
	return q.Kind == KindField
}

// itemQuantity is the quantity part of the dataset item name. Beams and
// species store their charge density; fields store the component itself.
func (q Quantity) itemQuantity() string {
	if q.Kind == KindField {
		return q.ID
	}
	return "charge"
}

// ItemName returns the dataset item that holds this quantity for the given
// slice, e.g. "Ez_xz" or "charge_yz".
func (q Quantity) ItemName(s Slice) string {
	return q.itemQuantity() + "_" + string(s)
}

// FilePrefix returns the snapshot filename prefix for the given slice,
// e.g. "Ez_xz_". The 8-digit ordinal and extension follow the prefix.
func (q Quantity) FilePrefix(s Slice) string {
	return q.ItemName(s) + "_"
}

// InstanceDir returns the series instance directory name under the
// simulation base directory, e.g. "beam_driver" or "field_Ez".
func (q Quantity) InstanceDir() string {
	return string(q.Kind) + "_" + q.ID
}

// FrameName returns the deterministic frame filename for ordinal index i.
// The embedded index reconstructs encoding order without re-sorting by
// timestamp.
func (q Quantity) FrameName(i int) string {
	return fmt.Sprintf("%s_%s_%d.png", q.Kind, q.ID, i)
}

// FramePattern returns the printf-style pattern matching every frame name
// produced by FrameName, for the encoder's sequence input.
func (q Quantity) FramePattern() string {
	return fmt.Sprintf("%s_%s_%%d.png", q.Kind, q.ID)
}

// SnapshotRef identifies one simulation output file.
type SnapshotRef struct {
	// Ordinal is the index parsed from the fixed-width numeric suffix in
	// the filename. Ordinals are unique within a series and define its
	// total order.
	Ordinal int

	// Path is the absolute path of the snapshot file.
	Path string
}

// AxisBounds is a [lo, hi] extent of one spatial axis in simulation units.
type AxisBounds struct {
	Lo float64
	Hi float64
}

// Width returns hi - lo.
func (b AxisBounds) Width() float64 {
	return b.Hi - b.Lo
}

// Scaled returns the bounds with both ends multiplied by f.
func (b AxisBounds) Scaled(f float64) AxisBounds {
	return AxisBounds{Lo: b.Lo * f, Hi: b.Hi * f}
}

// Snapshot is the decoded contents of one snapshot file: the simulation
// time, the axis extents of the stored slice, and the named 2-D items.
type Snapshot struct {
	// Time is the simulation time in inverse plasma frequencies.
	Time float64

	// X is the transverse axis extent.
	X AxisBounds

	// Z is the longitudinal (co-moving) axis extent.
	Z AxisBounds

	// Items maps dataset item names (e.g. "Ez_xz") to their grids.
	Items map[string]Grid
}

// Item returns the named grid and whether it exists.
func (s *Snapshot) Item(name string) (Grid, bool) {
	g, ok := s.Items[name]
	return g, ok
}
