package domain

import "sort"

// SeriesSelection is the ordered sequence of snapshots chosen for
// rendering. It is produced once by the locator and consumed read-only by
// the scale estimator and the worker pool.
type SeriesSelection struct {
	// Quantity identifies what the series holds.
	Quantity Quantity

	// Slice is the cross-section orientation of every snapshot.
	Slice Slice

	// Refs is sorted by ascending ordinal. Frame index i renders Refs[i].
	Refs []SnapshotRef
}

// Len returns the number of selected snapshots.
func (s SeriesSelection) Len() int {
	return len(s.Refs)
}

// ItemName returns the dataset item read from each snapshot.
func (s SeriesSelection) ItemName() string {
	return s.Quantity.ItemName(s.Slice)
}

// SelectOptions controls how a raw snapshot list is narrowed down to a
// SeriesSelection.
type SelectOptions struct {
	// IgnoreLast drops the newest snapshot. Set when the producing
	// simulation may still be running and its last file incomplete.
	IgnoreLast bool

	// MaxFrames subsamples the series down to approximately this many
	// snapshots. Zero or negative means all. The stride is computed by
	// integer division and clamped to 1, so the result may exceed
	// MaxFrames; the requested count is a lower-bound approximation.
	MaxFrames int
}

// Select sorts refs by ordinal and applies the selection rules: the first
// snapshot is dropped unconditionally (the simulation writes it as a
// placeholder before the first step completes), the last is dropped when
// IgnoreLast is set, and the remainder is uniformly strided. Subsampling
// never reorders.
func Select(refs []SnapshotRef, opts SelectOptions) []SnapshotRef {
	sorted := make([]SnapshotRef, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ordinal < sorted[j].Ordinal })

	if len(sorted) == 0 {
		return nil
	}
	sorted = sorted[1:]

	if opts.IgnoreLast && len(sorted) > 0 {
		sorted = sorted[:len(sorted)-1]
	}

	if opts.MaxFrames > 0 && len(sorted) > opts.MaxFrames {
		stride := len(sorted) / opts.MaxFrames
		if stride < 1 {
			stride = 1
		}
		strided := make([]SnapshotRef, 0, opts.MaxFrames+1)
		for i := 0; i < len(sorted); i += stride {
			strided = append(strided, sorted[i])
		}
		sorted = strided
	}

	return sorted
}

// ScaleBound is the color-scale bound shared by every frame render.
// When Fixed is false each frame self-normalizes to its own maximum.
// Once computed a fixed bound is immutable and safe to share across
// workers without locking.
type ScaleBound struct {
	Fixed bool
	Value float64
}

// FixedBound returns a fixed bound with the given value.
func FixedBound(v float64) ScaleBound {
	return ScaleBound{Fixed: true, Value: v}
}

// VariableBound returns the per-frame variable-scale bound.
func VariableBound() ScaleBound {
	return ScaleBound{}
}

// FrameTask is one unit of work for the render worker pool: render the
// snapshot at Ref into the frame file numbered Index. Each task is
// produced once per element of the SeriesSelection and consumed exactly
// once.
type FrameTask struct {
	Index int
	Ref   SnapshotRef
	Bound ScaleBound
}
