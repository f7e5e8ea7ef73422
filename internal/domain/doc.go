// Package domain contains the core domain entities and value objects for
// the picmovie rendering pipeline.
//
// This package represents the innermost layer of the architecture. It has
// no dependencies on infrastructure concerns (file system, subprocesses,
// logging) and contains only pure data and business rules.
//
// # Entities
//
//   - [SnapshotRef]: one simulation output file, identified by ordinal and path
//   - [SeriesSelection]: the ordered, filtered, strided set of snapshots to render
//   - [Snapshot]: the decoded contents of one snapshot file
//   - [Grid]: a 2-D numeric array in row-major order
//   - [FrameTask]: one unit of work for the render worker pool
//   - [ScaleBound]: the shared color-scale bound, fixed or per-frame
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
