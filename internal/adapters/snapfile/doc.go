// Package snapfile implements the SnapshotReader port against the
// simulator's binary snapshot container.
//
// A snapshot file holds, little-endian:
//
//	magic "PICS", format version (uint16)
//	simulation time (float64)
//	transverse axis bounds lo, hi (2 x float64)
//	longitudinal axis bounds lo, hi (2 x float64)
//	item count (uint16), then per item:
//	  name length (uint16), name bytes
//	  nx, nz (2 x uint32)
//	  nx*nz values (float64, row-major)
//
// The package also provides a Writer so tests and tooling can produce
// snapshot files without the simulator.
package snapfile
