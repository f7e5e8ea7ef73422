// Package ports defines the interfaces (ports) that connect the rendering
// pipeline to infrastructure adapters.
//
// Ports are the boundaries between the pipeline core and the outside
// world. They define what the pipeline needs from external collaborators
// without specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [SnapshotReader]: decodes one snapshot file into time, bounds, and grids
//   - [Rasterizer]: turns a grid plus scale limits into one raster image file
//   - [Encoder]: assembles the ordered frame files into a single video
//
// # Usage
//
// The pipeline (internal/pipeline, internal/scale, internal/render)
// depends only on these interfaces. Adapters (internal/adapters)
// implement them against the snapshot container format, image/png, and
// the external ffmpeg binary.
//
// This separation enables:
//   - Testing pipeline logic with fake implementations
//   - Swapping the dataset format or encoder without touching the core
//   - Clear boundaries and dependency direction
package ports
