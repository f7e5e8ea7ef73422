package ports

import "context"

// EncodeRequest describes one encoder invocation.
type EncodeRequest struct {
	// FrameDir holds the numbered frame files.
	FrameDir string

	// Pattern is the printf-style frame filename pattern relative to
	// FrameDir (e.g. "field_Ez_%d.png"). Frames are consumed in
	// increasing index order starting at 0.
	Pattern string

	// FrameCount is the number of frames, indices 0..FrameCount-1.
	FrameCount int

	// FrameRate is the output frame rate in frames per second.
	FrameRate int

	// OutputPath is the final video file. Implementations must never
	// leave a partial file at this path: they write to a temporary
	// sibling and rename only on success.
	OutputPath string
}

// Encoder assembles an ordered sequence of raster images into a single
// video file. This is the one point where the pipeline depends on an
// external executable being present on the host.
type Encoder interface {
	// Encode runs the external encoder synchronously. A non-zero exit
	// yields a *domain.EncodingError carrying the captured diagnostics.
	Encode(ctx context.Context, req EncodeRequest) error
}
