package picmovie

import (
	"github.com/pic-tools/picmovie/internal/adapters/ffmpeg"
	"github.com/pic-tools/picmovie/internal/adapters/raster"
	"github.com/pic-tools/picmovie/internal/adapters/snapfile"
	"github.com/pic-tools/picmovie/internal/ports"
	"github.com/pic-tools/picmovie/pkg/log"
)

// Re-export the port types so callers can plug in custom implementations
// without importing internal packages.
type (
	// SnapshotReader decodes snapshot files.
	SnapshotReader = ports.SnapshotReader

	// Rasterizer writes one frame image per raster spec.
	Rasterizer = ports.Rasterizer

	// Encoder assembles rendered frames into a video file.
	Encoder = ports.Encoder

	// Logger is the structured logging interface from pkg/log.
	Logger = log.Logger

	// Field is a structured log field from pkg/log.
	Field = log.Field
)

// Option configures optional behavior of a Run.
type Option func(*options)

// options holds the optional dependencies of a Run.
type options struct {
	logger     log.Logger
	reader     ports.SnapshotReader
	rasterizer ports.Rasterizer
	encoder    ports.Encoder
}

// defaultOptions returns options with the production adapters: the
// snapshot file reader and the PNG rasterizer. The encoder default is
// resolved after all options are applied, so it picks up a custom
// logger; see resolve.
func defaultOptions() options {
	return options{
		logger:     log.NewNoopLogger(),
		reader:     snapfile.NewReader(),
		rasterizer: raster.NewPNG(),
	}
}

// resolve fills in the defaults that depend on other options.
func (o *options) resolve() {
	if o.encoder == nil {
		o.encoder = ffmpeg.New(ffmpeg.Options{}, o.logger)
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithReader sets a custom snapshot reader, e.g. for a different
// container format.
func WithReader(reader SnapshotReader) Option {
	return func(o *options) {
		o.reader = reader
	}
}

// WithRasterizer sets a custom frame rasterizer.
func WithRasterizer(rasterizer Rasterizer) Option {
	return func(o *options) {
		o.rasterizer = rasterizer
	}
}

// WithEncoder sets a custom video encoder. If not provided, ffmpeg from
// PATH is used with the default codec profile.
func WithEncoder(encoder Encoder) Option {
	return func(o *options) {
		o.encoder = encoder
	}
}
