// Package picmovie turns the snapshot output of a particle-in-cell
// simulation into a movie: it locates the snapshot series for one beam,
// species or field component, renders every snapshot to a PNG frame
// under a bounded worker pool, and assembles the frames with ffmpeg.
//
// Example usage:
//
//	cfg := picmovie.DefaultConfig()
//	cfg.SimDir = "/sims/run42"
//	cfg.Field = "Ez"
//	cfg.Output = "Ez.mp4"
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := picmovie.Run(context.Background(), cfg); err != nil {
//	    log.Fatal(err)
//	}
package picmovie

import (
	"context"

	"github.com/pic-tools/picmovie/internal/cliconfig"
	"github.com/pic-tools/picmovie/internal/domain"
	"github.com/pic-tools/picmovie/internal/locate"
	"github.com/pic-tools/picmovie/internal/pipeline"
	"github.com/pic-tools/picmovie/internal/render"
	"github.com/pic-tools/picmovie/internal/simconfig"
	"github.com/pic-tools/picmovie/internal/units"
)

// Config holds the configuration for a movie run.
// Use DefaultConfig() to get a Config with sensible defaults and call
// Validate() before Run.
type Config = cliconfig.Config

// Sentinel errors of the pipeline, re-exported for errors.Is checks.
var (
	ErrConfigNotFound    = domain.ErrConfigNotFound
	ErrSeriesNotFound    = domain.ErrSeriesNotFound
	ErrSliceNotFound     = domain.ErrSliceNotFound
	ErrOutputPathInvalid = domain.ErrOutputPathInvalid
	ErrCancelled         = domain.ErrCancelled
)

// RenderError reports the failure of a single frame render.
type RenderError = domain.RenderError

// EncodingError reports a failed external encoder invocation, carrying
// the tool's stderr.
type EncodingError = domain.EncodingError

// DefaultConfig returns a Config with default values. At minimum, set
// one of Beam, Species or Field plus Output before calling Run.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Run produces one movie with the given configuration. It blocks until
// the movie is written, an error occurs, or ctx is cancelled. cfg must
// have passed Validate.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.resolve()

	prm, err := simconfig.Load(cfg.SimConfig)
	if err != nil {
		return err
	}

	pcfg, err := pipelineConfig(cfg, prm)
	if err != nil {
		return err
	}

	locator := locate.New(cfg.SimDir, o.logger)
	p, err := pipeline.New(pcfg, locator, o.reader, o.rasterizer, o.encoder, o.logger)
	if err != nil {
		return err
	}
	return p.Run(ctx)
}

// pipelineConfig translates the validated CLI configuration into the
// pipeline's domain-typed configuration.
func pipelineConfig(cfg Config, prm simconfig.Params) (pipeline.Config, error) {
	q, err := cfg.Quantity()
	if err != nil {
		return pipeline.Config{}, err
	}
	maxFrames, err := cfg.MaxFrames()
	if err != nil {
		return pipeline.Config{}, err
	}
	tu, err := units.Parse(cfg.TransverseUnit)
	if err != nil {
		return pipeline.Config{}, err
	}
	lu, err := units.Parse(cfg.LongitudinalUnit)
	if err != nil {
		return pipeline.Config{}, err
	}
	xw, err := cliconfig.ParseWindow(cfg.XWindow)
	if err != nil {
		return pipeline.Config{}, err
	}
	zw, err := cliconfig.ParseWindow(cfg.ZWindow)
	if err != nil {
		return pipeline.Config{}, err
	}

	valueScale := 1.0
	if q.Kind == domain.KindBeam {
		valueScale = prm.BeamDensityRatio
	}

	return pipeline.Config{
		Render: render.Params{
			Quantity:         q,
			Slice:            domain.Slice(cfg.Slice),
			TransverseUnit:   tu,
			LongitudinalUnit: lu,
			SkinDepthMicrons: prm.SkinDepthMicrons(),
			ValueScale:       valueScale,
			Colormap:         cfg.Colormap,
			LogScale:         cfg.LogScale,
			XWindow:          xw,
			ZWindow:          zw,
		},
		Select: domain.SelectOptions{
			IgnoreLast: cfg.IgnoreLast,
			MaxFrames:  maxFrames,
		},
		Threads:       cfg.Threads,
		VariableScale: cfg.VariableScale,
		FrameRate:     cfg.FrameRate,
		OutputPath:    cfg.Output,
		FrameDir:      cfg.FrameDir,
		Wait:          cfg.Wait,
	}, nil
}
