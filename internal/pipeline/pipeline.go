// Package pipeline orchestrates a full movie run: locate the snapshot
// series, estimate the shared color scale, render every frame under a
// bounded worker pool, and hand the frame directory to the encoder.
//
// The pipeline is strictly fail-fast. The first error on any stage
// aborts the run, in-flight frame renders finish, and no partial video
// is left behind. There is no retry logic anywhere.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pic-tools/picmovie/internal/domain"
	"github.com/pic-tools/picmovie/internal/locate"
	"github.com/pic-tools/picmovie/internal/ports"
	"github.com/pic-tools/picmovie/internal/render"
	"github.com/pic-tools/picmovie/internal/scale"
	"github.com/pic-tools/picmovie/pkg/log"
)

// DefaultFrameRate is the output frame rate when the caller does not set
// one.
const DefaultFrameRate = 10

// videoExts are the output container extensions the encoder is known to
// handle. Anything else is rejected before rendering starts.
var videoExts = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".mov":  {},
	".webm": {},
	".avi":  {},
}

// Config fixes one pipeline run. All fields are read-only once the run
// starts.
type Config struct {
	// Render holds the shared per-frame parameters.
	Render render.Params

	// Select narrows the located snapshot list.
	Select domain.SelectOptions

	// Threads bounds the worker pool for both the scale scan and frame
	// rendering. Defaults to the number of CPUs.
	Threads int

	// VariableScale lets each frame normalize to its own maximum instead
	// of the shared series-wide bound.
	VariableScale bool

	// FrameRate is the output video frame rate. Defaults to
	// DefaultFrameRate.
	FrameRate int

	// OutputPath is the final video file. Must carry a known video
	// extension and must not be a directory.
	OutputPath string

	// FrameDir, when non-empty, is a persistent directory for the
	// intermediate frames. Empty selects an ephemeral temporary directory
	// removed on every exit path.
	FrameDir string

	// Wait blocks until the series' instance directory appears before
	// locating, for runs started alongside a still-launching simulation.
	Wait bool
}

// Pipeline runs one movie production end to end.
type Pipeline struct {
	cfg      Config
	locator  *locate.Locator
	reader   ports.SnapshotReader
	renderer *render.Renderer
	encoder  ports.Encoder
	logger   log.Logger
}

// New validates the configuration and assembles a Pipeline. Everything
// that can be rejected without touching the dataset is rejected here:
// the output path, the render parameter preconditions.
func New(cfg Config, locator *locate.Locator, reader ports.SnapshotReader, raster ports.Rasterizer, encoder ports.Encoder, logger log.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if err := checkOutputPath(cfg.OutputPath); err != nil {
		return nil, err
	}
	if cfg.Threads < 1 {
		cfg.Threads = runtime.NumCPU()
	}
	if cfg.FrameRate < 1 {
		cfg.FrameRate = DefaultFrameRate
	}

	renderer, err := render.New(reader, raster, cfg.Render, logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:      cfg,
		locator:  locator,
		reader:   reader,
		renderer: renderer,
		encoder:  encoder,
		logger:   logger,
	}, nil
}

// checkOutputPath rejects outputs the encoder could never produce: a
// path without a known video extension, or one naming an existing
// directory.
func checkOutputPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", domain.ErrOutputPathInvalid)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := videoExts[ext]; !ok {
		return fmt.Errorf("%w: %s has no known video extension", domain.ErrOutputPathInvalid, path)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", domain.ErrOutputPathInvalid, path)
	}
	return nil
}

// Run executes the pipeline: locate, scale, render, encode. Cancelling
// ctx before the encoder is invoked returns domain.ErrCancelled and
// leaves nothing at the output path.
func (p *Pipeline) Run(ctx context.Context) error {
	started := time.Now()
	runID := uuid.NewString()
	p.logger.Info("pipeline start",
		log.String("run", runID),
		log.String("quantity", p.cfg.Render.Quantity.ID),
		log.String("output", p.cfg.OutputPath),
	)

	// Fail before any rendering work if the encoder binary is absent.
	if c, ok := p.encoder.(interface{ Check() error }); ok {
		if err := c.Check(); err != nil {
			return err
		}
	}

	q, slice := p.cfg.Render.Quantity, p.cfg.Render.Slice
	if p.cfg.Wait {
		if err := p.locator.WaitForSeries(ctx, q); err != nil {
			return err
		}
	}

	sel, err := p.locator.Locate(q, slice, p.cfg.Select)
	if err != nil {
		return err
	}

	bound := domain.VariableBound()
	if !p.cfg.VariableScale {
		max, err := scale.MaxAbs(ctx, p.reader, sel, p.cfg.Threads, p.logger)
		if err != nil {
			return cancelled(ctx, err)
		}
		bound = domain.FixedBound(max)
	}

	dir, err := acquireFrameDir(p.cfg.FrameDir)
	if err != nil {
		return err
	}
	defer dir.release(p.logger)

	if err := p.renderAll(ctx, dir.path, sel, bound); err != nil {
		return err
	}

	// A stale file at the destination is replaced, never appended to.
	if err := os.Remove(p.cfg.OutputPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", domain.ErrOutputPathInvalid, p.cfg.OutputPath, err)
	}

	req := ports.EncodeRequest{
		FrameDir:   dir.path,
		Pattern:    q.FramePattern(),
		FrameCount: sel.Len(),
		FrameRate:  p.cfg.FrameRate,
		OutputPath: p.cfg.OutputPath,
	}
	if err := p.encoder.Encode(ctx, req); err != nil {
		return err
	}

	p.logger.Info("movie written",
		log.String("run", runID),
		log.String("output", p.cfg.OutputPath),
		log.Int("frames", sel.Len()),
		log.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// renderAll renders every selected snapshot under a bounded worker pool.
// The first failing frame cancels the pool; workers already rendering
// finish their frame before exiting.
func (p *Pipeline) renderAll(parent context.Context, dir string, sel domain.SeriesSelection, bound domain.ScaleBound) error {
	workers := p.cfg.Threads
	if workers > sel.Len() {
		workers = sel.Len()
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	tasks := make(chan domain.FrameTask)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for task := range tasks {
				if err := p.renderer.RenderFrame(ctx, dir, task); err != nil {
					fail(&domain.RenderError{Index: task.Index, Path: task.Ref.Path, Err: err})
					return
				}
			}
		}()
	}

feed:
	for i, ref := range sel.Refs {
		task := domain.FrameTask{Index: i, Ref: ref, Bound: bound}
		select {
		case tasks <- task:
		case <-ctx.Done():
			break feed
		}
	}
	close(tasks)
	wg.Wait()

	if parent.Err() != nil {
		return domain.ErrCancelled
	}
	if firstErr != nil {
		return firstErr
	}

	p.logger.Info("frames rendered",
		log.Int("frames", sel.Len()),
		log.Int("workers", workers),
		log.String("dir", dir),
	)
	return nil
}

// cancelled maps an error caused by the run context being cancelled to
// the domain sentinel; other errors pass through.
func cancelled(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return domain.ErrCancelled
	}
	return err
}
