// Package scale computes the fixed color-scale bound shared by every
// frame: the maximum absolute magnitude of the rendered quantity over the
// whole series.
//
// The reduction is associative and commutative, so the scan is spread
// over a bounded worker pool; visitation order does not affect the
// result.
package scale

import (
	"context"
	"sync"

	"github.com/pic-tools/picmovie/internal/domain"
	"github.com/pic-tools/picmovie/internal/ports"
	"github.com/pic-tools/picmovie/pkg/log"
)

// MaxAbs reduces max(|v|) over the selection's item in every snapshot,
// initialized to 0.0. A single read failure aborts the scan; in-flight
// reads finish before the error is returned.
func MaxAbs(ctx context.Context, reader ports.SnapshotReader, sel domain.SeriesSelection, workers int, logger log.Logger) (float64, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if sel.Len() == 0 {
		return 0, nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > sel.Len() {
		workers = sel.Len()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	refs := make(chan domain.SnapshotRef)
	item := sel.ItemName()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		bound    float64
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
			local := 0.0
			for ref := range refs {
				grid, err := reader.ReadItem(ctx, ref.Path, item)
				if err != nil {
					fail(err)
					return
				}
				if m := grid.AbsMax(); m > local {
					local = m
				}
			}
			mu.Lock()
			if local > bound {
				bound = local
			}
			mu.Unlock()
		}()
	}

feed:
	for _, ref := range sel.Refs {
		select {
		case refs <- ref:
		case <-ctx.Done():
			break feed
		}
	}
	close(refs)
	wg.Wait()

	if firstErr != nil {
		return 0, firstErr
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	logger.Info("scale scan complete",
		log.String("item", item),
		log.Int("snapshots", sel.Len()),
		log.Float64("bound", bound),
	)
	return bound, nil
}
