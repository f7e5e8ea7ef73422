package pipeline

import (
	"fmt"
	"os"

	"github.com/pic-tools/picmovie/pkg/log"
)

// frameDir is the scoped directory holding the numbered frame files. The
// orchestrator exclusively owns its lifecycle: an ephemeral directory is
// created before the pool starts and deleted on every exit path; a
// caller-specified directory is created if absent and left intact.
type frameDir struct {
	path      string
	ephemeral bool
}

// acquireFrameDir creates the frame directory. An empty override selects
// an ephemeral temporary directory.
func acquireFrameDir(override string) (*frameDir, error) {
	if override != "" {
		if err := os.MkdirAll(override, 0o755); err != nil {
			return nil, fmt.Errorf("create frame directory: %w", err)
		}
		return &frameDir{path: override}, nil
	}

	path, err := os.MkdirTemp("", "picmovie-frames-")
	if err != nil {
		return nil, fmt.Errorf("create frame directory: %w", err)
	}
	return &frameDir{path: path, ephemeral: true}, nil
}

// release deletes an ephemeral directory. Safe to call on every exit
// path; a persistent directory is left for the caller.
func (d *frameDir) release(logger log.Logger) {
	if !d.ephemeral {
		return
	}
	if err := os.RemoveAll(d.path); err != nil {
		logger.Warn("failed to remove frame directory",
			log.String("dir", d.path),
			log.Err(err),
		)
	}
}
