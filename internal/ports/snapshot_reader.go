package ports

import (
	"context"

	"github.com/pic-tools/picmovie/internal/domain"
)

// SnapshotReader decodes simulation snapshot files.
// Implementations read the simulator's binary container format.
type SnapshotReader interface {
	// Read decodes the full snapshot at path: simulation time, axis
	// bounds, and every stored item.
	Read(ctx context.Context, path string) (*domain.Snapshot, error)

	// ReadItem decodes only the named 2-D item, skipping everything else.
	// Used by the scale scan, which needs no metadata. Returns an error
	// if the item is not present in the file.
	ReadItem(ctx context.Context, path, name string) (domain.Grid, error)
}
