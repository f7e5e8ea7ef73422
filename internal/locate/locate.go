// Package locate discovers the snapshot series belonging to one beam,
// species, or field component inside a simulation output tree.
//
// The expected layout is one instance directory per series under the base
// directory (e.g. "field_Ez/"), containing further subdirectories whose
// snapshot files carry a quantity- and slice-specific name prefix plus an
// 8-digit ordinal, e.g. "Ez_xz_00000042.snap". The first subdirectory
// holding a matching file fixes the data directory for the entire series;
// all snapshots are assumed co-located there.
package locate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pic-tools/picmovie/internal/domain"
	"github.com/pic-tools/picmovie/pkg/log"
)

// ordinalWidth is the fixed width of the numeric suffix in snapshot
// filenames.
const ordinalWidth = 8

// Locator discovers snapshot series under a simulation base directory.
type Locator struct {
	base   string
	logger log.Logger
}

// New creates a Locator rooted at the simulation base directory.
func New(base string, logger log.Logger) *Locator {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Locator{base: base, logger: logger}
}

// Locate finds the data directory for the series and returns the ordered
// selection of snapshots to render. Returns domain.ErrSeriesNotFound when
// the instance directory is missing or no subdirectory contains a
// matching file, and domain.ErrSliceNotFound when snapshots exist for the
// other slice orientation only.
func (l *Locator) Locate(q domain.Quantity, slice domain.Slice, opts domain.SelectOptions) (domain.SeriesSelection, error) {
	dataDir, err := l.dataDir(q, slice)
	if err != nil {
		return domain.SeriesSelection{}, err
	}

	refs, err := scanSnapshots(dataDir, q.FilePrefix(slice))
	if err != nil {
		return domain.SeriesSelection{}, err
	}

	selected := domain.Select(refs, opts)
	if len(selected) == 0 {
		return domain.SeriesSelection{}, fmt.Errorf("%w: %s has no complete snapshots", domain.ErrSeriesNotFound, dataDir)
	}

	l.logger.Info("located series",
		log.String("dir", dataDir),
		log.Int("available", len(refs)),
		log.Int("selected", len(selected)),
	)

	return domain.SeriesSelection{Quantity: q, Slice: slice, Refs: selected}, nil
}

// dataDir scans the instance directory's immediate subdirectories for the
// first one containing a snapshot with the expected prefix.
func (l *Locator) dataDir(q domain.Quantity, slice domain.Slice) (string, error) {
	instDir := filepath.Join(l.base, q.InstanceDir())
	entries, err := os.ReadDir(instDir)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrSeriesNotFound, instDir)
	}

	prefix := q.FilePrefix(slice)
	otherPrefix := q.FilePrefix(otherSlice(slice))
	otherSliceSeen := false

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		sub := filepath.Join(instDir, name)
		files, err := os.ReadDir(sub)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), domain.SnapshotExt) {
				continue
			}
			if strings.HasPrefix(f.Name(), prefix) {
				return sub, nil
			}
			if strings.HasPrefix(f.Name(), otherPrefix) {
				otherSliceSeen = true
			}
		}
	}

	if otherSliceSeen {
		return "", fmt.Errorf("%w: %q under %s", domain.ErrSliceNotFound, slice, instDir)
	}
	return "", fmt.Errorf("%w: no %s%s files under %s", domain.ErrSeriesNotFound, prefix, domain.SnapshotExt, instDir)
}

// scanSnapshots lists every snapshot in dir matching the prefix and parses
// the ordinal embedded in each filename. Files that do not follow the
// naming scheme are ignored.
func scanSnapshots(dir, prefix string) ([]domain.SnapshotRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	refs := make([]domain.SnapshotRef, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ordinal, ok := parseOrdinal(e.Name(), prefix)
		if !ok {
			continue
		}
		refs = append(refs, domain.SnapshotRef{
			Ordinal: ordinal,
			Path:    filepath.Join(dir, e.Name()),
		})
	}
	return refs, nil
}

// parseOrdinal extracts the fixed-width ordinal from a snapshot filename
// of the form <prefix><8 digits><ext>.
func parseOrdinal(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, domain.SnapshotExt) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, prefix), domain.SnapshotExt)
	if len(digits) != ordinalWidth {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// SnapshotFileName returns the canonical snapshot filename for a prefix
// and ordinal, the inverse of parseOrdinal.
func SnapshotFileName(prefix string, ordinal int) string {
	return fmt.Sprintf("%s%0*d%s", prefix, ordinalWidth, ordinal, domain.SnapshotExt)
}

func otherSlice(s domain.Slice) domain.Slice {
	if s == domain.SliceXZ {
		return domain.SliceYZ
	}
	return domain.SliceXZ
}
