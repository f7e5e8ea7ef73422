package locate

import (
	"fmt"
	"os"
	"strings"

	"github.com/pic-tools/picmovie/internal/domain"
)

// SeriesInfo summarizes one discovered snapshot series.
type SeriesInfo struct {
	// Quantity identifies the series.
	Quantity domain.Quantity

	// Slice is the stored cross-section orientation.
	Slice domain.Slice

	// Snapshots is the number of snapshot files found.
	Snapshots int

	// Dir is the data directory holding the files.
	Dir string
}

// List discovers every snapshot series under the base directory, one
// entry per quantity and slice orientation. Directories that do not
// follow the instance naming scheme are skipped.
func (l *Locator) List() ([]SeriesInfo, error) {
	entries, err := os.ReadDir(l.base)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", l.base, err)
	}

	var infos []SeriesInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		q, ok := parseInstanceDir(e.Name())
		if !ok {
			continue
		}
		for _, slice := range []domain.Slice{domain.SliceXZ, domain.SliceYZ} {
			dataDir, err := l.dataDir(q, slice)
			if err != nil {
				continue
			}
			refs, err := scanSnapshots(dataDir, q.FilePrefix(slice))
			if err != nil || len(refs) == 0 {
				continue
			}
			infos = append(infos, SeriesInfo{
				Quantity:  q,
				Slice:     slice,
				Snapshots: len(refs),
				Dir:       dataDir,
			})
		}
	}
	return infos, nil
}

// parseInstanceDir inverts domain.Quantity.InstanceDir: "field_Ez" is
// the field component Ez, "beam_driver" the beam named driver.
func parseInstanceDir(name string) (domain.Quantity, bool) {
	kind, id, ok := strings.Cut(name, "_")
	if !ok || id == "" {
		return domain.Quantity{}, false
	}
	switch domain.Kind(kind) {
	case domain.KindBeam, domain.KindSpecies, domain.KindField:
		return domain.Quantity{Kind: domain.Kind(kind), ID: id}, true
	}
	return domain.Quantity{}, false
}
