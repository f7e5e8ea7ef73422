package locate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pic-tools/picmovie/internal/domain"
)

func TestList(t *testing.T) {
	base := t.TempDir()
	writeSeries(t, base, "0000", "Ez_xz_", []int{0, 1, 2})
	writeSeries(t, base, "0000", "Ez_yz_", []int{0, 1})

	beamDir := filepath.Join(base, "beam_driver", "0")
	if err := os.MkdirAll(beamDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, o := range []int{0, 1, 2, 3} {
		path := filepath.Join(beamDir, SnapshotFileName("charge_xz_", o))
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// Noise the lister must skip.
	if err := os.MkdirAll(filepath.Join(base, "restart"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "input.json"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	infos, err := New(base, nil).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("series count = %d, want 3: %+v", len(infos), infos)
	}

	// os.ReadDir sorts entries, so beam_driver precedes field_Ez.
	if infos[0].Quantity.Kind != domain.KindBeam || infos[0].Snapshots != 4 {
		t.Errorf("infos[0] = %+v", infos[0])
	}
	if infos[1].Quantity != fieldEz || infos[1].Slice != domain.SliceXZ || infos[1].Snapshots != 3 {
		t.Errorf("infos[1] = %+v", infos[1])
	}
	if infos[2].Slice != domain.SliceYZ || infos[2].Snapshots != 2 {
		t.Errorf("infos[2] = %+v", infos[2])
	}
}

func TestListEmpty(t *testing.T) {
	infos, err := New(t.TempDir(), nil).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("series count = %d, want 0", len(infos))
	}
}

func TestParseInstanceDir(t *testing.T) {
	tests := []struct {
		name string
		want domain.Quantity
		ok   bool
	}{
		{"field_Ez", domain.Quantity{Kind: domain.KindField, ID: "Ez"}, true},
		{"beam_driver", domain.Quantity{Kind: domain.KindBeam, ID: "driver"}, true},
		{"species_plasma_electrons", domain.Quantity{Kind: domain.KindSpecies, ID: "plasma_electrons"}, true},
		{"restart", domain.Quantity{}, false},
		{"field_", domain.Quantity{}, false},
		{"diag_Ez", domain.Quantity{}, false},
	}
	for _, tt := range tests {
		got, ok := parseInstanceDir(tt.name)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseInstanceDir(%q) = (%+v, %v), want (%+v, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
