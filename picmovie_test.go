package picmovie

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pic-tools/picmovie/internal/adapters/snapfile"
	"github.com/pic-tools/picmovie/internal/domain"
	"github.com/pic-tools/picmovie/internal/locate"
	"github.com/pic-tools/picmovie/internal/ports"
)

// buildSimTree writes a minimal but complete simulation output tree: the
// parameter file plus a series of real snapshot files.
func buildSimTree(t *testing.T, ordinals ...int) string {
	t.Helper()
	base := t.TempDir()

	params := `
! simulation input deck
{
  "plasma_density": 1e18,
  "beam_density_ratio": 0.5,
}
`
	if err := os.WriteFile(filepath.Join(base, "input.json"), []byte(params), 0o644); err != nil {
		t.Fatal(err)
	}

	q := domain.Quantity{Kind: domain.KindField, ID: "Ez"}
	dataDir := filepath.Join(base, q.InstanceDir(), "0")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	prefix := q.FilePrefix(domain.SliceXZ)
	for _, n := range ordinals {
		g := domain.NewGrid(4, 6)
		g.Set(0, 0, float64(n))
		g.Set(3, 5, -2)
		snap := &domain.Snapshot{
			Time:  float64(n),
			X:     domain.AxisBounds{Lo: -3, Hi: 3},
			Z:     domain.AxisBounds{Lo: -10, Hi: 0},
			Items: map[string]domain.Grid{"Ez_xz": g},
		}
		path := filepath.Join(dataDir, locate.SnapshotFileName(prefix, n))
		if err := snapfile.Write(path, snap); err != nil {
			t.Fatal(err)
		}
	}
	return base
}

type captureEncoder struct {
	req *ports.EncodeRequest
}

func (c *captureEncoder) Encode(ctx context.Context, req ports.EncodeRequest) error {
	c.req = &req
	// Verify every frame exists while the frame directory is still alive.
	for i := 0; i < req.FrameCount; i++ {
		frame := filepath.Join(req.FrameDir, fmt.Sprintf(req.Pattern, i))
		if _, err := os.Stat(frame); err != nil {
			return fmt.Errorf("missing frame: %w", err)
		}
	}
	return os.WriteFile(req.OutputPath, []byte("video"), 0o644)
}

func TestRunEndToEnd(t *testing.T) {
	base := buildSimTree(t, 1, 2, 3, 4)

	cfg := DefaultConfig()
	cfg.SimDir = base
	cfg.Field = "Ez"
	cfg.Output = filepath.Join(t.TempDir(), "Ez.mp4")
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	enc := &captureEncoder{}
	if err := Run(context.Background(), cfg, WithEncoder(enc)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if enc.req == nil {
		t.Fatal("encoder not invoked")
	}
	// Ordinal 1 is the dropped placeholder: 3 frames remain.
	if enc.req.FrameCount != 3 {
		t.Errorf("frames = %d, want 3", enc.req.FrameCount)
	}
	if enc.req.Pattern != "field_Ez_%d.png" {
		t.Errorf("pattern = %q", enc.req.Pattern)
	}
	if _, err := os.Stat(cfg.Output); err != nil {
		t.Errorf("no output written: %v", err)
	}
	// The ephemeral frame directory is gone after the run.
	if _, err := os.Stat(enc.req.FrameDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("frame dir still present: %v", err)
	}
}

func TestRunMissingParamFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimDir = t.TempDir()
	cfg.Field = "Ez"
	cfg.Output = filepath.Join(t.TempDir(), "Ez.mp4")
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	err := Run(context.Background(), cfg, WithEncoder(&captureEncoder{}))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestRunSeriesNotFound(t *testing.T) {
	base := buildSimTree(t, 1, 2)

	cfg := DefaultConfig()
	cfg.SimDir = base
	cfg.Species = "electrons"
	cfg.Output = filepath.Join(t.TempDir(), "ne.mp4")
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	err := Run(context.Background(), cfg, WithEncoder(&captureEncoder{}))
	if !errors.Is(err, ErrSeriesNotFound) {
		t.Fatalf("err = %v, want ErrSeriesNotFound", err)
	}
}

func TestRunSliceNotFound(t *testing.T) {
	base := buildSimTree(t, 1, 2)

	cfg := DefaultConfig()
	cfg.SimDir = base
	cfg.Field = "Ez"
	cfg.Slice = string(domain.SliceYZ)
	cfg.Output = filepath.Join(t.TempDir(), "Ez.mp4")
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	err := Run(context.Background(), cfg, WithEncoder(&captureEncoder{}))
	if !errors.Is(err, ErrSliceNotFound) {
		t.Fatalf("err = %v, want ErrSliceNotFound", err)
	}
}
