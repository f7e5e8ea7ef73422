package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/pic-tools/picmovie/internal/domain"
	"github.com/pic-tools/picmovie/internal/locate"
	"github.com/pic-tools/picmovie/internal/ports"
	"github.com/pic-tools/picmovie/internal/render"
	"github.com/pic-tools/picmovie/internal/units"
	"github.com/pic-tools/picmovie/pkg/log"
)

var testQuantity = domain.Quantity{Kind: domain.KindField, ID: "Ez"}

// writeSeries creates the on-disk directory layout the locator scans:
// empty placeholder files with valid names. Snapshot contents come from
// the fake reader, keyed by path.
func writeSeries(t *testing.T, base string, ordinals ...int) map[int]string {
	t.Helper()
	dataDir := filepath.Join(base, testQuantity.InstanceDir(), "0")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	prefix := testQuantity.FilePrefix(domain.SliceXZ)
	paths := make(map[int]string, len(ordinals))
	for _, n := range ordinals {
		p := filepath.Join(dataDir, locate.SnapshotFileName(prefix, n))
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		paths[n] = p
	}
	return paths
}

type fakeReader struct {
	mu        sync.Mutex
	itemReads int
}

func (f *fakeReader) Read(ctx context.Context, path string) (*domain.Snapshot, error) {
	g := domain.NewGrid(2, 2)
	g.Set(0, 0, 3)
	g.Set(1, 1, -1)
	return &domain.Snapshot{
		Time:  1,
		X:     domain.AxisBounds{Lo: -1, Hi: 1},
		Z:     domain.AxisBounds{Lo: -1, Hi: 1},
		Items: map[string]domain.Grid{"Ez_xz": g},
	}, nil
}

func (f *fakeReader) ReadItem(ctx context.Context, path, name string) (domain.Grid, error) {
	f.mu.Lock()
	f.itemReads++
	f.mu.Unlock()
	g := domain.NewGrid(2, 2)
	g.Set(0, 0, 3)
	return g, nil
}

type fakeRaster struct {
	mu        sync.Mutex
	paths     []string
	failIndex int // frame index whose file fails to rasterize; -1 for none
}

func (f *fakeRaster) Rasterize(ctx context.Context, path string, spec ports.RasterSpec) error {
	if f.failIndex >= 0 && filepath.Base(path) == testQuantity.FrameName(f.failIndex) {
		return errors.New("disk full")
	}
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	return nil
}

type fakeEncoder struct {
	req    *ports.EncodeRequest
	err    error
	called bool
}

func (f *fakeEncoder) Encode(ctx context.Context, req ports.EncodeRequest) error {
	f.called = true
	f.req = &req
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(req.OutputPath, []byte("video"), 0o644)
}

func testConfig(t *testing.T) Config {
	return Config{
		Render: render.Params{
			Quantity:         testQuantity,
			Slice:            domain.SliceXZ,
			TransverseUnit:   units.Plasma,
			LongitudinalUnit: units.Plasma,
			SkinDepthMicrons: 5.32,
		},
		Threads:    2,
		OutputPath: filepath.Join(t.TempDir(), "out.mp4"),
	}
}

func newPipeline(t *testing.T, cfg Config, base string, raster *fakeRaster, enc *fakeEncoder) (*Pipeline, *fakeReader) {
	t.Helper()
	reader := &fakeReader{}
	p, err := New(cfg, locate.New(base, nil), reader, raster, enc, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, reader
}

func TestRunProducesMovie(t *testing.T) {
	base := t.TempDir()
	// Ordinal 1 is the placeholder dropped by selection; 2..5 render as
	// frames 0..3.
	writeSeries(t, base, 1, 2, 3, 4, 5)

	cfg := testConfig(t)
	cfg.FrameDir = filepath.Join(t.TempDir(), "frames")
	raster := &fakeRaster{failIndex: -1}
	enc := &fakeEncoder{}
	p, _ := newPipeline(t, cfg, base, raster, enc)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var got []string
	for _, p := range raster.paths {
		got = append(got, filepath.Base(p))
	}
	sort.Strings(got)
	want := []string{"field_Ez_0.png", "field_Ez_1.png", "field_Ez_2.png", "field_Ez_3.png"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("frames = %v, want %v", got, want)
	}

	if enc.req == nil {
		t.Fatal("encoder not invoked")
	}
	if enc.req.FrameDir != cfg.FrameDir {
		t.Errorf("encode dir = %q, want %q", enc.req.FrameDir, cfg.FrameDir)
	}
	if enc.req.Pattern != "field_Ez_%d.png" || enc.req.FrameCount != 4 {
		t.Errorf("encode req = %+v", enc.req)
	}
	if enc.req.FrameRate != DefaultFrameRate {
		t.Errorf("frame rate = %d, want default %d", enc.req.FrameRate, DefaultFrameRate)
	}

	// A caller-specified frame directory survives the run.
	if _, err := os.Stat(cfg.FrameDir); err != nil {
		t.Errorf("persistent frame dir removed: %v", err)
	}
	if _, err := os.Stat(cfg.OutputPath); err != nil {
		t.Errorf("no output written: %v", err)
	}
}

func TestRunEphemeralFrameDirRemoved(t *testing.T) {
	base := t.TempDir()
	writeSeries(t, base, 1, 2, 3)

	cfg := testConfig(t)
	raster := &fakeRaster{failIndex: -1}
	enc := &fakeEncoder{}
	p, _ := newPipeline(t, cfg, base, raster, enc)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if enc.req == nil {
		t.Fatal("encoder not invoked")
	}
	if _, err := os.Stat(enc.req.FrameDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ephemeral frame dir still present: %v", err)
	}
}

func TestRunRenderFailureAbortsBeforeEncode(t *testing.T) {
	base := t.TempDir()
	writeSeries(t, base, 1, 2, 3, 4, 5)

	cfg := testConfig(t)
	raster := &fakeRaster{failIndex: 2}
	enc := &fakeEncoder{}
	p, _ := newPipeline(t, cfg, base, raster, enc)

	err := p.Run(context.Background())
	var rerr *domain.RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want *domain.RenderError", err)
	}
	if rerr.Index != 2 {
		t.Errorf("failed index = %d, want 2", rerr.Index)
	}
	if enc.called {
		t.Error("encoder invoked after a failed frame")
	}
	if _, err := os.Stat(cfg.OutputPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output present after failed run: %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	base := t.TempDir()
	writeSeries(t, base, 1, 2, 3)

	cfg := testConfig(t)
	enc := &fakeEncoder{}
	p, _ := newPipeline(t, cfg, base, &fakeRaster{failIndex: -1}, enc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Run(ctx); !errors.Is(err, domain.ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	if enc.called {
		t.Error("encoder invoked after cancellation")
	}
}

func TestRunReplacesExistingOutput(t *testing.T) {
	base := t.TempDir()
	writeSeries(t, base, 1, 2)

	cfg := testConfig(t)
	if err := os.WriteFile(cfg.OutputPath, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	enc := &fakeEncoder{}
	p, _ := newPipeline(t, cfg, base, &fakeRaster{failIndex: -1}, enc)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "video" {
		t.Errorf("output = %q, want freshly encoded content", got)
	}
}

func TestRunEncoderFailureLeavesNoOutput(t *testing.T) {
	base := t.TempDir()
	writeSeries(t, base, 1, 2, 3)

	cfg := testConfig(t)
	boom := &domain.EncodingError{Output: "codec missing", Err: errors.New("exit status 1")}
	enc := &fakeEncoder{err: boom}
	p, _ := newPipeline(t, cfg, base, &fakeRaster{failIndex: -1}, enc)

	err := p.Run(context.Background())
	var eerr *domain.EncodingError
	if !errors.As(err, &eerr) {
		t.Fatalf("err = %v, want *domain.EncodingError", err)
	}
	if _, err := os.Stat(cfg.OutputPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output present after failed encode: %v", err)
	}
}

func TestRunVariableScaleSkipsScan(t *testing.T) {
	base := t.TempDir()
	writeSeries(t, base, 1, 2, 3)

	cfg := testConfig(t)
	cfg.VariableScale = true
	p, reader := newPipeline(t, cfg, base, &fakeRaster{failIndex: -1}, &fakeEncoder{})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if reader.itemReads != 0 {
		t.Errorf("scale scan performed %d item reads with variable scale", reader.itemReads)
	}
}

func TestNewRejectsBadOutput(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"no extension", "/tmp/movie"},
		{"unknown extension", "/tmp/movie.txt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.OutputPath = tc.path
			_, err := New(cfg, locate.New(t.TempDir(), nil), &fakeReader{}, &fakeRaster{failIndex: -1}, &fakeEncoder{}, nil)
			if !errors.Is(err, domain.ErrOutputPathInvalid) {
				t.Fatalf("err = %v, want ErrOutputPathInvalid", err)
			}
		})
	}
}

func TestNewRejectsDirectoryOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "movie.mp4")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t)
	cfg.OutputPath = dir
	_, err := New(cfg, locate.New(t.TempDir(), nil), &fakeReader{}, &fakeRaster{failIndex: -1}, &fakeEncoder{}, nil)
	if !errors.Is(err, domain.ErrOutputPathInvalid) {
		t.Fatalf("err = %v, want ErrOutputPathInvalid", err)
	}
}

func TestAcquireFrameDir(t *testing.T) {
	d, err := acquireFrameDir("")
	if err != nil {
		t.Fatal(err)
	}
	if !d.ephemeral {
		t.Error("temp dir not marked ephemeral")
	}
	d.release(log.NewNoopLogger())
	if _, err := os.Stat(d.path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("released dir still present: %v", err)
	}

	persistent := filepath.Join(t.TempDir(), "frames")
	d, err = acquireFrameDir(persistent)
	if err != nil {
		t.Fatal(err)
	}
	if d.ephemeral {
		t.Error("override marked ephemeral")
	}
	d.release(log.NewNoopLogger())
	if _, err := os.Stat(persistent); err != nil {
		t.Errorf("persistent dir removed on release: %v", err)
	}
}
