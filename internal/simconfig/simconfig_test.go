package simconfig

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pic-tools/picmovie/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
  "plasma_density": 1e18,
  "beam_density_ratio": 0.01
}`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.PlasmaDensity != 1e18 {
		t.Errorf("PlasmaDensity = %v, want 1e18", p.PlasmaDensity)
	}
	if p.BeamDensityRatio != 0.01 {
		t.Errorf("BeamDensityRatio = %v, want 0.01", p.BeamDensityRatio)
	}
}

func TestLoadToleratesDialect(t *testing.T) {
	// Comment lines and trailing commas come straight from the
	// simulator's input deck and must not break decoding.
	path := writeConfig(t, `{
! plasma section
  "plasma_density": 2.5e17,
  ! indented comment
  "beam_density_ratio": 0.5,
}`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.PlasmaDensity != 2.5e17 {
		t.Errorf("PlasmaDensity = %v, want 2.5e17", p.PlasmaDensity)
	}
	if p.BeamDensityRatio != 0.5 {
		t.Errorf("BeamDensityRatio = %v, want 0.5", p.BeamDensityRatio)
	}
}

func TestLoadTrailingCommaInArray(t *testing.T) {
	path := writeConfig(t, `{
  "plasma_density": 1e18,
  "grid": [256, 512,],
}`)

	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, domain.ErrConfigNotFound) {
		t.Fatalf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadRejectsNonPositiveDensity(t *testing.T) {
	path := writeConfig(t, `{"plasma_density": 0}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for zero density")
	}
}

func TestLoadDefaultsBeamRatio(t *testing.T) {
	path := writeConfig(t, `{"plasma_density": 1e18}`)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.BeamDensityRatio != 1 {
		t.Errorf("BeamDensityRatio = %v, want 1", p.BeamDensityRatio)
	}
}

func TestSkinDepth(t *testing.T) {
	// c/omega_p is about 5.32 um at n0 = 1e18 cm^-3.
	p := Params{PlasmaDensity: 1e18}
	got := p.SkinDepthMicrons()
	if math.Abs(got-5.32)/5.32 > 0.01 {
		t.Errorf("SkinDepthMicrons = %v, want ~5.32", got)
	}

	// Skin depth scales as 1/sqrt(n).
	p4 := Params{PlasmaDensity: 4e18}
	if ratio := got / p4.SkinDepthMicrons(); math.Abs(ratio-2) > 1e-9 {
		t.Errorf("scaling ratio = %v, want 2", ratio)
	}
}
