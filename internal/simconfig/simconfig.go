// Package simconfig reads the simulation parameter file that accompanies
// a run's output. The file is a JSON dialect produced by the simulator's
// input deck: lines whose first non-blank character is '!' are comments,
// and trailing commas before closing brackets are permitted. Both are
// stripped before standard JSON decoding.
package simconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/pic-tools/picmovie/internal/domain"
)

// Physical constants (SI).
const (
	speedOfLight = 2.99792458e8  // m/s
	elemCharge   = 1.602176634e-19
	electronMass = 9.1093837015e-31
	vacuumEps    = 8.8541878128e-12
)

// Params holds the two scalars the pipeline needs from the simulation
// parameter file.
type Params struct {
	// PlasmaDensity is the background plasma density in cm^-3. Fixes the
	// plasma skin depth used for axis unit conversion.
	PlasmaDensity float64 `json:"plasma_density"`

	// BeamDensityRatio is the beam-to-plasma density normalization used
	// as the value multiplier when a beam charge density is rendered.
	// Defaults to 1 when absent.
	BeamDensityRatio float64 `json:"beam_density_ratio"`
}

var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// Load reads and decodes the parameter file at path. A missing file is
// domain.ErrConfigNotFound: the pipeline refuses to guess unit scales.
func Load(path string) (Params, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Params{}, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return Params{}, fmt.Errorf("read simulation config: %w", err)
	}

	var p Params
	if err := json.Unmarshal(sanitize(raw), &p); err != nil {
		return Params{}, fmt.Errorf("parse simulation config %s: %w", path, err)
	}
	if p.PlasmaDensity <= 0 {
		return Params{}, fmt.Errorf("simulation config %s: plasma_density must be positive", path)
	}
	if p.BeamDensityRatio == 0 {
		p.BeamDensityRatio = 1
	}
	return p, nil
}

// sanitize turns the simulator's JSON dialect into strict JSON: comment
// lines are dropped and trailing commas removed.
func sanitize(raw []byte) []byte {
	lines := strings.Split(string(raw), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "!") {
			continue
		}
		kept = append(kept, line)
	}
	out := strings.Join(kept, "\n")
	out = trailingComma.ReplaceAllString(out, "$1")
	return []byte(out)
}

// SkinDepthMicrons returns the plasma skin depth c/omega_p in micrometers
// for the configured density.
func (p Params) SkinDepthMicrons() float64 {
	nM3 := p.PlasmaDensity * 1e6 // cm^-3 -> m^-3
	omegaP := math.Sqrt(nM3 * elemCharge * elemCharge / (vacuumEps * electronMass))
	return speedOfLight / omegaP * 1e6
}
