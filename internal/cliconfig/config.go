// Package cliconfig holds the CLI configuration for picmovie and the
// machinery merging its three sources. Precedence, lowest to highest:
// built-in defaults, the TOML config file, PICMOVIE_* environment
// variables, command-line flags.
package cliconfig

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pic-tools/picmovie/internal/adapters/raster"
	"github.com/pic-tools/picmovie/internal/domain"
	"github.com/pic-tools/picmovie/internal/units"
)

// FramesAll selects every available snapshot.
const FramesAll = "all"

// DefaultParamFile is the simulation parameter filename looked up under
// the simulation directory when --sim-config is not given.
const DefaultParamFile = "input.json"

// Config holds CLI configuration for picmovie.
type Config struct {
	SimDir    string
	SimConfig string

	Beam    string
	Species string
	Field   string
	Slice   string

	Frames     string
	IgnoreLast bool
	Threads    int

	TransverseUnit   string
	LongitudinalUnit string
	XWindow          string
	ZWindow          string

	Colormap      string
	LogScale      bool
	VariableScale bool

	FrameDir  string
	FrameRate int
	Output    string
	Wait      bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		SimDir:           ".",
		Slice:            string(domain.SliceXZ),
		Frames:           FramesAll,
		TransverseUnit:   string(units.Plasma),
		LongitudinalUnit: string(units.Plasma),
		FrameRate:        10,
	}
}

// Validate checks the configuration for errors and sets derived
// defaults. Everything rejected here never reaches the pipeline.
func (c *Config) Validate() error {
	if _, err := c.Quantity(); err != nil {
		return err
	}
	if !domain.Slice(c.Slice).Valid() {
		return fmt.Errorf("unknown slice %q (want %s or %s)", c.Slice, domain.SliceXZ, domain.SliceYZ)
	}
	if _, err := c.MaxFrames(); err != nil {
		return err
	}
	if _, err := units.Parse(c.TransverseUnit); err != nil {
		return err
	}
	if _, err := units.Parse(c.LongitudinalUnit); err != nil {
		return err
	}
	if _, err := ParseWindow(c.XWindow); err != nil {
		return fmt.Errorf("x-window: %w", err)
	}
	if _, err := ParseWindow(c.ZWindow); err != nil {
		return fmt.Errorf("z-window: %w", err)
	}
	if c.Colormap != "" && !raster.Exists(c.Colormap) {
		return fmt.Errorf("unknown colormap %q (want one of %s)", c.Colormap, strings.Join(raster.Names(), ", "))
	}
	if c.Output == "" {
		return fmt.Errorf("output is required")
	}
	if c.FrameRate < 1 {
		return fmt.Errorf("frame rate must be positive")
	}

	if c.SimDir == "" {
		c.SimDir = "."
	}
	if c.SimConfig == "" {
		c.SimConfig = filepath.Join(c.SimDir, DefaultParamFile)
	}
	return nil
}

// Quantity resolves the mutually exclusive beam/species/field selection.
func (c *Config) Quantity() (domain.Quantity, error) {
	set := 0
	var q domain.Quantity
	if c.Beam != "" {
		set++
		q = domain.Quantity{Kind: domain.KindBeam, ID: c.Beam}
	}
	if c.Species != "" {
		set++
		q = domain.Quantity{Kind: domain.KindSpecies, ID: c.Species}
	}
	if c.Field != "" {
		set++
		q = domain.Quantity{Kind: domain.KindField, ID: c.Field}
	}
	if set == 0 {
		return domain.Quantity{}, fmt.Errorf("one of --beam, --species or --field is required")
	}
	if set > 1 {
		return domain.Quantity{}, fmt.Errorf("--beam, --species and --field are mutually exclusive")
	}
	return q, nil
}

// MaxFrames resolves the --frames value: "all" (or empty) means no
// subsampling, anything else must be a positive count.
func (c *Config) MaxFrames() (int, error) {
	if c.Frames == "" || c.Frames == FramesAll {
		return 0, nil
	}
	n, err := strconv.Atoi(c.Frames)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("frames must be %q or a positive count, got %q", FramesAll, c.Frames)
	}
	return n, nil
}

// ParseWindow parses an axis window given as "lo:hi" in the selected
// axis unit. An empty string means the full extent.
func ParseWindow(s string) (*domain.AxisBounds, error) {
	if s == "" {
		return nil, nil
	}
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("window %q is not of the form lo:hi", s)
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return nil, fmt.Errorf("window %q: %w", s, err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return nil, fmt.Errorf("window %q: %w", s, err)
	}
	if h <= l {
		return nil, fmt.Errorf("window %q is empty", s)
	}
	return &domain.AxisBounds{Lo: l, Hi: h}, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
