package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly field tags. Booleans are
// pointers so an absent key is distinguishable from an explicit false.
type FileConfig struct {
	SimDir    string `toml:"sim_dir"`
	SimConfig string `toml:"sim_config"`

	Slice   string `toml:"slice"`
	Frames  string `toml:"frames"`
	Threads int    `toml:"threads"`

	TransverseUnit   string `toml:"transverse_unit"`
	LongitudinalUnit string `toml:"longitudinal_unit"`
	XWindow          string `toml:"x_window"`
	ZWindow          string `toml:"z_window"`

	Colormap      string `toml:"colormap"`
	LogScale      *bool  `toml:"log_scale"`
	VariableScale *bool  `toml:"variable_scale"`
	IgnoreLast    *bool  `toml:"ignore_last"`
	Wait          *bool  `toml:"wait"`

	FrameDir  string `toml:"frame_dir"`
	FrameRate int    `toml:"frame_rate"`
	Output    string `toml:"output"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.picmovie/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".picmovie", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("sim-dir", fc.SimDir, &cfg.SimDir)
	s.setString("sim-config", fc.SimConfig, &cfg.SimConfig)
	s.setString("slice", fc.Slice, &cfg.Slice)
	s.setString("frames", fc.Frames, &cfg.Frames)
	s.setString("trans-unit", fc.TransverseUnit, &cfg.TransverseUnit)
	s.setString("long-unit", fc.LongitudinalUnit, &cfg.LongitudinalUnit)
	s.setString("x-window", fc.XWindow, &cfg.XWindow)
	s.setString("z-window", fc.ZWindow, &cfg.ZWindow)
	s.setString("cmap", fc.Colormap, &cfg.Colormap)
	s.setString("frame-dir", fc.FrameDir, &cfg.FrameDir)
	s.setString("output", fc.Output, &cfg.Output)

	s.setInt("threads", fc.Threads, &cfg.Threads)
	s.setInt("frame-rate", fc.FrameRate, &cfg.FrameRate)

	s.setBool("log-scale", fc.LogScale, &cfg.LogScale)
	s.setBool("variable-scale", fc.VariableScale, &cfg.VariableScale)
	s.setBool("ignore-last", fc.IgnoreLast, &cfg.IgnoreLast)
	s.setBool("wait", fc.Wait, &cfg.Wait)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
