package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (PICMOVIE_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("sim-dir", os.Getenv("PICMOVIE_SIM_DIR"), &cfg.SimDir)
	s.setString("sim-config", os.Getenv("PICMOVIE_SIM_CONFIG"), &cfg.SimConfig)
	s.setString("slice", os.Getenv("PICMOVIE_SLICE"), &cfg.Slice)
	s.setString("frames", os.Getenv("PICMOVIE_FRAMES"), &cfg.Frames)
	s.setString("trans-unit", os.Getenv("PICMOVIE_TRANSVERSE_UNIT"), &cfg.TransverseUnit)
	s.setString("long-unit", os.Getenv("PICMOVIE_LONGITUDINAL_UNIT"), &cfg.LongitudinalUnit)
	s.setString("x-window", os.Getenv("PICMOVIE_X_WINDOW"), &cfg.XWindow)
	s.setString("z-window", os.Getenv("PICMOVIE_Z_WINDOW"), &cfg.ZWindow)
	s.setString("cmap", os.Getenv("PICMOVIE_COLORMAP"), &cfg.Colormap)
	s.setString("frame-dir", os.Getenv("PICMOVIE_FRAME_DIR"), &cfg.FrameDir)
	s.setString("output", os.Getenv("PICMOVIE_OUTPUT"), &cfg.Output)

	if err := s.setIntFromString("threads", os.Getenv("PICMOVIE_THREADS"), &cfg.Threads); err != nil {
		return err
	}
	if err := s.setIntFromString("frame-rate", os.Getenv("PICMOVIE_FRAME_RATE"), &cfg.FrameRate); err != nil {
		return err
	}

	s.setBoolFromString("log-scale", os.Getenv("PICMOVIE_LOG_SCALE"), &cfg.LogScale)
	s.setBoolFromString("variable-scale", os.Getenv("PICMOVIE_VARIABLE_SCALE"), &cfg.VariableScale)
	s.setBoolFromString("ignore-last", os.Getenv("PICMOVIE_IGNORE_LAST"), &cfg.IgnoreLast)
	s.setBoolFromString("wait", os.Getenv("PICMOVIE_WAIT"), &cfg.Wait)

	return nil
}
