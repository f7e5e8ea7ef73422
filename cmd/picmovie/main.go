package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	picmovie "github.com/pic-tools/picmovie"
	"github.com/pic-tools/picmovie/internal/cliconfig"
	"github.com/pic-tools/picmovie/pkg/log"
)

const helpDescription = `
Render a movie from the snapshot output of a particle-in-cell simulation.

Pick exactly one series with --beam, --species or --field, point --sim-dir
at the simulation output directory, and name the video with --output. The
color scale is fixed across frames from a parallel scan of the whole
series unless --variable-scale is set. Frames are rendered into a
temporary directory (or --frame-dir) and assembled with ffmpeg, which
must be on PATH.

Configure via ~/.picmovie/config.toml, PICMOVIE_* environment variables,
or flags; flags win over environment, environment wins over file.
`

var exampleUsage = strings.TrimSpace(`
  picmovie --sim-dir /sims/run42 --field Ez --output Ez.mp4
  picmovie --sim-dir /sims/run42 --beam driver --frames 200 --ignore-last --output driver.mp4
  picmovie list --sim-dir /sims/run42
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	logger := log.NewZerologAdapter()

	root := &cobra.Command{
		Use:     "picmovie",
		Short:   "Render a movie from particle-in-cell simulation snapshots",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.picmovie/config.toml),
			// then environment, then flag overrides via the changed map.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return picmovie.Run(ctx, cfg, picmovie.WithLogger(logger))
		},
	}

	// Flags
	root.PersistentFlags().StringVar(&cfg.SimDir, "sim-dir", cfg.SimDir, "simulation output directory")
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.picmovie/config.toml)")
	root.Flags().StringVar(&cfg.SimConfig, "sim-config", cfg.SimConfig, "simulation parameter file (default: <sim-dir>/input.json)")

	root.Flags().StringVar(&cfg.Beam, "beam", cfg.Beam, "render the charge density of this beam")
	root.Flags().StringVar(&cfg.Species, "species", cfg.Species, "render the charge density of this plasma species")
	root.Flags().StringVar(&cfg.Field, "field", cfg.Field, "render this field component (e.g. Ez, Ex, By)")
	root.Flags().StringVar(&cfg.Slice, "slice", cfg.Slice, "cross-section orientation (xz or yz)")

	root.Flags().StringVar(&cfg.Frames, "frames", cfg.Frames, "number of frames to render, or \"all\"")
	root.Flags().BoolVar(&cfg.IgnoreLast, "ignore-last", cfg.IgnoreLast, "skip the newest snapshot (simulation may still be writing it)")
	root.Flags().IntVar(&cfg.Threads, "threads", cfg.Threads, "worker pool size (default: number of CPUs)")

	root.Flags().StringVar(&cfg.TransverseUnit, "trans-unit", cfg.TransverseUnit, "transverse axis unit (kp, um or mm)")
	root.Flags().StringVar(&cfg.LongitudinalUnit, "long-unit", cfg.LongitudinalUnit, "longitudinal axis unit (kp, um or mm)")
	root.Flags().StringVar(&cfg.XWindow, "x-window", cfg.XWindow, "transverse window as lo:hi in the selected unit")
	root.Flags().StringVar(&cfg.ZWindow, "z-window", cfg.ZWindow, "longitudinal window as lo:hi in the selected unit")

	root.Flags().StringVar(&cfg.Colormap, "cmap", cfg.Colormap, "colormap name (default: seismic for fields, viridis for densities)")
	root.Flags().BoolVar(&cfg.LogScale, "log-scale", cfg.LogScale, "logarithmic color scale (densities only)")
	root.Flags().BoolVar(&cfg.VariableScale, "variable-scale", cfg.VariableScale, "normalize each frame to its own maximum")

	root.Flags().StringVar(&cfg.FrameDir, "frame-dir", cfg.FrameDir, "keep intermediate frames in this directory")
	root.Flags().IntVar(&cfg.FrameRate, "frame-rate", cfg.FrameRate, "output video frame rate")
	root.Flags().StringVar(&cfg.Output, "output", cfg.Output, "output video file (.mp4, .mkv, .mov, .webm, .avi)")
	root.Flags().BoolVar(&cfg.Wait, "wait", cfg.Wait, "wait for the series to appear before rendering")

	root.AddCommand(newListCmd(&cfg.SimDir, logger))

	if err := root.Execute(); err != nil {
		logger.Error("picmovie", log.Err(err))
		os.Exit(1)
	}
}
