// Package ffmpeg implements the Encoder port by invoking the external
// ffmpeg binary. This is the single point where the pipeline depends on
// an executable being present on the host.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pic-tools/picmovie/internal/domain"
	"github.com/pic-tools/picmovie/internal/ports"
	"github.com/pic-tools/picmovie/pkg/log"
)

// Options configures the encoder invocation.
type Options struct {
	// Binary is the encoder executable, resolved via PATH lookup unless
	// it contains a path separator. Defaults to "ffmpeg".
	Binary string

	// Codec is the video codec. Defaults to "libx264".
	Codec string

	// PixelFormat is the output pixel format. Defaults to "yuv420p",
	// which players universally accept.
	PixelFormat string
}

// Encoder implements ports.Encoder with a synchronous ffmpeg subprocess.
type Encoder struct {
	opts   Options
	logger log.Logger
}

// New creates an ffmpeg encoder.
func New(opts Options, logger log.Logger) *Encoder {
	if opts.Binary == "" {
		opts.Binary = "ffmpeg"
	}
	if opts.Codec == "" {
		opts.Codec = "libx264"
	}
	if opts.PixelFormat == "" {
		opts.PixelFormat = "yuv420p"
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Encoder{opts: opts, logger: logger}
}

// Check verifies the encoder binary is available before any rendering
// work is spent.
func (e *Encoder) Check() error {
	if _, err := exec.LookPath(e.opts.Binary); err != nil {
		return &domain.EncodingError{Err: fmt.Errorf("encoder binary %q not found: %w", e.opts.Binary, err)}
	}
	return nil
}

// Encode runs ffmpeg over the numbered frames. The video is written to a
// temporary sibling of the output path and renamed only on success, so a
// failed run never leaves a partial file at the destination.
func (e *Encoder) Encode(ctx context.Context, req ports.EncodeRequest) error {
	bin, err := exec.LookPath(e.opts.Binary)
	if err != nil {
		return &domain.EncodingError{Err: fmt.Errorf("encoder binary %q not found: %w", e.opts.Binary, err)}
	}

	tmp := partialPath(req.OutputPath)
	args := e.buildArgs(req, tmp)

	e.logger.Info("invoking encoder",
		log.String("binary", bin),
		log.String("args", strings.Join(args, " ")),
	)

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(tmp)
		return &domain.EncodingError{Output: stderr.String(), Err: err}
	}

	if err := os.Rename(tmp, req.OutputPath); err != nil {
		os.Remove(tmp)
		return &domain.EncodingError{Err: fmt.Errorf("move encoded video into place: %w", err)}
	}
	return nil
}

// buildArgs constructs the full ffmpeg argument list: numbered-sequence
// input in increasing index order, fixed codec and pixel-format profile,
// temporary output.
func (e *Encoder) buildArgs(req ports.EncodeRequest, output string) []string {
	frameRate := req.FrameRate
	if frameRate <= 0 {
		frameRate = 10
	}

	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-framerate", strconv.Itoa(frameRate),
		"-start_number", "0",
		"-i", filepath.Join(req.FrameDir, req.Pattern),
	}
	if req.FrameCount > 0 {
		args = append(args, "-frames:v", strconv.Itoa(req.FrameCount))
	}
	args = append(args,
		"-c:v", e.opts.Codec,
		"-pix_fmt", e.opts.PixelFormat,
	)
	if ext := strings.ToLower(filepath.Ext(req.OutputPath)); ext == ".mp4" || ext == ".mov" {
		args = append(args, "-movflags", "+faststart")
	}
	return append(args, output)
}

// partialPath returns the temporary encode target next to the final
// output, keeping the extension so the container format is preserved.
func partialPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + ".part" + ext
}
