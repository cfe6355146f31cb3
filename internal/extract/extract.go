package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/maishathasin/youtube-to-jpg/internal/runner"
)

var (
	// ErrOutputDir indicates the frame output directory could not be created.
	ErrOutputDir = errors.New("output directory unavailable")
	// ErrToolFailed indicates ffmpeg exited non-zero or could not be launched.
	ErrToolFailed = errors.New("ffmpeg failed")
)

// Options controls a single frame-extraction run. Scale, Start and Duration
// pass through to ffmpeg unvalidated; the tool's own rejection is the failure
// signal.
type Options struct {
	OutDir   string
	Pattern  string
	FPS      int
	Scale    string
	Start    string
	Duration string
}

// Extractor writes a numbered frame sequence from a local video file.
type Extractor struct {
	logger zerolog.Logger
	runner runner.Runner
	bin    string
}

// New creates an extractor invoking the ffmpeg binary at bin
func New(logger zerolog.Logger, run runner.Runner, bin string) *Extractor {
	return &Extractor{
		logger: logger.With().Str("component", "extract").Logger(),
		runner: run,
		bin:    bin,
	}
}

// FilterChain builds the -vf argument. Sampling comes first so dropped frames
// are never rescaled.
func FilterChain(fps int, scale string) string {
	parts := []string{fmt.Sprintf("fps=%d", fps)}
	if scale != "" {
		parts = append(parts, "scale="+scale)
	}
	return strings.Join(parts, ",")
}

// Args builds the ffmpeg invocation. The seek option sits before the input so
// ffmpeg applies its fast input-seek semantics; the duration cap sits after it.
func Args(input string, opts Options) []string {
	args := []string{"-hide_banner", "-y"}

	if opts.Start != "" {
		args = append(args, "-ss", opts.Start)
	}

	args = append(args, "-i", input)

	if opts.Duration != "" {
		args = append(args, "-t", opts.Duration)
	}

	args = append(args,
		"-vf", FilterChain(opts.FPS, opts.Scale),
		"-vsync", "vfr",
		"-frame_pts", "1",
		filepath.Join(opts.OutDir, opts.Pattern),
	)
	return args
}

// Extract creates the output directory and runs ffmpeg. The produced frame
// count is not verified; the transcoder's exit status is trusted.
func (e *Extractor) Extract(ctx context.Context, input string, opts Options) error {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputDir, err)
	}

	e.logger.Info().
		Str("input", input).
		Str("out_dir", opts.OutDir).
		Int("fps", opts.FPS).
		Msg("extracting frames")

	if err := e.runner.Run(ctx, e.bin, Args(input, opts)...); err != nil {
		return fmt.Errorf("%w: %v", ErrToolFailed, err)
	}

	e.logger.Info().Str("out_dir", opts.OutDir).Msg("extraction complete")
	return nil
}
