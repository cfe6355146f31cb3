package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/maishathasin/youtube-to-jpg/internal/download"
	"github.com/maishathasin/youtube-to-jpg/internal/extract"
	"github.com/maishathasin/youtube-to-jpg/internal/runner"
	"github.com/maishathasin/youtube-to-jpg/internal/tools"
	"github.com/maishathasin/youtube-to-jpg/internal/workspace"
)

// Options is the validated run configuration produced by the CLI layer.
// Read-only once constructed.
type Options struct {
	URL        string
	OutDir     string
	FPS        int
	Pattern    string
	Scale      string
	Start      string
	Duration   string
	KeepVideo  bool
	VideoPath  string
	FetchYTDLP bool
}

// Fetcher acquires a missing download tool.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Pipeline sequences tool resolution, download and frame extraction.
type Pipeline struct {
	logger   zerolog.Logger
	resolver tools.Resolver
	fetcher  Fetcher
	runner   runner.Runner
}

// New creates a pipeline instance
func New(logger zerolog.Logger, resolver tools.Resolver, fetcher Fetcher, run runner.Runner) *Pipeline {
	return &Pipeline{
		logger:   logger.With().Str("component", "pipeline").Logger(),
		resolver: resolver,
		fetcher:  fetcher,
		runner:   run,
	}
}

// Run executes the whole pipeline and returns the frame output directory.
// Extraction is certain to fail without ffmpeg, so its presence is checked
// before any network cost. Any stage failure aborts the later stages; the
// ephemeral scope is still released.
func (p *Pipeline) Run(ctx context.Context, opts Options) (string, error) {
	ffmpegPath, err := p.resolver.Resolve(tools.FFmpeg)
	if err != nil {
		return "", fmt.Errorf("checking for ffmpeg: %w; %s", err, tools.InstallInstructions(tools.FFmpeg))
	}

	ytdlpPath, err := p.resolver.Resolve(tools.YTDLP)
	if err != nil {
		if !opts.FetchYTDLP {
			return "", fmt.Errorf("checking for yt-dlp: %w; install it (pip install yt-dlp, package manager) or re-run with --fetch-yt-dlp", err)
		}
		ytdlpPath, err = p.fetcher.Fetch(ctx)
		if err != nil {
			return "", fmt.Errorf("fetching yt-dlp: %w", err)
		}
	}

	target, scope, err := workspace.ForVideo(p.logger, opts.KeepVideo, opts.VideoPath)
	if err != nil {
		return "", fmt.Errorf("preparing video location: %w", err)
	}
	defer scope.Release()

	dl := download.New(p.logger, p.runner, ytdlpPath)
	if err := dl.Download(ctx, opts.URL, target); err != nil {
		return "", fmt.Errorf("downloading video: %w", err)
	}

	ex := extract.New(p.logger, p.runner, ffmpegPath)
	extractOpts := extract.Options{
		OutDir:   opts.OutDir,
		Pattern:  opts.Pattern,
		FPS:      opts.FPS,
		Scale:    opts.Scale,
		Start:    opts.Start,
		Duration: opts.Duration,
	}
	if err := ex.Extract(ctx, target, extractOpts); err != nil {
		return "", fmt.Errorf("extracting frames: %w", err)
	}

	return opts.OutDir, nil
}
