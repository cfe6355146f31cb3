package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/maishathasin/youtube-to-jpg/internal/config"
	"github.com/maishathasin/youtube-to-jpg/internal/logging"
	"github.com/maishathasin/youtube-to-jpg/internal/pipeline"
	"github.com/maishathasin/youtube-to-jpg/internal/runner"
	"github.com/maishathasin/youtube-to-jpg/internal/tools"
)

var (
	cfgFile string
	verbose bool

	outDir     string
	fps        int
	pattern    string
	scale      string
	start      string
	duration   string
	keepVideo  bool
	videoPath  string
	fetchYTDLP bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "youtube-to-jpg [url]",
	Short:        "youtube-to-jpg - download a video and explode it into still frames",
	Long:         "Downloads a video with yt-dlp, remuxes it to MP4, and extracts a numbered frame sequence with ffmpeg.",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		opts := pipeline.Options{
			URL:        args[0],
			OutDir:     outDir,
			FPS:        fps,
			Pattern:    pattern,
			Scale:      scale,
			Start:      start,
			Duration:   duration,
			KeepVideo:  keepVideo,
			VideoPath:  videoPath,
			FetchYTDLP: fetchYTDLP,
		}

		// The config file supplies defaults; explicit flags win.
		flags := cmd.Flags()
		if !flags.Changed("out-dir") {
			opts.OutDir = cfg.OutDir
		}
		if !flags.Changed("fps") {
			opts.FPS = cfg.FPS
		}
		if !flags.Changed("pattern") {
			opts.Pattern = cfg.Pattern
		}
		if !flags.Changed("video-path") {
			opts.VideoPath = cfg.VideoPath
		}

		resolver := tools.NewPathResolver()
		if cfg.FFmpeg.BinaryPath != tools.FFmpeg {
			resolver.Register(tools.FFmpeg, cfg.FFmpeg.BinaryPath)
		}
		if cfg.YTDLP.BinaryPath != tools.YTDLP {
			resolver.Register(tools.YTDLP, cfg.YTDLP.BinaryPath)
		}

		fetcher := tools.NewFetcher(log.Logger, resolver, cfg.YTDLP.ReleaseURL)
		pipe := pipeline.New(log.Logger, resolver, fetcher, runner.NewExec(log.Logger))

		framesDir, err := pipe.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}

		color.New(color.FgGreen).Printf("Done. Frames in: %s\n", framesDir)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./youtube-to-jpg.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().StringVarP(&outDir, "out-dir", "o", "frames", "output directory for frames (will be created)")
	rootCmd.Flags().IntVarP(&fps, "fps", "f", 10, "FPS for frame extraction")
	rootCmd.Flags().StringVar(&pattern, "pattern", "frame_%06d.png", "output image pattern, numeric placeholder required")
	rootCmd.Flags().StringVar(&scale, "scale", "", "optional re-scale, e.g. 1280:-1 or 720:-2, applied after fps")
	rootCmd.Flags().StringVar(&start, "start", "", "optional start time, e.g. 00:00:05")
	rootCmd.Flags().StringVar(&duration, "duration", "", "optional duration, e.g. 10 or 00:00:10")
	rootCmd.Flags().BoolVar(&keepVideo, "keep-video", false, "keep the downloaded video file instead of using a temp dir")
	rootCmd.Flags().StringVar(&videoPath, "video-path", "video.mp4", "where to save the downloaded MP4 with --keep-video")
	rootCmd.Flags().BoolVar(&fetchYTDLP, "fetch-yt-dlp", false, "download yt-dlp if it is not on PATH")
}
