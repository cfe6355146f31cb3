package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds defaults that the CLI flags can override
type Config struct {
	OutDir    string `yaml:"out_dir"`
	FPS       int    `yaml:"fps"`
	Pattern   string `yaml:"pattern"`
	VideoPath string `yaml:"video_path"`

	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
	YTDLP  YTDLPConfig  `yaml:"yt_dlp"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type YTDLPConfig struct {
	BinaryPath string `yaml:"binary_path"`
	// ReleaseURL is the base URL the yt-dlp binary is fetched from when
	// --fetch-yt-dlp is set and the tool is missing.
	ReleaseURL string `yaml:"release_url"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		OutDir:    "frames",
		FPS:       10,
		Pattern:   "frame_%06d.png",
		VideoPath: "video.mp4",
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
		},
		YTDLP: YTDLPConfig{
			BinaryPath: "yt-dlp",
			ReleaseURL: "https://github.com/yt-dlp/yt-dlp/releases/latest/download",
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./youtube-to-jpg.yaml",
		"./youtube-to-jpg.yml",
		filepath.Join(os.Getenv("HOME"), ".youtube-to-jpg", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
