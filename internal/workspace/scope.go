package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// videoFilename is the fixed artifact name inside an ephemeral scope.
const videoFilename = "video.mp4"

// Scope owns a uniquely-named temporary directory and removes it recursively
// exactly once, on Release. Cleanup is not guaranteed if the process is killed.
type Scope struct {
	logger zerolog.Logger
	dir    string
	once   sync.Once
}

// ForVideo decides where the downloaded video will live. With keep set the
// caller-supplied path is used as-is and no scope is created; otherwise the
// target lives inside a fresh temp directory owned by the returned scope.
func ForVideo(logger zerolog.Logger, keep bool, videoPath string) (string, *Scope, error) {
	if keep {
		return videoPath, nil, nil
	}

	dir, err := os.MkdirTemp("", "youtube-to-jpg-")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}

	scope := &Scope{
		logger: logger.With().Str("component", "workspace").Logger(),
		dir:    dir,
	}
	return filepath.Join(dir, videoFilename), scope, nil
}

// Dir returns the scope's directory
func (s *Scope) Dir() string {
	return s.dir
}

// Release deletes the directory and its contents. Safe to call more than once
// and on a nil scope, so callers can defer it unconditionally.
func (s *Scope) Release() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if err := os.RemoveAll(s.dir); err != nil {
			s.logger.Warn().Err(err).Str("dir", s.dir).Msg("failed to remove temp dir")
			return
		}
		s.logger.Debug().Str("dir", s.dir).Msg("temp dir removed")
	})
}
