package tools

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
)

// Canonical tool names looked up on the search path.
const (
	FFmpeg = "ffmpeg"
	YTDLP  = "yt-dlp"
)

// ErrNotFound indicates the tool is not reachable on the search path.
var ErrNotFound = errors.New("not found in PATH")

// Resolver maps tool names to invocable executable paths.
type Resolver interface {
	Resolve(name string) (string, error)
}

// PathResolver resolves tools through the process search path, preferring
// paths registered for freshly fetched binaries. It is the single source of
// truth for tool locations within a run.
type PathResolver struct {
	mu        sync.Mutex
	overrides map[string]string
}

// NewPathResolver creates an empty resolver
func NewPathResolver() *PathResolver {
	return &PathResolver{
		overrides: make(map[string]string),
	}
}

// Register pins a tool name to an explicit path, bypassing PATH lookup.
func (r *PathResolver) Register(name, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[name] = path
}

func (r *PathResolver) Resolve(name string) (string, error) {
	r.mu.Lock()
	if path, ok := r.overrides[name]; ok {
		r.mu.Unlock()
		return path, nil
	}
	r.mu.Unlock()

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s %w", name, ErrNotFound)
	}
	return path, nil
}

// InstallInstructions returns a platform-appropriate remedy for a missing tool
func InstallInstructions(name string) string {
	switch runtime.GOOS {
	case "darwin":
		return fmt.Sprintf("install with: brew install %s", name)
	case "linux":
		return fmt.Sprintf("install with: apt-get install %s (Ubuntu/Debian) or yum install %s (CentOS/RHEL)", name, name)
	case "windows":
		return fmt.Sprintf("download %s and add it to PATH", name)
	default:
		return fmt.Sprintf("install %s and make sure it is on PATH", name)
	}
}
