package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

type fakeRunner struct {
	calls [][]string
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.err
}

func TestFilterChain(t *testing.T) {
	chain := FilterChain(10, "1280:-1")
	expected := "fps=10,scale=1280:-1"
	if chain != expected {
		t.Errorf("expected %q, got %q", expected, chain)
	}
}

func TestFilterChainNoScale(t *testing.T) {
	chain := FilterChain(10, "")
	if chain != "fps=10" {
		t.Errorf("expected %q, got %q", "fps=10", chain)
	}
}

func TestFilterChainZeroFPS(t *testing.T) {
	// fps=0 passes through uninterpreted; ffmpeg decides what it means
	chain := FilterChain(0, "")
	if chain != "fps=0" {
		t.Errorf("expected %q, got %q", "fps=0", chain)
	}
}

func TestArgsOrdering(t *testing.T) {
	opts := Options{
		OutDir:   "frames",
		Pattern:  "frame_%06d.png",
		FPS:      10,
		Scale:    "1280:-1",
		Start:    "00:00:05",
		Duration: "10",
	}
	args := Args("video.mp4", opts)

	if args[0] != "-hide_banner" || args[1] != "-y" {
		t.Errorf("expected global options first, got %v", args[:2])
	}

	ss := indexOf(args, "-ss")
	in := indexOf(args, "-i")
	dur := indexOf(args, "-t")

	if ss < 0 || in < 0 || dur < 0 {
		t.Fatalf("missing -ss/-i/-t in %v", args)
	}
	if ss > in {
		t.Errorf("-ss must come before -i, got %v", args)
	}
	if dur < in {
		t.Errorf("-t must come after -i, got %v", args)
	}
	if args[ss+1] != "00:00:05" {
		t.Errorf("expected seek value after -ss, got %q", args[ss+1])
	}
	if args[dur+1] != "10" {
		t.Errorf("expected duration value after -t, got %q", args[dur+1])
	}

	vf := indexOf(args, "-vf")
	if vf < 0 || args[vf+1] != "fps=10,scale=1280:-1" {
		t.Errorf("expected filter chain fps=10,scale=1280:-1, got %v", args)
	}

	vsync := indexOf(args, "-vsync")
	if vsync < 0 || args[vsync+1] != "vfr" {
		t.Errorf("expected -vsync vfr, got %v", args)
	}
	pts := indexOf(args, "-frame_pts")
	if pts < 0 || args[pts+1] != "1" {
		t.Errorf("expected -frame_pts 1, got %v", args)
	}

	if args[len(args)-1] != filepath.Join("frames", "frame_%06d.png") {
		t.Errorf("expected output pattern last, got %q", args[len(args)-1])
	}
}

func TestArgsWithoutTrimming(t *testing.T) {
	opts := Options{
		OutDir:  "frames",
		Pattern: "frame_%06d.png",
		FPS:     10,
	}
	args := Args("video.mp4", opts)

	if indexOf(args, "-ss") >= 0 {
		t.Errorf("unexpected -ss in %v", args)
	}
	if indexOf(args, "-t") >= 0 {
		t.Errorf("unexpected -t in %v", args)
	}
	vf := indexOf(args, "-vf")
	if vf < 0 || args[vf+1] != "fps=10" {
		t.Errorf("expected filter chain fps=10, got %v", args)
	}
}

func TestExtractCreatesOutDir(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "frames")
	run := &fakeRunner{}
	ex := New(zerolog.Nop(), run, "ffmpeg")

	err := ex.Extract(context.Background(), "video.mp4", Options{
		OutDir:  outDir,
		Pattern: "frame_%06d.png",
		FPS:     10,
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if _, err := os.Stat(outDir); err != nil {
		t.Errorf("output directory was not created: %v", err)
	}
	if len(run.calls) != 1 {
		t.Errorf("expected exactly one ffmpeg invocation, got %d", len(run.calls))
	}
}

func TestExtractOutputDirUnavailable(t *testing.T) {
	// A plain file where the directory should go makes MkdirAll fail
	blocker := filepath.Join(t.TempDir(), "frames")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	run := &fakeRunner{}
	ex := New(zerolog.Nop(), run, "ffmpeg")

	err := ex.Extract(context.Background(), "video.mp4", Options{
		OutDir:  blocker,
		Pattern: "frame_%06d.png",
		FPS:     10,
	})
	if !errors.Is(err, ErrOutputDir) {
		t.Errorf("expected ErrOutputDir, got %v", err)
	}
	if len(run.calls) != 0 {
		t.Errorf("ffmpeg must not be invoked when the output dir is unavailable, got %d calls", len(run.calls))
	}
}

func TestExtractToolFailed(t *testing.T) {
	run := &fakeRunner{err: errors.New("exit status 1")}
	ex := New(zerolog.Nop(), run, "ffmpeg")

	err := ex.Extract(context.Background(), "video.mp4", Options{
		OutDir:  t.TempDir(),
		Pattern: "frame_%06d.png",
		FPS:     10,
	})
	if !errors.Is(err, ErrToolFailed) {
		t.Errorf("expected ErrToolFailed, got %v", err)
	}
}

func indexOf(args []string, want string) int {
	for i, a := range args {
		if a == want {
			return i
		}
	}
	return -1
}
