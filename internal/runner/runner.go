package runner

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Runner executes an external tool and waits for it to exit. Orchestrators
// depend on this interface so tests can substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands through os/exec, streaming child output into the
// debug log and keeping a short stderr tail for error reporting.
type ExecRunner struct {
	logger zerolog.Logger
}

// NewExec creates a new exec-backed runner
func NewExec(logger zerolog.Logger) *ExecRunner {
	return &ExecRunner{
		logger: logger.With().Str("component", "exec").Logger(),
	}
}

const stderrTailLines = 8

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	r.logger.Debug().
		Str("cmd", name).
		Strs("args", args).
		Msg("executing")

	cmd := exec.CommandContext(ctx, name, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)

	var tail []string

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			line := scanner.Text()
			r.logger.Debug().Str("tool", name).Msg(line)
			tail = append(tail, line)
			if len(tail) > stderrTailLines {
				tail = tail[1:]
			}
		}
	}()

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			r.logger.Debug().Str("tool", name).Msg(scanner.Text())
		}
	}()

	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if len(tail) > 0 {
			return fmt.Errorf("%s: %w: %s", name, err, strings.Join(tail, "\n"))
		}
		return fmt.Errorf("%s: %w", name, err)
	}

	r.logger.Debug().Str("cmd", name).Msg("execution completed")
	return nil
}
