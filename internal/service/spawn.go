package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

type execProcess struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stderr io.Reader
}

func (p *execProcess) Stdout() io.Reader { return p.stdout }
func (p *execProcess) Stderr() io.Reader { return p.stderr }

func (p *execProcess) Wait() (*int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return intPtr(0), nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// -1 means terminated by a signal.
		if code := exitErr.ExitCode(); code >= 0 {
			return &code, nil
		}
		return nil, nil
	}
	return nil, err
}

// ExecSpawner runs bin as a child process. baseArgs are placed before the
// per-call arguments, which lets another binary stand in for gtm.
func ExecSpawner(bin string, baseArgs ...string) Spawner {
	return func(ctx context.Context, args []string) (Process, error) {
		argv := append(append([]string{}, baseArgs...), args...)
		cmd := exec.CommandContext(ctx, bin, argv...)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("opening stdout pipe: %w", err)
		}
		stderr, err := cmd.StderrPipe()
		if err != nil {
			return nil, fmt.Errorf("opening stderr pipe: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("starting %s: %w", bin, err)
		}
		return &execProcess{cmd: cmd, stdout: stdout, stderr: stderr}, nil
	}
}
