package docker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// Name of the container runtime binary resolved from PATH.
const binaryName = "docker"

// Function signature for creating an [exec.Cmd].
//
// Allows injection of fake commands in tests.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// Configures an [Engine].
type Option func(*Engine)

// Overrides the runtime binary path, skipping PATH resolution.
func WithBinary(path string) Option {
	return func(e *Engine) { e.binary = path }
}

// Overrides how external commands are created.
func WithExecCommand(f ExecCommandFunc) Option {
	return func(e *Engine) { e.execCommand = f }
}

// Invokes the container runtime CLI.
type Engine struct {
	binary      string          // Path to the runtime binary.
	execCommand ExecCommandFunc // Creates commands; replaceable in tests.
}

// Result of one container run.
type RunResult struct {
	ExitCode int    // Exit code of the container process.
	Output   string // Combined stdout and stderr.
}

// Reports whether the run completed successfully.
func (r *RunResult) Success() bool {
	return r.ExitCode == 0
}

// Creates an engine for the container runtime.
//
// The runtime binary is resolved from PATH unless [WithBinary] overrides it;
// a missing binary wraps [ErrNotFound].
func New(opts ...Option) (*Engine, error) {
	e := &Engine{execCommand: exec.CommandContext}
	for _, opt := range opts {
		opt(e)
	}

	if e.binary == "" {
		path, err := exec.LookPath(binaryName)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		e.binary = path
	}

	return e, nil
}

// Fetches an image from the registry.
//
// Pulling an image that is already present is not an error; the runtime
// treats the pull as a refresh. Failures wrap [ErrPull] with the runtime's
// output attached.
func (e *Engine) Pull(ctx context.Context, image string) error {
	cmd := e.execCommand(ctx, e.binary, "pull", image)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrPull, image, summarize(out, err))
	}

	slog.Debug("pulled image", "image", image)
	return nil
}

// Runs the container invocation described by args and waits for it to exit.
//
// Stdout and stderr are captured merged into one stream. A non-zero exit
// status is not an error: it is reported via [RunResult.ExitCode] so the
// caller decides how to handle a failed build. Errors are reserved for
// invocations that could not be launched ([ErrRuntime]) and captured output
// that is not valid UTF-8 ([ErrOutputDecode]).
func (e *Engine) Run(ctx context.Context, args []string) (*RunResult, error) {
	cmd := e.execCommand(ctx, e.binary, args...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
		}
	}

	if !utf8.Valid(out) {
		return nil, fmt.Errorf("%w: %d bytes of combined output", ErrOutputDecode, len(out))
	}

	return &RunResult{
		ExitCode: cmd.ProcessState.ExitCode(),
		Output:   string(out),
	}, nil
}

// Condenses a failed command's output and error into one line.
func summarize(out []byte, err error) string {
	msg := strings.TrimSpace(string(out))
	if msg == "" {
		return err.Error()
	}
	if line, _, ok := strings.Cut(msg, "\n"); ok {
		msg = line
	}
	return fmt.Sprintf("%v: %s", err, msg)
}
