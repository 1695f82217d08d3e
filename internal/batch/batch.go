package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/condatools/condabatch/internal/docker"
	"github.com/condatools/condabatch/internal/plan"
)

// Controls batch execution.
type Options struct {
	Config plan.Config // Plan construction parameters, immutable for the run.
	DryRun bool        // Describe invocations at info level instead of running them.
}

// Launches container invocations on behalf of the batch.
//
// Satisfied by [docker.Engine]; faked in tests.
type Executor interface {
	Pull(ctx context.Context, image string) error
	Run(ctx context.Context, args []string) (*docker.RunResult, error)
}

// Executes every record read from r, in input order.
//
// The default build image is pulled once before any record is processed;
// a pull failure here aborts the whole run. Each well-formed line then
// produces exactly one plan which is executed (or described, under dry-run).
// A build exiting non-zero marks its record failed and the run continues
// with the next record. Malformed lines and per-record pull failures are
// fatal: the results accumulated so far are returned alongside the error,
// since completed builds are not rolled back.
func Run(ctx context.Context, exec Executor, r io.Reader, opts Options) ([]Result, error) {
	if err := exec.Pull(ctx, opts.Config.DefaultImage); err != nil {
		return nil, err
	}

	b := &batch{
		exec:   exec,
		cfg:    opts.Config,
		dryRun: opts.DryRun,
	}
	return b.run(ctx, r)
}

// Holds shared state while a batch is being processed.
type batch struct {
	exec    Executor    // Container runtime invocations.
	cfg     plan.Config // Plan construction parameters.
	dryRun  bool        // Whether invocations are described instead of run.
	results []Result    // Ordered per-record outcomes, append-only.
}

// Drives the record loop until input is exhausted or a fatal error occurs.
func (b *batch) run(ctx context.Context, r io.Reader) ([]Result, error) {
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++

		rec, err := plan.ParseRecord(scanner.Text())
		if err != nil {
			return b.results, fmt.Errorf("line %d: %w", line, err)
		}

		if err := b.process(ctx, rec); err != nil {
			return b.results, err
		}
	}

	if err := scanner.Err(); err != nil {
		return b.results, fmt.Errorf("%w: %w", ErrInput, err)
	}

	return b.results, nil
}

// Processes a single record: image resolution, planning, and execution.
//
// Returns an error only for fatal conditions (pull failure, an invocation
// that could not be launched). A build that ran and exited non-zero is
// recorded as a failed result, not an error.
func (b *batch) process(ctx context.Context, rec plan.Record) error {
	slog.Info("working on package",
		"name", rec.Name,
		"version", rec.Version,
		"recipe", rec.RecipePath,
	)

	image := b.cfg.Image(rec)
	if image != b.cfg.DefaultImage {
		slog.Info("using image", "image", image)

		// Specialized images are fetched on first use. Re-pulling for a
		// later record is a refresh, not an error.
		if err := b.exec.Pull(ctx, image); err != nil {
			return err
		}
	}

	p := plan.New(rec, image, b.cfg)

	if b.dryRun {
		slog.Info("docker command", "command", p.String())
		b.results = append(b.results, Result{Record: rec, Image: image})
		return nil
	}

	slog.Debug("build script", "script", p.Script)

	result, err := b.exec.Run(ctx, p.Args)
	if err != nil {
		return err
	}

	res := Result{
		Record: rec,
		Image:  image,
		Output: result.Output,
		Failed: !result.Success(),
	}
	b.results = append(b.results, res)

	if res.Failed {
		slog.Error("build failed",
			"name", rec.Name,
			"version", rec.Version,
			"exit_code", result.ExitCode,
		)
		logOutput(ctx, slog.LevelError, result.Output)
	} else {
		logOutput(ctx, slog.LevelDebug, result.Output)
	}

	return nil
}

// Emits captured process output one line at a time at the given level.
//
// Mirrors the runtime's own output framing so a failing build can be
// diagnosed from the log without re-running it.
func logOutput(ctx context.Context, level slog.Level, output string) {
	logger := slog.Default()
	if !logger.Enabled(ctx, level) {
		return
	}

	logger.Log(ctx, level, "########## BEGIN process STDOUT/STDERR ##########")
	for line := range strings.SplitSeq(output, "\n") {
		logger.Log(ctx, level, line)
	}
	logger.Log(ctx, level, "########## END process STDOUT/STDERR ##########")
}
