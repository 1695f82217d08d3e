package batch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/condatools/condabatch/internal/docker"
	"github.com/condatools/condabatch/internal/plan"
)

// Records invocations instead of launching containers.
type fakeExecutor struct {
	pulls     []string         // Images pulled, in order.
	runs      [][]string       // Argument lists passed to Run, in order.
	failPull  map[string]error // Pull errors keyed by image.
	exitCodes []int            // Exit codes consumed per Run call; empty means 0.
	runErr    error            // Launch error returned by every Run call.
}

func (f *fakeExecutor) Pull(ctx context.Context, image string) error {
	f.pulls = append(f.pulls, image)
	return f.failPull[image]
}

func (f *fakeExecutor) Run(ctx context.Context, args []string) (*docker.RunResult, error) {
	f.runs = append(f.runs, args)
	if f.runErr != nil {
		return nil, f.runErr
	}

	code := 0
	if len(f.exitCodes) > 0 {
		code = f.exitCodes[0]
		f.exitCodes = f.exitCodes[1:]
	}

	return &docker.RunResult{ExitCode: code, Output: "build output"}, nil
}

func testOptions() Options {
	return Options{
		Config: plan.Config{
			RecipesDir:     "/home/builder/conda-recipes",
			RecipesMount:   "/home/conda/recipes",
			ArtefactsDir:   "/home/builder/conda-artefacts",
			ArtefactsMount: "/opt/conda/conda-bld",
			DefaultImage:   "example/conda:latest",
			IRODSImage:     "example/conda-irods:latest",
			UID:            1000,
			GID:            1000,
		},
	}
}

const threeRecords = "htslib 1.9 htslib/1.9\n" +
	"samtools 1.9 samtools/1.9\n" +
	"bcftools 1.9 bcftools/1.9\n"

func TestRunAttemptsEveryRecordInOrder(t *testing.T) {
	exec := &fakeExecutor{}
	opts := testOptions()

	results, err := Run(context.Background(), exec, strings.NewReader(threeRecords), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	for i, name := range []string{"htslib", "samtools", "bcftools"} {
		if results[i].Record.Name != name {
			t.Fatalf("results[%d].Record.Name = %q, want %q", i, results[i].Record.Name, name)
		}
	}

	if len(exec.runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(exec.runs))
	}
	if AnyFailed(results) {
		t.Fatal("AnyFailed = true with no failures")
	}
}

func TestRunPullsDefaultImageFirst(t *testing.T) {
	exec := &fakeExecutor{}
	opts := testOptions()

	if _, err := Run(context.Background(), exec, strings.NewReader(threeRecords), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(exec.pulls) == 0 || exec.pulls[0] != opts.Config.DefaultImage {
		t.Fatalf("pulls = %q, want default image pulled first", exec.pulls)
	}
}

func TestRunFailureIsolation(t *testing.T) {
	exec := &fakeExecutor{exitCodes: []int{0, 1, 0}}
	opts := testOptions()

	results, err := Run(context.Background(), exec, strings.NewReader(threeRecords), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3 (failed record must not stop the batch)", len(results))
	}
	if results[0].Failed || results[2].Failed {
		t.Fatalf("unexpected failures: %+v", results)
	}
	if !results[1].Failed {
		t.Fatal("results[1].Failed = false, want true")
	}
	if results[1].Output != "build output" {
		t.Fatalf("results[1].Output = %q, want captured output", results[1].Output)
	}
	if !AnyFailed(results) {
		t.Fatal("AnyFailed = false with one failure")
	}
}

func TestRunDryRunNeverExecutes(t *testing.T) {
	exec := &fakeExecutor{}
	opts := testOptions()
	opts.DryRun = true

	results, err := Run(context.Background(), exec, strings.NewReader(threeRecords), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(exec.runs) != 0 {
		t.Fatalf("len(runs) = %d, want 0 under dry-run", len(exec.runs))
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if AnyFailed(results) {
		t.Fatal("dry-run produced a failure")
	}
}

func TestRunMalformedLineAborts(t *testing.T) {
	exec := &fakeExecutor{}
	opts := testOptions()

	input := "htslib 1.9 htslib/1.9\n" +
		"samtools 1.9\n" +
		"bcftools 1.9 bcftools/1.9\n"

	results, err := Run(context.Background(), exec, strings.NewReader(input), opts)
	if !errors.Is(err, plan.ErrMalformedRecord) {
		t.Fatalf("error = %v, want ErrMalformedRecord", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error %q does not name the offending line", err)
	}

	// The completed record is kept; nothing past the bad line is attempted.
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if len(exec.runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(exec.runs))
	}
}

func TestRunDefaultImagePullFailureIsFatal(t *testing.T) {
	opts := testOptions()
	exec := &fakeExecutor{
		failPull: map[string]error{opts.Config.DefaultImage: docker.ErrPull},
	}

	results, err := Run(context.Background(), exec, strings.NewReader(threeRecords), opts)
	if !errors.Is(err, docker.ErrPull) {
		t.Fatalf("error = %v, want ErrPull", err)
	}
	if len(results) != 0 {
		t.Fatalf("len(results) = %d, want 0 (no record attempted)", len(results))
	}
	if len(exec.runs) != 0 {
		t.Fatalf("len(runs) = %d, want 0", len(exec.runs))
	}
}

func TestRunPullsSpecializedImagePerRecord(t *testing.T) {
	exec := &fakeExecutor{}
	opts := testOptions()

	input := "irods 4.1.10 irods/4.1.10\n" +
		"samtools 1.9 samtools/1.9\n"

	results, err := Run(context.Background(), exec, strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantPulls := []string{opts.Config.DefaultImage, opts.Config.IRODSImage}
	if len(exec.pulls) != 2 || exec.pulls[0] != wantPulls[0] || exec.pulls[1] != wantPulls[1] {
		t.Fatalf("pulls = %q, want %q", exec.pulls, wantPulls)
	}

	if results[0].Image != opts.Config.IRODSImage {
		t.Fatalf("results[0].Image = %q, want %q", results[0].Image, opts.Config.IRODSImage)
	}
	if results[1].Image != opts.Config.DefaultImage {
		t.Fatalf("results[1].Image = %q, want %q", results[1].Image, opts.Config.DefaultImage)
	}
}

func TestRunSpecializedPullFailureIsFatal(t *testing.T) {
	opts := testOptions()
	exec := &fakeExecutor{
		failPull: map[string]error{opts.Config.IRODSImage: docker.ErrPull},
	}

	input := "samtools 1.9 samtools/1.9\n" +
		"irods 4.1.10 irods/4.1.10\n" +
		"bcftools 1.9 bcftools/1.9\n"

	results, err := Run(context.Background(), exec, strings.NewReader(input), opts)
	if !errors.Is(err, docker.ErrPull) {
		t.Fatalf("error = %v, want ErrPull", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1 (only the record before the failure)", len(results))
	}
}

func TestRunExecutorErrorIsFatal(t *testing.T) {
	exec := &fakeExecutor{runErr: docker.ErrOutputDecode}
	opts := testOptions()

	results, err := Run(context.Background(), exec, strings.NewReader(threeRecords), opts)
	if !errors.Is(err, docker.ErrOutputDecode) {
		t.Fatalf("error = %v, want ErrOutputDecode", err)
	}
	if len(results) != 0 {
		t.Fatalf("len(results) = %d, want 0", len(results))
	}
	if len(exec.runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1 (run stops at the first launch error)", len(exec.runs))
	}
}

func TestRunReaderErrorWrapsErrInput(t *testing.T) {
	exec := &fakeExecutor{}
	opts := testOptions()

	_, err := Run(context.Background(), exec, iotest.ErrReader(errors.New("disk gone")), opts)
	if !errors.Is(err, ErrInput) {
		t.Fatalf("error = %v, want ErrInput", err)
	}
}

func TestAnyFailed(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    bool
	}{
		{name: "empty", results: nil, want: false},
		{name: "all success", results: []Result{{}, {}}, want: false},
		{name: "one failure", results: []Result{{}, {Failed: true}, {}}, want: true},
		{name: "all failures", results: []Result{{Failed: true}, {Failed: true}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnyFailed(tt.results); got != tt.want {
				t.Fatalf("AnyFailed = %v, want %v", got, tt.want)
			}
		})
	}
}
