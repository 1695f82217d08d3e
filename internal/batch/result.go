package batch

import "github.com/condatools/condabatch/internal/plan"

// Outcome of one record's build.
type Result struct {
	Record plan.Record // The record that was built.
	Image  string      // Build image the record resolved to.
	Output string      // Combined stdout and stderr of the build process.
	Failed bool        // Whether the build process exited non-zero.
}

// Reports whether any record in the batch failed.
//
// Computed over the full ordered result sequence after the run; a dry run
// produces no failures by definition.
func AnyFailed(results []Result) bool {
	for _, r := range results {
		if r.Failed {
			return true
		}
	}
	return false
}
