// Package batch runs an ordered stream of build records to completion.
//
// Records are read one per line, in dependency order produced upstream, and
// processed strictly sequentially: parse, resolve the build image, assemble
// the plan, execute, record the outcome, continue. A failed build never
// stops the batch; its output is logged at error severity and the failure is
// carried in the record's result. Malformed input and image pull failures
// are fatal and end the run immediately.
//
// The final exit status is derived from the collected results: non-zero if
// any record failed, zero otherwise.
package batch
