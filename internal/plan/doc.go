// Package plan turns one build record into a container invocation.
//
// A record names a package, a version, and a recipe path. Planning selects
// the build image for the record, assembles the shell script that configures
// conda and runs the build inside the container, and lays out the full
// argument list for the container runtime CLI. Construction is pure: the
// resulting [Plan] is executed (or described, under dry-run) by the batch
// package.
//
// Image selection is driven by an ordered rule table evaluated first-match
// wins, falling back to the default build image. The stock table carries a
// single rule for iRODS 4.1.x, which must be built in a legacy image.
package plan
