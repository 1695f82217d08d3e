// Package docker drives the container runtime through its CLI.
//
// The runtime binary is treated as a black box: images are fetched with
// "docker pull" and builds are launched with "docker run", with stdout and
// stderr captured as a single combined stream. A build process exiting
// non-zero is reported through the result's exit code, not as an error, so
// the caller can decide whether one failed build stops the batch.
//
// Command creation is injectable for tests via [WithExecCommand].
package docker
