// Provides default host directories and container mount points for builds.
//
// Host defaults are resolved from the invoking user's home directory via XDG
// conventions. Container mount points are fixed paths matching the layout of
// the build images.
package paths
