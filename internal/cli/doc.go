// Parses flags and configures logging for the condabatch CLI.
//
// The CLI accepts the following global flags:
//
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//
// Flags override build-time defaults set via linker flags. After parsing, the
// global logger is reconfigured to reflect the final level before the batch
// runs. By default only errors are reported; a dry run raises the level to
// info so the described invocations are visible.
package cli
