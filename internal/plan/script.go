package plan

import "mvdan.cc/sh/v3/syntax"

// Quotes a string as a single POSIX shell word.
//
// Recipe paths, mount points, and channel names are interpolated into the
// build script, so they must survive the container shell unaltered.
// [syntax.Quote] only fails for strings containing NUL bytes, which cannot
// appear in command-line arguments or input lines; such input is returned
// unquoted.
func quote(s string) string {
	quoted, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		return s
	}
	return quoted
}
