package plan

import (
	"fmt"
	"strings"
)

// Number of whitespace-separated fields in a build record line.
const recordFields = 3

// Identifies one package to build.
//
// Records arrive on standard input, one per line, ordered so that
// dependencies precede their dependents. A record is immutable once parsed
// and lives only for the iteration that consumes it.
type Record struct {
	Name       string // Package name (e.g., "samtools").
	Version    string // Package version (e.g., "1.9").
	RecipePath string // Recipe path relative to the recipes mount.
}

// Parses a single input line into a [Record].
//
// The line is trimmed before splitting on whitespace. Exactly three fields
// are required; anything else wraps [ErrMalformedRecord].
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) != recordFields {
		return Record{}, fmt.Errorf("%w: got %d fields, want %d: %q",
			ErrMalformedRecord, len(fields), recordFields, line)
	}

	return Record{
		Name:       fields[0],
		Version:    fields[1],
		RecipePath: fields[2],
	}, nil
}
