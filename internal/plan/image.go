package plan

import "strings"

// Default images used when none are configured. The iRODS image carries the
// legacy toolchain that iRODS 4.1 packages need.
const (
	DefaultBuildImage = "wsinpg/ub-12.04-conda:latest"
	IRODSBuildImage   = "wsinpg/ub-12.04-conda-irods:latest"
)

// Maps records matching a package name and version prefix to a build image.
type ImageRule struct {
	Name          string // Package name to match exactly.
	VersionPrefix string // Version prefix to match; empty matches any version.
	Image         string // Image used when the rule matches.
}

// Reports whether the rule applies to the given record.
func (r ImageRule) Matches(rec Record) bool {
	return rec.Name == r.Name && strings.HasPrefix(rec.Version, r.VersionPrefix)
}

// Returns the image selection rules for this configuration.
//
// The table is ordered and evaluated first-match wins. Currently it holds a
// single entry: iRODS 4.1.x builds use the configured iRODS image.
func (c Config) ImageRules() []ImageRule {
	return []ImageRule{
		{Name: "irods", VersionPrefix: "4.1.", Image: c.IRODSImage},
	}
}

// Returns the build image for a record.
//
// The configuration's rule table is consulted in order; the first matching
// rule decides. Records matching no rule use the default build image. There
// is no error path: a value is always returned.
func (c Config) Image(rec Record) string {
	for _, rule := range c.ImageRules() {
		if rule.Matches(rec) {
			return rule.Image
		}
	}
	return c.DefaultImage
}
