// Package version provides the totally-ordered version identifiers the
// resolver compares descriptors and constraints by.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// Sentinel is substituted for any version string that fails to parse. The
// resolver never treats a parse failure as fatal (eclipse.platform.runtime
// §7: "internal arithmetic failures in version parsing downgrade silently").
const Sentinel = "1.0.0"

// Version is a parsed, comparable version identifier.
type Version struct {
	raw string
	sv  *semver.Version
}

// Parse interprets s as a semantic version. A malformed string never
// produces an error; it falls back to Sentinel so that callers upstream of
// the resolver (descriptor construction) never need error-handling plumbing
// for this path.
func Parse(s string) Version {
	sv, err := semver.NewVersion(s)
	if err != nil {
		sv = semver.MustParse(Sentinel)
		return Version{raw: s, sv: sv}
	}
	return Version{raw: s, sv: sv}
}

// String returns the canonical dotted-triple representation.
func (v Version) String() string {
	if v.sv == nil {
		return Sentinel
	}
	return v.sv.String()
}

// Raw returns the original string this Version was parsed from, before any
// sentinel substitution — useful for diagnostics that want to show the
// input that failed to parse.
func (v Version) Raw() string {
	return v.raw
}

func (v Version) core() *semver.Version {
	if v.sv == nil {
		return semver.MustParse(Sentinel)
	}
	return v.sv
}

// EquivalentTo reports whether v and o denote the same version, used for
// MATCH_EXACT comparisons.
func (v Version) EquivalentTo(o Version) bool {
	return v.core().Equal(o.core())
}

// GreaterThan reports whether v sorts strictly after o.
func (v Version) GreaterThan(o Version) bool {
	return v.core().GreaterThan(o.core())
}

// LessThan reports whether v sorts strictly before o.
func (v Version) LessThan(o Version) bool {
	return v.core().LessThan(o.core())
}

// CompatibleWith reports whether v satisfies a MATCH_COMPATIBLE constraint
// requiring at least o: same major version, and v >= o. This is the band
// definition the resolver inherits for isCompatibleWith, per the open
// question in eclipse.platform.runtime §4.1/§9 — see DESIGN.md.
func (v Version) CompatibleWith(o Version) bool {
	if v.core().Major() != o.core().Major() {
		return false
	}
	return !v.core().LessThan(o.core())
}

// SameMajorMinor reports whether v and o agree on major and minor
// components, the comparison the fragment merger uses to decide whether a
// fragment's declared pluginVersion still targets a given plugin version
// (eclipse.platform.runtime §4.3).
func (v Version) SameMajorMinor(o Version) bool {
	return v.core().Major() == o.core().Major() && v.core().Minor() == o.core().Minor()
}

// ByDescending sorts Versions from newest to oldest.
type ByDescending []Version

func (b ByDescending) Len() int      { return len(b) }
func (b ByDescending) Swap(i, j int) { b[i], b[j] = b[j], b[i] }
func (b ByDescending) Less(i, j int) bool {
	return b[i].GreaterThan(b[j])
}
