// Package track classifies a freshly computed fingerprint against the stored
// one and derives the next version number. It is a pure comparison: no diff,
// no delta, no persistence.
package track

import "github.com/repkit/appreg/pkg/fingerprint"

// Kind is the result of comparing a stored fingerprint with a fresh one.
type Kind string

const (
	// New means the application has no prior fingerprint on record.
	New Kind = "new"
	// Changed means the fresh fingerprint differs from the stored one.
	Changed Kind = "changed"
	// Unchanged means the fingerprints are identical; no mutation follows.
	Unchanged Kind = "unchanged"
)

// Detect classifies an application given its stored digest (zero when never
// analyzed) and the freshly computed one.
func Detect(prior, current fingerprint.Digest) Kind {
	switch {
	case prior.IsZero():
		return New
	case prior.Equal(current):
		return Unchanged
	default:
		return Changed
	}
}

// NextVersion returns the version an application should carry after an
// analysis that classified as kind. Versions only ever increase: New starts
// at 1, Changed bumps by one, Unchanged keeps the prior version.
func NextVersion(kind Kind, prior int) int {
	switch kind {
	case New:
		return 1
	case Changed:
		return prior + 1
	default:
		return prior
	}
}
