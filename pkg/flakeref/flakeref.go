// Package flakeref parses and compares flake-style build references.
//
// A reference is an opaque string of the form
//
//	<base-location>[/<revision>][#<sub-target>]
//
// where the base location identifies the source repository or channel
// (e.g. "github:NixOS/nixpkgs"), the optional revision is a content hash
// that may be abbreviated, and the optional sub-target selects a specific
// attribute within the source.
//
// The central problem this package solves is deciding whether two
// references denote the same artifact even when they are syntactically
// different: the profile records revisions canonicalized to full length
// while users habitually supply short hashes, and a recorded reference may
// omit a sub-target that was supplied at install time.
package flakeref

import (
	"strings"

	"github.com/kenbanks-peng/mise-nix/pkg/errors"
)

// Ref is the structured decomposition of a reference string.
type Ref struct {
	// BaseLocation identifies the source repository or channel.
	BaseLocation string

	// Revision is the optional content hash. It may be a prefix of
	// another revision string denoting the same commit.
	Revision string

	// SubTarget is the optional attribute path after the '#' delimiter.
	// An empty SubTarget means "unconstrained", not "different target".
	SubTarget string
}

// Parse decomposes a raw reference string into its parts.
//
// The string is split on the last unescaped '#' to obtain the sub-target,
// then the final '/'-separated path segment is taken as the revision iff
// it looks like a hash token. Everything else is the base location.
func Parse(raw string) (Ref, error) {
	if strings.TrimSpace(raw) == "" {
		return Ref{}, errors.New(errors.ErrCodeInvalidReference, "empty reference")
	}

	rest := raw
	var ref Ref

	if idx := lastUnescapedHash(rest); idx >= 0 {
		ref.SubTarget = rest[idx+1:]
		rest = rest[:idx]
	}

	if rest == "" {
		return Ref{}, errors.New(errors.ErrCodeInvalidReference, "reference %q has no base location", raw)
	}

	if slash := strings.LastIndex(rest, "/"); slash >= 0 {
		if seg := rest[slash+1:]; isRevisionToken(seg) {
			ref.Revision = seg
			rest = rest[:slash]
		}
	}

	if rest == "" {
		return Ref{}, errors.New(errors.ErrCodeInvalidReference, "reference %q has no base location", raw)
	}

	ref.BaseLocation = rest
	return ref, nil
}

// Match reports whether two raw references denote the same artifact.
//
// The rules are applied in order; the first decisive rule wins:
//  1. Exact string equality matches.
//  2. Differing base locations never match.
//  3. Two non-empty, differing sub-targets never match. An empty
//     sub-target on either side is unconstrained: the profile may record
//     a reference without the sub-target that was supplied at install.
//  4. Two present revisions match iff one is a prefix of the other
//     (case-sensitive). Prefix relation, not equality, because recorded
//     revisions are canonicalized to full length while requests commonly
//     abbreviate them.
//  5. A missing revision on either side never matches: two distinct
//     unpinned references must not be considered equal.
//
// Malformed references never match anything and never cause a panic.
func Match(a, b string) bool {
	if a == b {
		return true
	}

	ra, err := Parse(a)
	if err != nil {
		return false
	}
	rb, err := Parse(b)
	if err != nil {
		return false
	}

	if ra.BaseLocation != rb.BaseLocation {
		return false
	}

	if ra.SubTarget != "" && rb.SubTarget != "" && ra.SubTarget != rb.SubTarget {
		return false
	}

	if ra.Revision != "" && rb.Revision != "" {
		return strings.HasPrefix(ra.Revision, rb.Revision) ||
			strings.HasPrefix(rb.Revision, ra.Revision)
	}

	return false
}

// String reassembles the reference into its canonical textual form.
func (r Ref) String() string {
	var b strings.Builder
	b.WriteString(r.BaseLocation)
	if r.Revision != "" {
		b.WriteString("/")
		b.WriteString(r.Revision)
	}
	if r.SubTarget != "" {
		b.WriteString("#")
		b.WriteString(r.SubTarget)
	}
	return b.String()
}

// lastUnescapedHash returns the index of the last '#' not preceded by a
// backslash, or -1 if none exists.
func lastUnescapedHash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '#' && (i == 0 || s[i-1] != '\\') {
			return i
		}
	}
	return -1
}

// isRevisionToken reports whether a path segment looks like a content
// hash: non-empty and consisting solely of hexadecimal digits. Branch and
// tag names containing non-hex characters stay part of the base location.
func isRevisionToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
