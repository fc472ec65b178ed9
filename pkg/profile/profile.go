// Package profile reads and reconciles the persistent nix profile that
// tracks every artifact mise-nix has installed.
//
// The profile is owned by nix; mise-nix treats its serialization as a
// foreign schema and projects it into a typed model with optional
// fields. Unknown fields are ignored and missing fields degrade to zero
// values, so schema drift between nix releases does not break listing.
//
// mise-nix uses exactly one dedicated profile at a stable configured
// path. The shared system profile is never consulted; mixing the two
// conventions would make entries invisible to list and remove.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/kenbanks-peng/mise-nix/pkg/flakeref"
	"github.com/kenbanks-peng/mise-nix/pkg/nix"
)

// Entry is one persisted profile record.
type Entry struct {
	// Name is the profile's native key for the entry. It follows the
	// attribute naming of the installed flake output, with numeric
	// suffixes (-1, -2, ...) when the same attribute was installed
	// more than once.
	Name string `json:"name"`

	OriginalURL string   `json:"originalUrl"`
	URL         string   `json:"url"`
	AttrPath    string   `json:"attrPath"`
	StorePaths  []string `json:"storePaths"`
	Active      bool     `json:"active"`
	Priority    int      `json:"priority"`
}

// References returns the candidate source-reference strings recorded
// for the entry. The profile may record either the original
// (pre-resolution) URL or the locked URL, and the attribute path is
// stored separately, so both joined forms are candidates for matching.
func (e Entry) References() []string {
	var refs []string
	for _, url := range []string{e.OriginalURL, e.URL} {
		if url == "" {
			continue
		}
		if e.AttrPath != "" {
			refs = append(refs, fmt.Sprintf("%s#%s", url, e.AttrPath))
		} else {
			refs = append(refs, url)
		}
	}
	return refs
}

// manifest mirrors the envelope of 'nix profile list --json'.
type manifest struct {
	Version  int      `json:"version"`
	Elements elements `json:"elements"`
}

// elements decodes both serializations nix has shipped: an object keyed
// by entry name (schema v2 and later) and a plain array (v1). Object
// keys are folded into Entry.Name; document order is preserved so the
// first-match semantics follow the registry's native enumeration order.
type elements []Entry

func (e *elements) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*e = nil
		return nil
	}

	if trimmed[0] == '[' {
		var list []Entry
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*e = list
		return nil
	}

	// Keyed-object form: walk tokens to keep document order.
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("profile elements: expected object or array, got %v", tok)
	}

	var list []Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)

		var entry Entry
		if err := dec.Decode(&entry); err != nil {
			return err
		}
		entry.Name = name
		list = append(list, entry)
	}
	*e = list
	return nil
}

// ParseManifest decodes a profile snapshot into its entries. A nil or
// empty snapshot is a valid uninitialized profile, not a fault.
func ParseManifest(data []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse profile manifest: %w", err)
	}
	return m.Elements, nil
}

// Reader queries the persistent profile through the external nix
// interface. Listings are snapshots: any profile mutation invalidates a
// previous listing and callers must re-list.
type Reader struct {
	nix    nix.Nix
	logger *log.Logger
}

// NewReader creates a profile reader backed by the given nix interface.
func NewReader(n nix.Nix, logger *log.Logger) *Reader {
	return &Reader{nix: n, logger: logger}
}

// Entries lists the profile's current entries. An uninitialized profile
// yields an empty slice without error.
func (r *Reader) Entries(ctx context.Context) ([]Entry, error) {
	data, err := r.nix.ListProfile(ctx)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}

// FindByReference returns the store paths of the first entry whose
// recorded source reference matches ref, in the profile's native
// enumeration order. The second return value reports whether a match
// was found.
func (r *Reader) FindByReference(ctx context.Context, ref string) ([]string, bool, error) {
	entries, err := r.Entries(ctx)
	if err != nil {
		return nil, false, err
	}

	for _, entry := range entries {
		for _, candidate := range entry.References() {
			if flakeref.Match(ref, candidate) {
				return entry.StorePaths, true, nil
			}
		}
	}
	return nil, false, nil
}

// FindByName returns the first entry whose name equals name exactly.
// With numericSuffix, names carrying a numeric duplicate suffix
// (name-1, name-2, ...) match as well; the pattern is anchored on both
// ends so name-10 never matches as a suffix form of name-1.
func (r *Reader) FindByName(ctx context.Context, name string, numericSuffix bool) (*Entry, bool, error) {
	entries, err := r.Entries(ctx)
	if err != nil {
		return nil, false, err
	}

	pattern := "^" + regexp.QuoteMeta(name) + "$"
	if numericSuffix {
		pattern = "^" + regexp.QuoteMeta(name) + `(-[0-9]+)?$`
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, false, fmt.Errorf("entry name pattern: %w", err)
	}

	for i := range entries {
		if re.MatchString(entries[i].Name) {
			return &entries[i], true, nil
		}
	}
	return nil, false, nil
}

// IsRegistered reports whether the string, interpreted either as a
// build reference or as a profile entry name, matches any current
// entry.
func (r *Reader) IsRegistered(ctx context.Context, refOrName string) (bool, error) {
	if _, found, err := r.FindByReference(ctx, refOrName); err != nil {
		return false, err
	} else if found {
		return true, nil
	}

	_, found, err := r.FindByName(ctx, refOrName, true)
	return found, err
}

// Remove deletes all entries matching the removal pattern for tool.
// It is best-effort: an uninitialized profile is a silent no-op and an
// external removal failure is logged, never raised, so uninstall can
// proceed to downstream cleanup regardless. The return value reports
// whether the removal command completed cleanly.
func (r *Reader) Remove(ctx context.Context, tool string) bool {
	data, err := r.nix.ListProfile(ctx)
	if err == nil && data == nil {
		// Fresh install, nothing ever written.
		return true
	}

	if err := r.nix.RemoveEntry(ctx, RemovalPattern(tool)); err != nil {
		if r.logger != nil {
			r.logger.Warn("profile removal failed", "tool", tool, "error", err)
		}
		return false
	}
	return true
}
