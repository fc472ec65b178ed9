package resolve

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/kenbanks-peng/mise-nix/pkg/errors"
)

// candidate is one build output with its probed executable layout.
// Computed transiently; never persisted.
type candidate struct {
	path     string
	hasBin   bool
	binCount int
}

// Choose deterministically picks the primary artifact among a build's
// outputs and reports whether it ships executables.
//
// Outputs carrying a bin directory sort before outputs without one;
// among those, more executables sort first. Ties preserve input order,
// so the builder's own output ordering breaks remaining ambiguity.
//
// An empty input fails with NO_CANDIDATES. Upstream contracts make that
// impossible, but the build step could in principle report zero
// outputs, so the check stays.
func Choose(paths []string) (string, bool, error) {
	if len(paths) == 0 {
		return "", false, errors.New(errors.ErrCodeNoCandidates, "no build outputs to choose from")
	}

	candidates := make([]candidate, len(paths))
	for i, p := range paths {
		candidates[i] = probe(p)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].hasBin != candidates[j].hasBin {
			return candidates[i].hasBin
		}
		return candidates[i].binCount > candidates[j].binCount
	})

	return candidates[0].path, candidates[0].hasBin, nil
}

// probe inspects an output path for a bin directory and counts its
// entries. Probe failures degrade to "no executables" rather than
// erroring: a store path without a readable bin directory is a valid,
// common shape (libraries, fonts, editor extensions).
func probe(path string) candidate {
	binDir := filepath.Join(path, "bin")

	info, err := os.Stat(binDir)
	if err != nil || !info.IsDir() {
		return candidate{path: path}
	}

	names, err := os.ReadDir(binDir)
	if err != nil {
		return candidate{path: path}
	}

	return candidate{path: path, hasBin: true, binCount: len(names)}
}
