package nix

import (
	"strconv"
	"strings"

	"github.com/kenbanks-peng/mise-nix/pkg/errors"
)

// MinNixVersion is the minimum nix version required by mise-nix.
// Flakes and the unified 'nix' command stabilized enough for profile
// operations in 2.4. Update this when mise-nix starts relying on newer
// profile behaviors.
const MinNixVersion = "2.4.0"

// CheckVersion returns nil if current >= MinNixVersion, an error with
// code NIX_VERSION_UNSUPPORTED otherwise.
func CheckVersion(current string) error {
	if CompareVersions(current, MinNixVersion) < 0 {
		return errors.New(errors.ErrCodeNixUnsupported,
			"nix %s or newer required, found %s", MinNixVersion, current)
	}
	return nil
}

// CompareVersions compares two version strings in X.Y.Z form.
// Returns -1 if a < b, 0 if equal, 1 if a > b. Missing components are
// treated as zero, so "2.18" equals "2.18.0".
func CompareVersions(a, b string) int {
	partsA := strings.Split(strings.TrimPrefix(a, "v"), ".")
	partsB := strings.Split(strings.TrimPrefix(b, "v"), ".")

	for i := 0; i < 3; i++ {
		numA, _ := strconv.Atoi(versionComponent(partsA, i))
		numB, _ := strconv.Atoi(versionComponent(partsB, i))
		if numA < numB {
			return -1
		}
		if numA > numB {
			return 1
		}
	}
	return 0
}

func versionComponent(parts []string, i int) string {
	if i < len(parts) {
		// Drop pre-release suffixes like "1pre20240101".
		digits := parts[i]
		for j := 0; j < len(digits); j++ {
			if digits[j] < '0' || digits[j] > '9' {
				return digits[:j]
			}
		}
		return digits
	}
	return "0"
}
