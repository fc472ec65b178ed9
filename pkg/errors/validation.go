package errors

import (
	"strings"
	"unicode"
)

// ValidateToolName validates a tool identifier for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
//
// Registry-specific attribute path validation is done separately when the
// request is mapped to a flake reference.
func ValidateToolName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTool, "tool name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidTool, "tool name too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTool, "tool name contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidTool, "tool name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateVersion validates a version string supplied on the command line.
// Versions are opaque to mise-nix beyond these safety checks; the registry
// flake decides what versions exist.
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidVersion, "version cannot be empty")
	}

	if len(version) > 128 {
		return New(ErrCodeInvalidVersion, "version too long (max 128 characters)")
	}

	for _, r := range version {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidVersion, "version contains invalid characters")
		}
	}

	return nil
}
