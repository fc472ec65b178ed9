package cli

import (
	"fmt"
	"strings"

	"github.com/kenbanks-peng/mise-nix/pkg/errors"
)

// ToolSpec is a parsed tool request from the command line.
type ToolSpec struct {
	// Name is the tool name, e.g. "ripgrep".
	Name string
	// Version is the requested version, or "" when unspecified.
	Version string
}

// String returns the canonical tool@version form.
func (t ToolSpec) String() string {
	if t.Version == "" {
		return t.Name
	}
	return t.Name + "@" + t.Version
}

// parseToolSpec parses a "tool" or "tool@version" argument.
func parseToolSpec(arg string) (ToolSpec, error) {
	name, version, found := strings.Cut(arg, "@")
	if found && version == "" {
		return ToolSpec{}, errors.New(errors.ErrCodeInvalidTool, "invalid tool spec %q: empty version after '@'", arg)
	}
	if err := errors.ValidateToolName(name); err != nil {
		return ToolSpec{}, err
	}
	if strings.ContainsAny(name, " \t") {
		return ToolSpec{}, errors.New(errors.ErrCodeInvalidTool, "invalid tool name %q: whitespace is not allowed", name)
	}
	if version != "" {
		if err := errors.ValidateVersion(version); err != nil {
			return ToolSpec{}, err
		}
	}
	return ToolSpec{Name: name, Version: version}, nil
}

// buildReference turns a tool spec into a flake reference against the
// configured registry. Versions are quoted in the attribute path so
// dots in the version do not split the attribute:
//
//	ripgrep@14.1.0 -> github:org/registry#ripgrep."14.1.0"
//	ripgrep        -> github:org/registry#ripgrep
func buildReference(registry string, spec ToolSpec) string {
	if spec.Version == "" {
		return registry + "#" + spec.Name
	}
	return fmt.Sprintf("%s#%s.%q", registry, spec.Name, spec.Version)
}
