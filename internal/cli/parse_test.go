package cli

import (
	"testing"

	"github.com/kenbanks-peng/mise-nix/pkg/errors"
)

func TestParseToolSpec(t *testing.T) {
	tests := []struct {
		name        string
		arg         string
		wantTool    string
		wantVersion string
		wantErr     bool
	}{
		{"bare tool", "ripgrep", "ripgrep", "", false},
		{"tool with version", "ripgrep@14.1.0", "ripgrep", "14.1.0", false},
		{"tool with prerelease version", "node@20.0.0-rc.1", "node", "20.0.0-rc.1", false},
		{"dotted tool name", "vscode-extensions.foo.bar@1.0.0", "vscode-extensions.foo.bar", "1.0.0", false},

		{"empty", "", "", "", true},
		{"empty version after at", "ripgrep@", "", "", true},
		{"empty tool before at", "@1.0.0", "", "", true},
		{"tool with spaces", "rip grep", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := parseToolSpec(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseToolSpec(%q) expected error, got %+v", tt.arg, spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseToolSpec(%q) unexpected error: %v", tt.arg, err)
			}
			if spec.Name != tt.wantTool {
				t.Errorf("Name = %q, want %q", spec.Name, tt.wantTool)
			}
			if spec.Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", spec.Version, tt.wantVersion)
			}
		})
	}
}

func TestParseToolSpecErrorCode(t *testing.T) {
	_, err := parseToolSpec("bad name")
	if err == nil {
		t.Fatal("expected error for tool name with space")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidTool {
		t.Errorf("code = %q, want %q", code, errors.ErrCodeInvalidTool)
	}
}

func TestToolSpecString(t *testing.T) {
	if got := (ToolSpec{Name: "ripgrep"}).String(); got != "ripgrep" {
		t.Errorf("String() = %q, want %q", got, "ripgrep")
	}
	if got := (ToolSpec{Name: "ripgrep", Version: "14.1.0"}).String(); got != "ripgrep@14.1.0" {
		t.Errorf("String() = %q, want %q", got, "ripgrep@14.1.0")
	}
}

func TestBuildReference(t *testing.T) {
	registry := "github:example/registry"

	tests := []struct {
		name string
		spec ToolSpec
		want string
	}{
		{"bare tool", ToolSpec{Name: "ripgrep"}, "github:example/registry#ripgrep"},
		{"versioned tool", ToolSpec{Name: "ripgrep", Version: "14.1.0"}, `github:example/registry#ripgrep."14.1.0"`},
		{"prerelease version quoted", ToolSpec{Name: "node", Version: "20.0.0-rc.1"}, `github:example/registry#node."20.0.0-rc.1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildReference(registry, tt.spec); got != tt.want {
				t.Errorf("buildReference() = %q, want %q", got, tt.want)
			}
		})
	}
}
