// Package pkg provides the core libraries for mise-nix tool resolution.
//
// # Overview
//
// mise-nix resolves abstract tool requests (tool + version) into built nix
// store artifacts, registering each distinct flake reference at most once in
// a dedicated nix profile so repeated requests skip the build entirely. The
// pkg directory is organized into these areas:
//
//  1. [flakeref] - Flake reference parsing and equivalence matching
//  2. [profile] - Typed profile manifest reading and entry naming
//  3. [resolve] - Output selection and the reconciliation engine
//  4. [nix] - Subprocess adapter around the external nix installation
//  5. [cache] - File-backed metadata cache with TTL expiry
//  6. [config] - TOML + environment configuration
//  7. [errors] - Code-based error taxonomy
//
// # Architecture
//
// The typical flow of an install request:
//
//	tool@version argument
//	         ↓
//	    [flakeref] package (registry reference, equivalence matching)
//	         ↓
//	    [profile] package (is it already registered?)
//	         ↓
//	    [nix] package (build + register on a miss)
//	         ↓
//	    [resolve] package (pick the primary output)
//	         ↓
//	    nix store path(s)
//
// # Quick Start
//
// Resolve a reference against a profile, building only when needed:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/charmbracelet/log"
//	    "github.com/kenbanks-peng/mise-nix/pkg/nix"
//	    "github.com/kenbanks-peng/mise-nix/pkg/profile"
//	    "github.com/kenbanks-peng/mise-nix/pkg/resolve"
//	)
//
//	logger := log.New(os.Stderr)
//	n := nix.NewCLI("nix", "/home/me/.local/state/mise-nix/profile", logger)
//	reader := profile.NewReader(n, logger)
//	resolver := resolve.New(n, reader, logger)
//
//	paths, err := resolver.ResolveAndRegister(context.Background(),
//	    "github:example/registry#ripgrep.\"14.1.0\"", "14.1.0")
//	if err != nil {
//	    // handle
//	}
//	primary, hasBin, err := resolve.Choose(paths)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                      # All tests
//	go test ./pkg/flakeref/...             # Specific package
//	NIX_INTEGRATION_TESTS=1 go test ./pkg/nix/...  # Against a real nix
//
// [flakeref]: https://pkg.go.dev/github.com/kenbanks-peng/mise-nix/pkg/flakeref
// [profile]: https://pkg.go.dev/github.com/kenbanks-peng/mise-nix/pkg/profile
// [resolve]: https://pkg.go.dev/github.com/kenbanks-peng/mise-nix/pkg/resolve
// [nix]: https://pkg.go.dev/github.com/kenbanks-peng/mise-nix/pkg/nix
// [cache]: https://pkg.go.dev/github.com/kenbanks-peng/mise-nix/pkg/cache
// [config]: https://pkg.go.dev/github.com/kenbanks-peng/mise-nix/pkg/config
// [errors]: https://pkg.go.dev/github.com/kenbanks-peng/mise-nix/pkg/errors
package pkg
