// Package nix models the external nix installation as a typed interface
// backed by a subprocess adapter.
//
// mise-nix never implements a build system: building an artifact from a
// reference is delegated to nix invoked as an opaque subprocess. This
// package only defines *which* operations are consumed and adapts their
// textual results into typed values. Keeping the surface behind the Nix
// interface lets the resolution engine run against a substitute
// implementation in tests.
package nix

import "context"

// FlakeMetadata describes a flake reference as resolved by nix.
type FlakeMetadata struct {
	Description  string `json:"description"`
	OriginalURL  string `json:"originalUrl"`
	ResolvedURL  string `json:"resolvedUrl"`
	LockedURL    string `json:"lockedUrl"`
	Revision     string `json:"revision"`
	LastModified int64  `json:"lastModified"`
}

// Nix is the contract with the external nix installation.
//
// All methods run to completion or fail outright; no cancellation beyond
// the passed context is defined for long-running builds.
type Nix interface {
	// Build realizes all outputs of the reference and returns their
	// absolute store paths. A non-zero exit or empty output is an error
	// carrying the builder's raw diagnostic text.
	Build(ctx context.Context, ref string) ([]string, error)

	// Register records the reference in the persistent profile.
	// Attempting to register an already-present entry returns
	// ErrAlreadyInstalled.
	Register(ctx context.Context, ref string) error

	// ListProfile returns the profile's serialized snapshot. An
	// uninitialized profile yields nil without error.
	ListProfile(ctx context.Context) ([]byte, error)

	// RemoveEntry removes profile entries whose name matches the
	// anchored regular expression pattern.
	RemoveEntry(ctx context.Context, pattern string) error

	// Metadata resolves a flake reference to its locked form without
	// building anything.
	Metadata(ctx context.Context, ref string) (*FlakeMetadata, error)

	// Version reports the version of the nix binary.
	Version(ctx context.Context) (string, error)
}
