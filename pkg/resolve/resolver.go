// Package resolve implements the reconciliation engine: given a build
// reference, it decides whether the artifact already exists in the
// persistent profile, builds it exactly once when it does not, and
// registers the result.
//
// The engine is idempotent and side-effect-minimal on repeat calls:
// resolving a reference that matches an existing profile entry never
// invokes the external builder. No lock is held across the build, so
// concurrent resolutions of different references proceed without
// blocking; the narrow race where two processes build the same
// reference duplicates work but not correctness, because the second
// registration is tolerated as a no-op.
package resolve

import (
	"context"
	stderrors "errors"

	"github.com/charmbracelet/log"

	"github.com/kenbanks-peng/mise-nix/pkg/errors"
	"github.com/kenbanks-peng/mise-nix/pkg/nix"
	"github.com/kenbanks-peng/mise-nix/pkg/profile"
)

// Resolver reconciles build references against the persistent profile.
type Resolver struct {
	nix     nix.Nix
	profile *profile.Reader
	logger  *log.Logger
}

// New creates a resolver backed by the given nix interface and profile
// reader.
func New(n nix.Nix, p *profile.Reader, logger *log.Logger) *Resolver {
	return &Resolver{nix: n, profile: p, logger: logger}
}

// ResolveAndRegister resolves a build reference to its artifact paths.
//
// The per-call state machine:
//  1. Check: a profile entry matching ref returns its recorded store
//     paths immediately, with zero builder invocations.
//  2. Build: on miss, the external builder realizes all outputs. A
//     non-zero exit or empty output aborts with BUILD_FAILED carrying
//     the builder's raw diagnostic.
//  3. Outputs: a successful build that reports no absolute artifact
//     paths aborts with NO_OUTPUTS.
//  4. Register: registration failures after a successful build are
//     downgraded to warnings. The artifact exists on disk and is
//     usable even if profile bookkeeping lags; "already installed"
//     means a concurrent install of the same reference won the race,
//     which is equivalent to success.
//  5. The build's own outputs are returned, not a post-registration
//     re-listing, avoiding an extra query and its staleness window.
func (r *Resolver) ResolveAndRegister(ctx context.Context, ref, versionHint string) ([]string, error) {
	paths, found, err := r.profile.FindByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if found {
		r.logger.Debug("reference already registered, skipping build",
			"ref", ref, "version", versionHint)
		return paths, nil
	}

	r.logger.Debug("reference not in profile, building", "ref", ref, "version", versionHint)

	outputs, err := r.nix.Build(ctx, ref)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBuildFailed, err, "building %s", ref)
	}
	if len(outputs) == 0 {
		return nil, errors.New(errors.ErrCodeNoOutputs, "build of %s produced no usable outputs", ref)
	}

	if err := r.nix.Register(ctx, ref); err != nil {
		if stderrors.Is(err, nix.ErrAlreadyInstalled) {
			r.logger.Debug("reference registered concurrently, treating as success", "ref", ref)
		} else {
			r.logger.Warn("profile registration failed, artifact remains usable",
				"ref", ref, "error", err)
		}
	}

	return outputs, nil
}

// IsRegistered reports whether the reference or entry name is present
// in the profile.
func (r *Resolver) IsRegistered(ctx context.Context, refOrName string) (bool, error) {
	return r.profile.IsRegistered(ctx, refOrName)
}
