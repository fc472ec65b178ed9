package resolve

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/kenbanks-peng/mise-nix/pkg/errors"
	"github.com/kenbanks-peng/mise-nix/pkg/nix"
	"github.com/kenbanks-peng/mise-nix/pkg/profile"
)

// fakeNix is a stateful substitute for the external nix installation.
// Register mutates the fake profile so a subsequent listing observes
// the entry, mirroring the real build-then-register sequence.
type fakeNix struct {
	buildPaths  []string
	buildErr    error
	registerErr error

	buildCalls    int
	registerCalls int
	registered    []string
}

var _ nix.Nix = (*fakeNix)(nil)

func (f *fakeNix) Build(ctx context.Context, ref string) ([]string, error) {
	f.buildCalls++
	return f.buildPaths, f.buildErr
}

func (f *fakeNix) Register(ctx context.Context, ref string) error {
	f.registerCalls++
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, ref)
	return nil
}

func (f *fakeNix) ListProfile(ctx context.Context) ([]byte, error) {
	if len(f.registered) == 0 {
		return nil, nil // uninitialized profile
	}

	var elements []string
	for i, ref := range f.registered {
		url, attrPath := ref, ""
		if idx := strings.LastIndex(ref, "#"); idx >= 0 {
			url, attrPath = ref[:idx], ref[idx+1:]
		}
		elements = append(elements, fmt.Sprintf(
			`"entry-%d": {"originalUrl": %q, "attrPath": %q, "storePaths": ["/nix/store/reg-%d"]}`,
			i, url, attrPath, i))
	}
	manifest := fmt.Sprintf(`{"version": 2, "elements": {%s}}`, strings.Join(elements, ","))
	return []byte(manifest), nil
}

func (f *fakeNix) RemoveEntry(ctx context.Context, pattern string) error { return nil }

func (f *fakeNix) Metadata(ctx context.Context, ref string) (*nix.FlakeMetadata, error) {
	return nil, stderrors.New("not implemented")
}

func (f *fakeNix) Version(ctx context.Context) (string, error) { return "2.18.1", nil }

func newResolver(fake *fakeNix) *Resolver {
	logger := log.New(io.Discard)
	return New(fake, profile.NewReader(fake, logger), logger)
}

func TestResolveBuildsOnEmptyProfile(t *testing.T) {
	// Empty/uninitialized profile: resolving any reference always
	// builds and then registers exactly once.
	fake := &fakeNix{buildPaths: []string{"/nix/store/abc-tool"}}
	r := newResolver(fake)

	paths, err := r.ResolveAndRegister(context.Background(), "github:Org/repo/abcdef#tool", "1.0.0")
	require.NoError(t, err)
	require.Equal(t, []string{"/nix/store/abc-tool"}, paths)
	require.Equal(t, 1, fake.buildCalls)
	require.Equal(t, 1, fake.registerCalls)
}

func TestResolveIsIdempotent(t *testing.T) {
	// Two calls with no intervening profile mutation invoke the
	// builder at most once.
	fake := &fakeNix{buildPaths: []string{"/nix/store/abc-tool"}}
	r := newResolver(fake)
	ctx := context.Background()

	first, err := r.ResolveAndRegister(ctx, "github:Org/repo/abcdef#tool", "1.0.0")
	require.NoError(t, err)
	require.Equal(t, 1, fake.buildCalls)

	second, err := r.ResolveAndRegister(ctx, "github:Org/repo/abcdef#tool", "1.0.0")
	require.NoError(t, err)
	require.Equal(t, 1, fake.buildCalls, "second resolve must not rebuild")
	require.NotEmpty(t, second)
	_ = first
}

func TestResolveShortHashHitsFullHashEntry(t *testing.T) {
	// Profile records the full-length revision at install time; a
	// later request with the abbreviated hash returns the existing
	// store paths with zero build invocations.
	fake := &fakeNix{buildPaths: []string{"/nix/store/abc-tool"}}
	fake.registered = []string{"github:Org/repo/abcdef0123456789#tool"}
	r := newResolver(fake)

	paths, err := r.ResolveAndRegister(context.Background(), "github:Org/repo/abcdef#tool", "1.0.0")
	require.NoError(t, err)
	require.Equal(t, []string{"/nix/store/reg-0"}, paths)
	require.Zero(t, fake.buildCalls)
}

func TestResolveBuildFailure(t *testing.T) {
	fake := &fakeNix{buildErr: stderrors.New("nix build failed: error: attribute 'tool' missing")}
	r := newResolver(fake)

	_, err := r.ResolveAndRegister(context.Background(), "github:Org/repo/abcdef#tool", "1.0.0")
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrCodeBuildFailed))
	// The builder's raw diagnostic text surfaces to the caller.
	require.Contains(t, err.Error(), "attribute 'tool' missing")
	require.Zero(t, fake.registerCalls, "no registration after a failed build")
}

func TestResolveNoOutputs(t *testing.T) {
	fake := &fakeNix{buildPaths: nil}
	r := newResolver(fake)

	_, err := r.ResolveAndRegister(context.Background(), "github:Org/repo/abcdef#tool", "1.0.0")
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrCodeNoOutputs))
	require.Zero(t, fake.registerCalls)
}

func TestResolveRegistrationFailureIsDowngraded(t *testing.T) {
	// A registration failure after a successful build is a warning:
	// the artifact exists on disk and its paths are still returned.
	fake := &fakeNix{
		buildPaths:  []string{"/nix/store/abc-tool"},
		registerErr: stderrors.New("profile manifest locked"),
	}
	r := newResolver(fake)

	paths, err := r.ResolveAndRegister(context.Background(), "github:Org/repo/abcdef#tool", "1.0.0")
	require.NoError(t, err)
	require.Equal(t, []string{"/nix/store/abc-tool"}, paths)
}

func TestResolveConcurrentRegistrationTolerated(t *testing.T) {
	fake := &fakeNix{
		buildPaths:  []string{"/nix/store/abc-tool"},
		registerErr: nix.ErrAlreadyInstalled,
	}
	r := newResolver(fake)

	paths, err := r.ResolveAndRegister(context.Background(), "github:Org/repo/abcdef#tool", "1.0.0")
	require.NoError(t, err)
	require.Equal(t, []string{"/nix/store/abc-tool"}, paths)
}

func TestResolveReturnsBuildOutputsNotRelisting(t *testing.T) {
	// Step 5: the outputs come from the build itself, not from a
	// post-registration listing.
	fake := &fakeNix{buildPaths: []string{"/nix/store/fresh-build"}}
	r := newResolver(fake)

	paths, err := r.ResolveAndRegister(context.Background(), "github:Org/repo/abcdef#tool", "1.0.0")
	require.NoError(t, err)
	require.Equal(t, []string{"/nix/store/fresh-build"}, paths)
}

func TestIsRegistered(t *testing.T) {
	fake := &fakeNix{}
	fake.registered = []string{"github:Org/repo/abcdef0123456789#tool"}
	r := newResolver(fake)

	ok, err := r.IsRegistered(context.Background(), "github:Org/repo/abcdef#tool")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.IsRegistered(context.Background(), "github:Other/repo/abcdef#tool")
	require.NoError(t, err)
	require.False(t, ok)
}
