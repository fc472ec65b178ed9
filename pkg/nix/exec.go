package nix

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kenbanks-peng/mise-nix/pkg/errors"
)

// ErrAlreadyInstalled is returned by Register when the profile already
// contains an entry for the reference. Callers treat this as a benign
// race with a concurrent install of the same reference.
var ErrAlreadyInstalled = stderrors.New("already installed in profile")

// experimentalFeatures is passed on every invocation so mise-nix works
// against stock nix installations that have not enabled flakes globally.
var experimentalFeatures = []string{
	"--extra-experimental-features", "nix-command flakes",
}

// Compile-time check that CLI implements Nix.
var _ Nix = (*CLI)(nil)

// CLI implements Nix by executing the nix binary.
type CLI struct {
	bin     string
	profile string
	logger  *log.Logger
}

// NewCLI creates a subprocess-backed Nix adapter.
// bin is the nix binary name or path; profile is the dedicated profile
// location every profile operation is scoped to.
func NewCLI(bin, profile string, logger *log.Logger) *CLI {
	return &CLI{bin: bin, profile: profile, logger: logger}
}

// Build executes 'nix build <ref> --no-link --print-out-paths' and
// collects every output line denoting an absolute store path.
func (c *CLI) Build(ctx context.Context, ref string) ([]string, error) {
	stdout, err := c.run(ctx, "build", ref, "--no-link", "--print-out-paths")
	if err != nil {
		return nil, err
	}

	return parseOutPaths(stdout), nil
}

// parseOutPaths extracts the absolute store paths from build output,
// skipping progress noise and blank lines.
func parseOutPaths(stdout []byte) []string {
	var paths []string
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "/") {
			paths = append(paths, line)
		}
	}
	return paths
}

// Register executes 'nix profile install <ref>' against the dedicated
// profile. An "already installed" diagnostic maps to ErrAlreadyInstalled.
func (c *CLI) Register(ctx context.Context, ref string) error {
	_, err := c.run(ctx, "profile", "install", ref, "--profile", c.profile)
	if err != nil {
		if strings.Contains(err.Error(), "already installed") ||
			strings.Contains(err.Error(), "already provides") {
			return ErrAlreadyInstalled
		}
		return err
	}
	return nil
}

// ListProfile executes 'nix profile list --json'. A profile that has
// never been written (fresh install) yields nil without error rather
// than asking nix to materialize it.
func (c *CLI) ListProfile(ctx context.Context) ([]byte, error) {
	if _, err := os.Lstat(c.profile); os.IsNotExist(err) {
		return nil, nil
	}

	stdout, err := c.run(ctx, "profile", "list", "--json", "--profile", c.profile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProfileList, err, "listing profile %s", c.profile)
	}
	return stdout, nil
}

// RemoveEntry executes 'nix profile remove <pattern>' against the
// dedicated profile. The caller decides whether a failure is fatal.
func (c *CLI) RemoveEntry(ctx context.Context, pattern string) error {
	_, err := c.run(ctx, "profile", "remove", "--profile", c.profile, "--regex", pattern)
	return err
}

// Metadata executes 'nix flake metadata <ref> --json' and decodes the
// locked reference information.
func (c *CLI) Metadata(ctx context.Context, ref string) (*FlakeMetadata, error) {
	stdout, err := c.run(ctx, "flake", "metadata", ref, "--json")
	if err != nil {
		return nil, err
	}

	var meta FlakeMetadata
	if err := json.Unmarshal(stdout, &meta); err != nil {
		return nil, fmt.Errorf("parse flake metadata for %s: %w", ref, err)
	}
	return &meta, nil
}

// Version executes 'nix --version' and returns the bare version string,
// e.g. "2.18.1" from "nix (Nix) 2.18.1".
func (c *CLI) Version(ctx context.Context) (string, error) {
	stdout, err := c.run(ctx, "--version")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNixNotFound, err, "querying nix version")
	}

	fields := strings.Fields(strings.TrimSpace(string(stdout)))
	if len(fields) == 0 {
		return "", errors.New(errors.ErrCodeNixNotFound, "empty output from nix --version")
	}
	return fields[len(fields)-1], nil
}

// run executes the nix binary with the experimental-feature flags
// prepended, capturing stdout and folding stderr into the error so the
// builder's own diagnostic text reaches the user verbatim.
func (c *CLI) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append(append([]string{}, experimentalFeatures...), args...)

	start := time.Now()
	defer func() {
		if c.logger != nil {
			c.logger.Debug("nix invocation finished",
				"args", strings.Join(args, " "),
				"duration", time.Since(start).Round(time.Millisecond))
		}
	}()

	cmd := exec.CommandContext(ctx, c.bin, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("nix %s failed: %s", args[0], strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("nix %s failed: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}
