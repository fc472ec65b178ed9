// Package cli implements the mise-nix command-line interface.
//
// This package provides commands for installing, uninstalling and
// listing tools tracked in the dedicated nix profile, plus diagnostics
// for the surrounding nix installation. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kenbanks-peng/mise-nix/pkg/buildinfo"
	"github.com/kenbanks-peng/mise-nix/pkg/cache"
	"github.com/kenbanks-peng/mise-nix/pkg/config"
	"github.com/kenbanks-peng/mise-nix/pkg/nix"
	"github.com/kenbanks-peng/mise-nix/pkg/profile"
	"github.com/kenbanks-peng/mise-nix/pkg/resolve"
)

// appName is the application name used for directories and display.
const appName = "mise-nix"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config
}

// New creates a new CLI instance with a default logger and the
// configuration built at process start.
func New(w io.Writer, level log.Level, cfg *config.Config) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "mise-nix installs tools through nix without redundant rebuilds",
		Long:         `mise-nix resolves tool requests to already-built nix store artifacts, building and registering each distinct reference at most once in a dedicated profile.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.installCommand())
	root.AddCommand(c.uninstallCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.doctorCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newNix creates the subprocess-backed nix adapter for this run.
func (c *CLI) newNix() nix.Nix {
	return nix.NewCLI(c.Config.NixBin, c.Config.ProfilePath, c.Logger)
}

// newCachedNix wraps the adapter with the flake metadata cache unless
// caching is disabled.
func (c *CLI) newCachedNix(noCache bool) (nix.Nix, error) {
	base := c.newNix()
	if noCache {
		return nix.WithMetadataCache(base, cache.NewNullCache(), 0), nil
	}

	fileCache, err := cache.NewFileCache(c.Config.CacheDir)
	if err != nil {
		return nil, err
	}
	return nix.WithMetadataCache(base, fileCache, c.Config.CacheTTL.Std()), nil
}

// newResolver wires the reconciliation engine for a command run.
func (c *CLI) newResolver(n nix.Nix) (*resolve.Resolver, *profile.Reader) {
	reader := profile.NewReader(n, c.Logger)
	return resolve.New(n, reader, c.Logger), reader
}
