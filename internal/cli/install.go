package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kenbanks-peng/mise-nix/pkg/resolve"
)

// installCommand creates the install command.
func (c *CLI) installCommand() *cobra.Command {
	var (
		flagRef     string
		flagNoCache bool
	)

	cmd := &cobra.Command{
		Use:   "install [tool[@version]]",
		Short: "Build a tool and register it in the profile",
		Long: `Install resolves a tool request to nix store artifacts, building the
flake reference when no matching profile entry exists and registering
the result so later requests reuse it.

The tool argument is resolved against the configured registry. Pass
--ref to install an arbitrary flake reference directly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, display, version, err := c.resolveTarget(args, flagRef)
			if err != nil {
				return err
			}

			n, err := c.newCachedNix(flagNoCache)
			if err != nil {
				return err
			}
			resolver, _ := c.newResolver(n)

			ctx := cmd.Context()
			paths, err := withSpinner(ctx, "Building "+display, func() ([]string, error) {
				return resolver.ResolveAndRegister(ctx, ref, version)
			})
			if err != nil {
				return err
			}

			primary, hasBin, err := resolve.Choose(paths)
			if err != nil {
				return err
			}

			printSuccess("Installed %s", StyleHighlight.Render(display))
			printPath(primary)
			if !hasBin {
				printWarning("selected output has no bin directory")
			}
			if len(paths) > 1 {
				printDetail("%d outputs total", len(paths))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagRef, "ref", "", "install a flake reference directly, bypassing the registry")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "bypass the flake metadata cache")
	return cmd
}

// resolveTarget turns the positional tool argument or the --ref flag
// into the flake reference to resolve, a display name, and the version
// hint used for profile entry naming.
func (c *CLI) resolveTarget(args []string, flagRef string) (ref, display, version string, err error) {
	if flagRef != "" {
		if len(args) > 0 {
			return "", "", "", fmt.Errorf("cannot combine a tool argument with --ref")
		}
		return flagRef, flagRef, "", nil
	}
	if len(args) == 0 {
		return "", "", "", fmt.Errorf("a tool argument or --ref is required")
	}

	spec, err := parseToolSpec(args[0])
	if err != nil {
		return "", "", "", err
	}
	return buildReference(c.Config.Registry, spec), spec.String(), spec.Version, nil
}
