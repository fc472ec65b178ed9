package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kenbanks-peng/mise-nix/pkg/flakeref"
)

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		flagRef     string
		flagNoCache bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [tool[@version]]",
		Short: "Preview how a tool request resolves, without building",
		Long: `Resolve maps a tool request to its flake reference, looks up flake
metadata (locked URL and revision), and reports whether a matching
entry is already registered in the profile.

Nothing is built or modified.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, display, _, err := c.resolveTarget(args, flagRef)
			if err != nil {
				return err
			}

			parsed, err := flakeref.Parse(ref)
			if err != nil {
				return err
			}

			n, err := c.newCachedNix(flagNoCache)
			if err != nil {
				return err
			}
			_, reader := c.newResolver(n)
			ctx := cmd.Context()

			fmt.Println(StyleTitle.Render(display))
			printKeyValue("reference", ref)
			printKeyValue("base", parsed.BaseLocation)
			if parsed.Revision != "" {
				printKeyValue("revision", parsed.Revision)
			}
			if parsed.SubTarget != "" {
				printKeyValue("target", parsed.SubTarget)
			}

			meta, err := n.Metadata(ctx, ref)
			if err != nil {
				printWarning("metadata lookup failed: %v", err)
			} else {
				printKeyValue("locked", meta.LockedURL)
				if meta.Revision != "" {
					printKeyValue("locked rev", meta.Revision)
				}
				if meta.LastModified > 0 {
					printKeyValue("modified", time.Unix(meta.LastModified, 0).UTC().Format(time.RFC3339))
				}
			}

			registered, err := reader.IsRegistered(ctx, ref)
			if err != nil {
				return err
			}
			printRegistered(registered)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagRef, "ref", "", "resolve a flake reference directly, bypassing the registry")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "bypass the flake metadata cache")
	return cmd
}
