package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// uninstallCommand creates the uninstall command.
func (c *CLI) uninstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall <tool>",
		Short: "Remove a tool's entries from the profile",
		Long: `Uninstall removes the profile entries matching the tool name,
including numeric-suffix duplicates created by repeated registration.

The nix store artifacts themselves are left in place and reclaimed by
garbage collection once nothing references them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := parseToolSpec(args[0])
			if err != nil {
				return err
			}
			if spec.Version != "" {
				return fmt.Errorf("uninstall takes a bare tool name, not %q", args[0])
			}

			n := c.newNix()
			_, reader := c.newResolver(n)

			if reader.Remove(cmd.Context(), spec.Name) {
				printSuccess("Removed %s from the profile", StyleHighlight.Render(spec.Name))
				return nil
			}
			printWarning("could not remove %s, see log output", spec.Name)
			return nil
		},
	}
	return cmd
}
