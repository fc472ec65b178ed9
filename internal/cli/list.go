package cli

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kenbanks-peng/mise-nix/pkg/profile"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var (
		flagJSON        bool
		flagInteractive bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profile entries",
		Long: `List shows the entries currently registered in the profile with
their flake origins and store paths.

An uninitialized profile is reported as empty, not as an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := c.newNix()
			_, reader := c.newResolver(n)

			entries, err := reader.Entries(cmd.Context())
			if err != nil {
				return err
			}

			if flagJSON {
				return printEntriesJSON(entries)
			}
			if flagInteractive {
				return c.runEntryBrowser(entries)
			}

			if len(entries) == 0 {
				printInfo("profile is empty")
				return nil
			}
			printEntries(entries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagJSON, "json", false, "output entries as JSON")
	cmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "browse entries interactively")
	return cmd
}

func printEntriesJSON(entries []profile.Entry) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func printEntries(entries []profile.Entry) {
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Println(StyleTitle.Render(name))
		if e.OriginalURL != "" {
			printKeyValue("origin", e.OriginalURL)
		}
		if e.AttrPath != "" {
			printKeyValue("attribute", e.AttrPath)
		}
		for _, p := range e.StorePaths {
			printPath(p)
		}
		printNewline()
	}
	printDetail("%d entries", len(entries))
}

func (c *CLI) runEntryBrowser(entries []profile.Entry) error {
	if len(entries) == 0 {
		printInfo("profile is empty")
		return nil
	}
	model := newEntryListModel(entries)
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("interactive browser failed: %w", err)
	}
	if m, ok := final.(entryListModel); ok && m.selected != nil {
		printEntries([]profile.Entry{*m.selected})
	}
	return nil
}
