package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/kenbanks-peng/mise-nix/pkg/nix"
)

// doctorCommand creates the doctor command.
func (c *CLI) doctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the nix installation and profile state",
		Long: `Doctor checks that the nix binary is reachable, that its version
supports flakes and profiles, and reports the state of the dedicated
profile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			healthy := true

			binPath, err := exec.LookPath(c.Config.NixBin)
			if err != nil {
				printError("nix binary %q not found in PATH", c.Config.NixBin)
				printNextStep("install nix", "https://nixos.org/download")
				return fmt.Errorf("nix is not installed")
			}
			printSuccess("nix binary: %s", binPath)

			n := c.newNix()
			version, err := n.Version(ctx)
			if err != nil {
				printError("could not determine nix version: %v", err)
				healthy = false
			} else if err := nix.CheckVersion(version); err != nil {
				printError("nix %s is too old, %s or newer is required", version, nix.MinNixVersion)
				healthy = false
			} else {
				printSuccess("nix version: %s", version)
			}

			if _, err := os.Lstat(c.Config.ProfilePath); err != nil {
				if os.IsNotExist(err) {
					printInfo("profile not initialized yet: %s", c.Config.ProfilePath)
					printDetail("it is created on the first install")
				} else {
					printWarning("cannot inspect profile %s: %v", c.Config.ProfilePath, err)
					healthy = false
				}
			} else {
				printSuccess("profile: %s", c.Config.ProfilePath)
				_, reader := c.newResolver(n)
				entries, err := reader.Entries(ctx)
				if err != nil {
					printWarning("profile manifest unreadable: %v", err)
					healthy = false
				} else {
					printDetail("%d entries registered", len(entries))
				}
			}

			printNewline()
			if !healthy {
				return fmt.Errorf("problems found, see output above")
			}
			printSuccess("everything looks good")
			return nil
		},
	}
	return cmd
}
