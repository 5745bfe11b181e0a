package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

var verbose bool

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kintsugi",
		Short:         "Self-healing data quality pipeline",
		Long:          "Kintsugi validates dataset snapshots against a quality contract, detects statistical drift, and heals its own configuration when checks fail.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newDriftCmd())
	cmd.AddCommand(newHealCmd())
	cmd.AddCommand(newIncidentsCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
