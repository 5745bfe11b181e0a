package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/tui"
)

func newDriftCmd() *cobra.Command {
	var (
		path       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Compare numeric columns against the reference profile",
		Long:  "Profile the snapshot's numeric columns and compare their means against the stored baseline. The first invocation creates the baseline.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newRunService(cmd.Context(), path, false)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := svc.DetectDrift(cmd.Context())
			if err != nil {
				return fmt.Errorf("drift detection failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderDriftReport(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Pipeline directory")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
