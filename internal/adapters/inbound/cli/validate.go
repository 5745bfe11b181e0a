package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/tui"
)

func newValidateCmd() *cobra.Command {
	var (
		path       string
		jsonOutput bool
		ciMode     bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the quality checks once, without healing",
		Long:  "Load the snapshot and evaluate the quality contract. No incidents are recorded and the configuration is never modified.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newRunService(cmd.Context(), path, false)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := svc.Validate(cmd.Context())
			if err != nil {
				return fmt.Errorf("validate failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderQualityReport(report))
			}

			if ciMode && !report.Passing() {
				return fmt.Errorf("%d quality violation(s)", len(report.Violations))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Pipeline directory")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 when checks fail")

	return cmd
}
