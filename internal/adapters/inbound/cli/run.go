package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/tui"
	"github.com/kintsugidata/kintsugi/internal/application"
)

func newRunCmd() *cobra.Command {
	var (
		path        string
		label       string
		description string
		jsonOutput  bool
		ciMode      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one full pipeline run",
		Long:  "Load the snapshot, validate quality, check drift on success, and heal the configuration and retry once on failure. Every run appends incidents to the audit trail.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newRunService(cmd.Context(), path, true)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.Run(cmd.Context(), application.RunOptions{
				Label:       label,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("run failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderRunResult(result))
			}

			if ciMode && !result.Succeeded() {
				return fmt.Errorf("pipeline run finished with outcome %s", result.Outcome)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Pipeline directory")
	cmd.Flags().StringVar(&label, "label", "run", "Run label used in the run ID")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description recorded on incidents")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 unless the run succeeds")

	return cmd
}
