package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/tui"
)

func newHealCmd() *cobra.Command {
	var (
		path       string
		apply      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "heal",
		Short: "Compute configuration changes for failing quality checks",
		Long:  "Validate the snapshot and, when checks fail, compute the healing actions. Dry run by default; --apply persists the softened configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newRunService(cmd.Context(), path, false)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.Heal(cmd.Context(), apply)
			if err != nil {
				return fmt.Errorf("heal failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHealingResult(result))
			if result.Applied() && !apply {
				fmt.Fprintln(cmd.OutOrStdout(), "  Dry run: re-run with --apply to persist these changes.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Pipeline directory")
	cmd.Flags().BoolVar(&apply, "apply", false, "Persist the healed configuration")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
