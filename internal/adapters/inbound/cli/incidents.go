package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/incidentlog"
	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/tui"
)

func newIncidentsCmd() *cobra.Command {
	var (
		path       string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "incidents",
		Short: "Show the recorded incident trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			incidents, err := incidentlog.New(path).List()
			if err != nil {
				return fmt.Errorf("reading incidents: %w", err)
			}
			if limit > 0 && len(incidents) > limit {
				incidents = incidents[len(incidents)-limit:]
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(incidents)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderIncidents(incidents))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Pipeline directory")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the most recent N incidents")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
