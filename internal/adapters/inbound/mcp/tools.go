package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/baseline"
	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/configstore"
	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/gitinfo"
	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/incidentlog"
	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/source"
	"github.com/kintsugidata/kintsugi/internal/application"
)

// registerTools registers all Kintsugi MCP tools on the given server.
func registerTools(s *server.MCPServer, pipelineDir string) {
	// 1. kintsugi_run
	s.AddTool(
		mcplib.NewTool("kintsugi_run",
			mcplib.WithDescription("Execute one full pipeline run (validate, drift check, heal and retry once on failure) and return the result as JSON"),
			mcplib.WithString("label", mcplib.Description("Run label used in the run ID (default: mcp)")),
			mcplib.WithString("description", mcplib.Description("Free-form description recorded on incidents")),
		),
		handleRun(pipelineDir),
	)

	// 2. kintsugi_validate
	s.AddTool(
		mcplib.NewTool("kintsugi_validate",
			mcplib.WithDescription("Run the data quality checks once and return the report. Records no incidents and never modifies configuration."),
		),
		handleValidate(pipelineDir),
	)

	// 3. kintsugi_drift
	s.AddTool(
		mcplib.NewTool("kintsugi_drift",
			mcplib.WithDescription("Compare the snapshot's numeric columns against the reference profile. The first call creates the baseline."),
		),
		handleDrift(pipelineDir),
	)

	// 4. kintsugi_heal
	s.AddTool(
		mcplib.NewTool("kintsugi_heal",
			mcplib.WithDescription("Compute configuration healing actions for failing quality checks"),
			mcplib.WithBoolean("apply", mcplib.Description("Persist the softened configuration (default: dry run)")),
		),
		handleHeal(pipelineDir),
	)

	// 5. kintsugi_incidents
	s.AddTool(
		mcplib.NewTool("kintsugi_incidents",
			mcplib.WithDescription("Return the recorded incident trail as JSON"),
			mcplib.WithNumber("limit", mcplib.Description("Return only the most recent N incidents")),
		),
		handleIncidents(pipelineDir),
	)
}

// newService wires the standard outbound adapters. MCP tools never open a
// warehouse pool: runs triggered over MCP skip the mirror.
func newService(pipelineDir string) *application.RunService {
	return application.NewRunService(application.RunDeps{
		Source:    source.New(pipelineDir),
		Configs:   configstore.New(pipelineDir),
		Baselines: baseline.New(),
		Incidents: incidentlog.New(pipelineDir),
		Revisions: gitinfo.New(),
		BaseDir:   pipelineDir,
	})
}

func handleRun(pipelineDir string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		label, _ := args["label"].(string)
		if label == "" {
			label = "mcp"
		}
		description, _ := args["description"].(string)

		result, err := newService(pipelineDir).Run(ctx, application.RunOptions{
			Label:       label,
			Description: description,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("run failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleValidate(pipelineDir string) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := newService(pipelineDir).Validate(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("validate failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleDrift(pipelineDir string) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := newService(pipelineDir).DetectDrift(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("drift detection failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleHeal(pipelineDir string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		apply, _ := request.GetArguments()["apply"].(bool)

		result, err := newService(pipelineDir).Heal(ctx, apply)
		if err != nil {
			return errorResult(fmt.Sprintf("heal failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleIncidents(pipelineDir string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		incidents, err := incidentlog.New(pipelineDir).List()
		if err != nil {
			return errorResult(fmt.Sprintf("reading incidents failed: %v", err)), nil
		}

		if limit, ok := request.GetArguments()["limit"].(float64); ok && int(limit) > 0 && len(incidents) > int(limit) {
			incidents = incidents[len(incidents)-int(limit):]
		}
		return jsonResult(incidents)
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
