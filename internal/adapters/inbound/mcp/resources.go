package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/configstore"
	"github.com/kintsugidata/kintsugi/internal/domain"
)

// registerResources registers all Kintsugi MCP resources on the given server.
func registerResources(s *server.MCPServer, pipelineDir string) {
	// 1. kintsugi://config - current pipeline configuration
	s.AddResource(
		mcplib.NewResource(
			"kintsugi://config",
			"Pipeline Configuration",
			mcplib.WithResourceDescription("The pipeline.yaml quality contract, including any healed thresholds"),
			mcplib.WithMIMEType("application/yaml"),
		),
		handleConfigResource(pipelineDir),
	)

	// 2. kintsugi://baseline - drift reference profile
	s.AddResource(
		mcplib.NewResource(
			"kintsugi://baseline",
			"Reference Profile",
			mcplib.WithResourceDescription("Per-column mean and standard deviation frozen at baseline creation"),
			mcplib.WithMIMEType("application/json"),
		),
		handleBaselineResource(pipelineDir),
	)
}

func handleConfigResource(pipelineDir string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := os.ReadFile(configstore.New(pipelineDir).Path())
		if err != nil {
			return nil, fmt.Errorf("reading configuration: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "kintsugi://config",
				MIMEType: "application/yaml",
				Text:     string(data),
			},
		}, nil
	}
}

func handleBaselineResource(pipelineDir string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := configstore.New(pipelineDir).Load()
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}

		profilePath := cfg.Drift.ProfilePath
		if profilePath == "" {
			profilePath = domain.DefaultProfilePath
		}
		if !filepath.IsAbs(profilePath) {
			profilePath = filepath.Join(pipelineDir, profilePath)
		}

		data, err := os.ReadFile(profilePath)
		if err != nil {
			return nil, fmt.Errorf("reading reference profile: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "kintsugi://baseline",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
