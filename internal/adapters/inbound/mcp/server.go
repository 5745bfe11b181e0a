package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with all Kintsugi tools and resources
// registered. The pipelineDir is the directory holding pipeline.yaml and
// the data tree.
func NewServer(pipelineDir string) *server.MCPServer {
	s := server.NewMCPServer(
		"kintsugi",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, pipelineDir)
	registerResources(s, pipelineDir)

	return s
}
