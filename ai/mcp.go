package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPConfig configures the MCP-backed Client, for deployments that front
// their model with an MCP server instead of calling a provider API directly.
type MCPConfig struct {
	// ServerPath is the MCP server executable. Empty falls back to the
	// MCP_SERVER_PATH environment variable.
	ServerPath string

	// ToolName is the generation tool to call. Empty falls back to
	// MCP_TOOL_NAME, then to "generate".
	ToolName string
}

// mcpClient implements Client over an MCP stdio server.
type mcpClient struct {
	client   *client.StdioMCPClient
	toolName string
}

// NewMCPClient creates an MCP-backed Client.
func NewMCPClient(cfg MCPConfig) (Client, error) {
	serverPath := cfg.ServerPath
	if serverPath == "" {
		serverPath = os.Getenv("MCP_SERVER_PATH")
	}
	if serverPath == "" {
		return nil, fmt.Errorf("no MCP server configured; set MCP_SERVER_PATH or provide ServerPath")
	}

	toolName := cfg.ToolName
	if toolName == "" {
		toolName = os.Getenv("MCP_TOOL_NAME")
	}
	if toolName == "" {
		toolName = "generate"
	}

	stdioClient, err := client.NewStdioMCPClient(serverPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP stdio client: %w", err)
	}

	return &mcpClient{
		client:   stdioClient,
		toolName: toolName,
	}, nil
}

// Complete calls the configured MCP tool with the prompt and extracts the
// text content from the result.
func (m *mcpClient) Complete(ctx context.Context, prompt string) (string, error) {
	request := mcp.CallToolRequest{}
	request.Params.Name = m.toolName
	request.Params.Arguments = map[string]interface{}{
		"input": prompt,
	}

	result, err := m.client.CallTool(ctx, request)
	if err != nil {
		return "", fmt.Errorf("MCP call failed: %w", err)
	}

	if result.IsError {
		return "", fmt.Errorf("MCP tool returned an error: %v", result.Result)
	}

	output := ""
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			output += textContent.Text
		}
	}
	if output == "" {
		return "", fmt.Errorf("empty response from MCP tool")
	}

	return output, nil
}

// Available returns true once the stdio client exists.
func (m *mcpClient) Available() bool {
	return m.client != nil
}

var _ Client = (*mcpClient)(nil)
