package cli

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/nodix/pipeconf/pkg/logger"
	"github.com/nodix/pipeconf/pkg/pipeline"
	"github.com/nodix/pipeconf/pkg/stringutil"
	"github.com/spf13/cobra"
)

var mcpLog = logger.NewSlogLogger("cli:mcp_server")

// NewMCPServerCommand creates the mcp-server command
func NewMCPServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run an MCP server exposing pipeline validation tools",
		Long: `Run a Model Context Protocol server over stdio.

Tools:
  validate_pipeline  Validate configuration content and return diagnostics
                     and, for valid input, the normalized YAML
  pipeline_schema    Return the JSON Schema of the configuration format

Example client configuration:
  {"command": "` + string(constants.CLIName) + `", "args": ["mcp-server"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMCPServer(cmd.Context())
		},
	}
}

func runMCPServer(ctx context.Context) error {
	mcpLog.Info("starting MCP server", "transport", "stdio", "version", GetVersion())
	if err := createMCPServer().Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

func createMCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    string(constants.CLIName),
		Version: GetVersion(),
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_pipeline",
		Description: "Validate Bitbucket Pipelines configuration YAML. Returns every problem with its document path and line, and the normalized document when the input is valid.",
	}, validatePipelineTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_schema",
		Description: "Return the JSON Schema of the Bitbucket Pipelines configuration format.",
	}, pipelineSchemaTool)

	return server
}

type validatePipelineArgs struct {
	Content         string   `json:"content" jsonschema:"the bitbucket-pipelines.yml content"`
	FailFast        bool     `json:"fail_fast,omitempty" jsonschema:"stop at the first problem"`
	CheckReferences bool     `json:"check_references,omitempty" jsonschema:"resolve step caches and services against definitions"`
	Deployments     []string `json:"deployments,omitempty" jsonschema:"known deployment environments; enables deployment checks"`
}

type toolDiagnostic struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type validatePipelineResult struct {
	Valid       bool             `json:"valid"`
	Diagnostics []toolDiagnostic `json:"diagnostics"`
	Error       string           `json:"error,omitempty"`
	Normalized  string           `json:"normalized,omitempty"`
}

func validatePipelineTool(ctx context.Context, _ *mcp.CallToolRequest, args validatePipelineArgs) (*mcp.CallToolResult, validatePipelineResult, error) {
	mcpLog.InfoContext(ctx, "validate_pipeline", "bytes", len(args.Content), "check_references", args.CheckReferences)

	opts := ValidationOptions{
		FailFast:        args.FailFast,
		CheckReferences: args.CheckReferences || len(args.Deployments) > 0,
		Deployments:     args.Deployments,
	}
	result := ValidateContent(constants.DefaultPipelineFile, []byte(args.Content), opts)

	out := validatePipelineResult{
		Valid:       result.Valid,
		Diagnostics: make([]toolDiagnostic, 0, len(result.Diagnostics)),
		Error:       stringutil.StripANSIEscapeCodes(result.Error),
	}
	for _, d := range result.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, toolDiagnostic{
			Kind:    d.Kind.String(),
			Path:    d.Path.String(),
			Message: d.Message,
			Line:    d.Line,
			Column:  d.Column,
		})
	}
	if result.Valid {
		normalized, err := pipeline.MarshalDocument(result.Document())
		if err != nil {
			return nil, out, err
		}
		out.Normalized = string(normalized)
	}
	return nil, out, nil
}

func pipelineSchemaTool(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	mcpLog.InfoContext(ctx, "pipeline_schema")
	data, err := pipeline.MarshalJSONSchema()
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
