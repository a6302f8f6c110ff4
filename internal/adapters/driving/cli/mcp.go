package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serves the recipe collection to MCP clients.

Tools:
  search_recipes   top matching recipe passages, optional category filter
  ask_chef         the chef's answer with related recipe links
  list_documents   ingested documents with their categories

Resources:
  recipes://documents          document list as JSON
  recipes://documents/{path}   one document's chunks

Stdio is the default transport, suitable for desktop assistants that launch
the binary as a subprocess ("args": ["mcp", "serve"]). --port serves the
streamable HTTP transport instead, e.g. for the MCP Inspector:

  cortex-chef mcp serve --port 8090`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "serve streamable HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Chat:      chatService,
		Documents: documentService,
	}

	server, err := mcp.NewServer(ports, version)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
