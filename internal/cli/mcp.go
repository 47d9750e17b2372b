package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/structmap/structmap/internal/config"
	"github.com/structmap/structmap/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for structural code queries",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered
coding assistants query the structural map of your codebase.

The MCP server:
- Parses files on demand with the structmap_parse and structmap_outline tools
- Searches the persisted index with structmap_find when one exists
- Communicates via stdio (standard MCP transport)

Example:
  structmap mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Structmap MCP Server\n")
	fmt.Fprintf(os.Stderr, "Project root: %s\n", root)

	srv, err := mcp.NewServer(root, cfg.DatabasePath(root))
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.Serve(context.Background())
}
