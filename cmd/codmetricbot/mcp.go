package main

import (
	"log"
	"os"
	"strings"

	"github.com/codmetric/codmetricbot"
	"github.com/codmetric/codmetricbot/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes CodmetricBot to AI agents as MCP tools (chat, evaluate, list_rules).

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		transport := app.Config.MCP.Transport
		if cmd.Flags().Changed("transport") {
			transport, _ = cmd.Flags().GetString("transport")
		}
		port := app.Config.MCP.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		ctx := cli.NewSignalContext(cmd.Context(), app.Logger)
		defer ctx.Stop()

		return ctx.Result(cli.ServeMCP(ctx, app, transport, port, strings.TrimSpace(codmetricbot.Version)))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse' (overrides mcp.transport)")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on, only for SSE (overrides mcp.port)")
}
