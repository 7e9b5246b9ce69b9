package main

import (
	"os"
	"strings"

	"github.com/codmetric/codmetricbot"
	"github.com/codmetric/codmetricbot/internal/cli"
	"github.com/codmetric/codmetricbot/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation (default)",
	Long: `Starts a conversation on stdin/stdout. Type "bye" to leave, "save" to write
the transcript and "/help" for the list of commands.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	jsonMode, _ := cmd.Flags().GetBool("json")

	ctx := cli.NewSignalContext(cmd.Context(), app.Logger)
	defer ctx.Stop()

	return ctx.Result(cli.RunChat(ctx, app, cli.ChatOptions{
		JSON:    jsonMode,
		Fancy:   !jsonMode && tui.IsTerminal(os.Stdout),
		Version: strings.TrimSpace(codmetricbot.Version),
	}))
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Bool("json", false, "Read and write newline-delimited JSON instead of text")
}
