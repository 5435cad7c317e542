package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "moatalk",
	Short: "MoaTalk chat service",
	Long: `MoaTalk is a multi-user chat service with persistent rooms and
real-time message delivery over WebSockets.

Available commands:
  serve    Run the HTTP and WebSocket server
  seed     Populate the database with development fixture data

Use "moatalk [command] --help" for more information about a specific command.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
