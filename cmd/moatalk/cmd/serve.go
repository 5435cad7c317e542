package cmd

import (
	"github.com/moatalk/moatalk/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket server",
	Run: func(cmd *cobra.Command, args []string) {
		s := server.New()
		s.RegisterRoutes()
		s.Start(s.Cfg.AppAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
