package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatwire/chatwire/internal/config"
	"github.com/chatwire/chatwire/internal/server"
)

var version = "0.1.0" // This should be set at build time using -ldflags

var rootCmd = &cobra.Command{
	Use:   "chatwire",
	Short: "Chatwire realtime chat server",
	Long: `Chatwire is a realtime chat server: presence tracking, direct and
group messaging, and live fanout over WebSockets.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.New()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		s := server.New(cfg)
		s.RegisterRoutes()
		s.Start(cfg.Addr)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chatwire v%s\n", version)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides APP_ADDR)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
