package main

import (
	"fmt"
	"os"

	"github.com/helperly/helperly/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "helperly",
		Short: "Helperly CLI - RAG chatboxes for your own content",
		Long: `Helperly CLI provides commands to manage chatboxes, ingest content,
and ask questions against it.

Environment variables:
  HELPERLY_API_KEY   API key for authentication
  HELPERLY_API_URL   API base URL (default: http://localhost:8080)
  HELPERLY_ORG_ID    Organization ID (required)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-key", "", "API key for authentication (overrides env)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	rootCmd.PersistentFlags().String("org-id", "", "Organization ID (overrides env)")

	rootCmd.AddCommand(client.ChatboxCmd())
	rootCmd.AddCommand(client.DocumentCmd())
	rootCmd.AddCommand(client.IngestCmd())
	rootCmd.AddCommand(client.QueryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
