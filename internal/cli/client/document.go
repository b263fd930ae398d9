package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// DocumentInfo represents a document in API responses.
type DocumentInfo struct {
	ID         string `json:"id"`
	ChatboxID  string `json:"chatbox_id"`
	SourceType string `json:"source_type"`
	SourceName string `json:"source_name"`
	CreatedAt  string `json:"created_at"`
}

// DocumentListInfo represents one page of documents.
type DocumentListInfo struct {
	Documents []DocumentInfo `json:"documents"`
	Cursor    string         `json:"cursor,omitempty"`
	HasMore   bool           `json:"has_more"`
}

// DocumentCmd creates the document command group.
func DocumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Manage ingested documents",
	}

	cmd.AddCommand(documentListCmd())
	cmd.AddCommand(documentGetCmd())
	cmd.AddCommand(documentDeleteCmd())

	return cmd
}

func documentListCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list <chatbox-id>",
		Short: "List a chatbox's documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			path := fmt.Sprintf("/v1/chatboxes/%s/documents?limit=%d", args[0], limit)
			if cursor != "" {
				path += "&cursor=" + cursor
			}

			resp, err := api.Get(path)
			if err != nil {
				return fmt.Errorf("failed to list documents: %w", err)
			}

			var list DocumentListInfo
			if err := json.Unmarshal(resp.Data, &list); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON {
				output, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(output))
				return nil
			}

			if len(list.Documents) == 0 {
				fmt.Println("No documents found")
				return nil
			}
			for _, d := range list.Documents {
				fmt.Printf("  %s: [%s] %s\n", d.ID, d.SourceType, d.SourceName)
			}
			if list.HasMore && list.Cursor != "" {
				fmt.Printf("\nMore results available. Use --cursor %s\n", list.Cursor)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}

func documentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get("/v1/documents/" + args[0])
			if err != nil {
				return fmt.Errorf("failed to get document: %w", err)
			}

			output, _ := json.MarshalIndent(json.RawMessage(resp.Data), "", "  ")
			fmt.Println(string(output))
			return nil
		},
	}
}

func documentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document and its chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			if _, err := api.Delete("/v1/documents/" + args[0]); err != nil {
				return fmt.Errorf("failed to delete document: %w", err)
			}

			fmt.Printf("Document %s deleted\n", args[0])
			return nil
		},
	}
}
