package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ChatboxInfo represents a chatbox in API responses.
type ChatboxInfo struct {
	ID                    string   `json:"id"`
	OrgID                 string   `json:"org_id"`
	Name                  string   `json:"name"`
	Description           string   `json:"description,omitempty"`
	AllowedOrigins        []string `json:"allowed_origins,omitempty"`
	EnforceAllowedOrigins bool     `json:"enforce_allowed_origins"`
	CreatedAt             string   `json:"created_at"`
}

// ChatboxListInfo represents one page of chatboxes.
type ChatboxListInfo struct {
	Chatboxes []ChatboxInfo `json:"chatboxes"`
	Cursor    string        `json:"cursor,omitempty"`
	HasMore   bool          `json:"has_more"`
}

// ChatboxCmd creates the chatbox command group.
func ChatboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatbox",
		Short: "Manage chatboxes",
		Long:  "Create, list, inspect, and delete chatboxes",
	}

	cmd.AddCommand(chatboxCreateCmd())
	cmd.AddCommand(chatboxListCmd())
	cmd.AddCommand(chatboxGetCmd())
	cmd.AddCommand(chatboxDeleteCmd())

	return cmd
}

func chatboxCreateCmd() *cobra.Command {
	var (
		description string
		origins     []string
		enforce     bool
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a chatbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			body := map[string]interface{}{
				"name":                    args[0],
				"description":             description,
				"allowed_origins":         origins,
				"enforce_allowed_origins": enforce,
			}

			resp, err := api.Post("/v1/chatboxes", body)
			if err != nil {
				return fmt.Errorf("failed to create chatbox: %w", err)
			}

			var chatbox ChatboxInfo
			if err := json.Unmarshal(resp.Data, &chatbox); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON {
				output, _ := json.MarshalIndent(chatbox, "", "  ")
				fmt.Println(string(output))
			} else {
				fmt.Printf("Chatbox created: %s (%s)\n", chatbox.Name, chatbox.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Chatbox description")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "Allowed origin (repeatable)")
	cmd.Flags().BoolVar(&enforce, "enforce-origins", false, "Enforce the origin allow-list on queries")

	return cmd
}

func chatboxListCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List chatboxes",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			path := fmt.Sprintf("/v1/chatboxes?limit=%d", limit)
			if cursor != "" {
				path += "&cursor=" + cursor
			}

			resp, err := api.Get(path)
			if err != nil {
				return fmt.Errorf("failed to list chatboxes: %w", err)
			}

			var list ChatboxListInfo
			if err := json.Unmarshal(resp.Data, &list); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON {
				output, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(output))
				return nil
			}

			if len(list.Chatboxes) == 0 {
				fmt.Println("No chatboxes found")
				return nil
			}
			for _, c := range list.Chatboxes {
				enforced := ""
				if c.EnforceAllowedOrigins {
					enforced = fmt.Sprintf(" [origins: %s]", strings.Join(c.AllowedOrigins, ", "))
				}
				fmt.Printf("  %s: %s%s\n", c.ID, c.Name, enforced)
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

func chatboxGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a chatbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get("/v1/chatboxes/" + args[0])
			if err != nil {
				return fmt.Errorf("failed to get chatbox: %w", err)
			}

			output, _ := json.MarshalIndent(json.RawMessage(resp.Data), "", "  ")
			fmt.Println(string(output))
			return nil
		},
	}
}

func chatboxDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a chatbox and all its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			if _, err := api.Delete("/v1/chatboxes/" + args[0]); err != nil {
				return fmt.Errorf("failed to delete chatbox: %w", err)
			}

			fmt.Printf("Chatbox %s deleted\n", args[0])
			return nil
		},
	}
}
