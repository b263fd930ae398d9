package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// QueryRequest represents the query API request.
type QueryRequest struct {
	ChatboxID  string  `json:"chatbox_id"`
	Question   string  `json:"question"`
	Origin     string  `json:"origin,omitempty"`
	DocumentID string  `json:"document_id,omitempty"`
	TopK       int     `json:"top_k,omitempty"`
	MinScore   float64 `json:"min_score,omitempty"`
}

// QuerySource represents one cited passage.
type QuerySource struct {
	DocumentID string  `json:"document_id"`
	ChunkID    string  `json:"chunk_id"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	SourceName string  `json:"source_name,omitempty"`
}

// QueryInfo represents the query API response.
type QueryInfo struct {
	Answer  string        `json:"answer"`
	Sources []QuerySource `json:"sources"`
}

// QueryCmd creates the query command.
func QueryCmd() *cobra.Command {
	var (
		origin     string
		documentID string
		topK       int
		minScore   float64
	)

	cmd := &cobra.Command{
		Use:   "query <chatbox-id> <question>",
		Short: "Ask a question against a chatbox",
		Long:  "Runs retrieval over the chatbox's ingested content and prints the grounded answer with its sources.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Post("/v1/query", QueryRequest{
				ChatboxID:  args[0],
				Question:   args[1],
				Origin:     origin,
				DocumentID: documentID,
				TopK:       topK,
				MinScore:   minScore,
			})
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}

			var info QueryInfo
			if err := json.Unmarshal(resp.Data, &info); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON {
				output, _ := json.MarshalIndent(info, "", "  ")
				fmt.Println(string(output))
				return nil
			}

			fmt.Println(info.Answer)
			if len(info.Sources) > 0 {
				fmt.Printf("\nSources:\n")
				for i, s := range info.Sources {
					name := s.SourceName
					if name == "" {
						name = s.DocumentID
					}
					content := s.Content
					if len(content) > 100 {
						content = content[:97] + "..."
					}
					fmt.Printf("%d. %s (%.2f)\n   %s\n", i+1, name, s.Score, content)
					if i < len(info.Sources)-1 {
						fmt.Println(strings.Repeat("-", 40))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&origin, "origin", "", "Origin to present for allow-list checks")
	cmd.Flags().StringVar(&documentID, "document", "", "Restrict retrieval to one document")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of chunks to retrieve")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "Minimum similarity score")

	return cmd
}
