package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// IngestInfo represents the ingestion API response.
type IngestInfo struct {
	DocumentID string `json:"document_id"`
	SourceType string `json:"source_type"`
	SourceName string `json:"source_name"`
	ChunkCount int    `json:"chunk_count"`
}

// IngestCmd creates the ingest command group.
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest content into a chatbox",
		Long:  "Ingest raw text, a web page, or a local file into a chatbox",
	}

	cmd.AddCommand(ingestTextCmd())
	cmd.AddCommand(ingestURLCmd())
	cmd.AddCommand(ingestFileCmd())

	return cmd
}

func ingestTextCmd() *cobra.Command {
	var sourceName string

	cmd := &cobra.Command{
		Use:   "text <chatbox-id> <text>",
		Short: "Ingest raw text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Post("/v1/ingest/text", map[string]string{
				"chatbox_id":  args[0],
				"text":        args[1],
				"source_name": sourceName,
			})
			if err != nil {
				return fmt.Errorf("ingestion failed: %w", err)
			}

			return printIngestResult(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&sourceName, "source-name", "", "Display name for the source")

	return cmd
}

func ingestURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url <chatbox-id> <url>",
		Short: "Ingest a web page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Post("/v1/ingest/url", map[string]string{
				"chatbox_id": args[0],
				"url":        args[1],
			})
			if err != nil {
				return fmt.Errorf("ingestion failed: %w", err)
			}

			return printIngestResult(cmd, resp)
		},
	}
}

func ingestFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file <chatbox-id> <path>",
		Short: "Ingest a local text or markdown file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.UploadFile("/v1/ingest/upload", args[1], args[0])
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}

			return printIngestResult(cmd, resp)
		},
	}
}

func printIngestResult(cmd *cobra.Command, resp *APIResponse) error {
	var info IngestInfo
	if err := json.Unmarshal(resp.Data, &info); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	outputJSON, _ := cmd.Flags().GetBool("output")
	if outputJSON {
		output, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Printf("Ingested %s '%s' as document %s (%d chunks)\n",
			info.SourceType, info.SourceName, info.DocumentID, info.ChunkCount)
	}
	return nil
}
