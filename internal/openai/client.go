package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/helperly/helperly/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
	// DefaultChatModel is the OpenAI model used for answer generation
	DefaultChatModel = openai.GPT4oMini
	// DefaultEmbeddingDimensions is the embedding dimension of text-embedding-3-small
	DefaultEmbeddingDimensions = 1536

	serviceName = "openai"
)

var (
	// ErrWrongDimensions is returned when an embedding has unexpected dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
)

// API defines the subset of the OpenAI API the client uses
type API interface {
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	CreateChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Client wraps the OpenAI API behind the embedding and answering contracts.
// Any provider failure surfaces as a domain.ExternalServiceError.
type Client struct {
	api        API
	dimensions int
}

type OpenAIAdapter struct {
	client         *openai.Client
	embeddingModel openai.EmbeddingModel
	chatModel      string
}

func NewOpenAIAdapter(apiKey, embeddingModel, chatModel string) *OpenAIAdapter {
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	return &OpenAIAdapter{
		client:         openai.NewClient(apiKey),
		embeddingModel: openai.EmbeddingModel(embeddingModel),
		chatModel:      chatModel,
	}
}

// CreateEmbeddings calls the OpenAI API to embed a batch of texts in one request
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: a.embeddingModel,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		embeddings[i] = item.Embedding
	}
	return embeddings, nil
}

// CreateChatCompletion calls the OpenAI chat API with a system and user prompt
func (a *OpenAIAdapter) CreateChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.chatModel,
		MaxTokens:   500,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

type Config struct {
	APIKey              string
	EmbeddingModel      string
	ChatModel           string
	EmbeddingDimensions int
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	return &Client{
		api:        NewOpenAIAdapter(cfg.APIKey, cfg.EmbeddingModel, cfg.ChatModel),
		dimensions: dimensions,
	}
}

// Dimensions returns the embedding dimensionality the client enforces
func (c *Client) Dimensions() int {
	return c.dimensions
}

// EmbedTexts embeds a batch of texts in one provider call. The result
// preserves input order. An empty batch returns nil without calling the
// provider; a provider failure fails the whole batch.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := c.api.CreateEmbeddings(ctx, texts)
	if err != nil {
		return nil, domain.NewExternalServiceError(serviceName, "failed to generate embeddings", err)
	}

	for i, embedding := range embeddings {
		if len(embedding) != c.dimensions {
			return nil, domain.NewExternalServiceError(serviceName,
				fmt.Sprintf("embedding %d has %d dimensions, expected %d", i, len(embedding), c.dimensions),
				ErrWrongDimensions)
		}
	}

	return embeddings, nil
}

// GenerateAnswer asks the chat model to answer strictly from the supplied
// context passages, citing them by bracketed reference number.
func (c *Client) GenerateAnswer(ctx context.Context, question string, contextPassages []string) (string, error) {
	systemPrompt := "You are a helpful assistant that answers questions based on the provided context. " +
		"If the answer is not in the context, say so. " +
		"Always cite your sources by reference number [1], [2], etc."

	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer:", numberPassages(contextPassages), question)

	answer, err := c.api.CreateChatCompletion(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", domain.NewExternalServiceError(serviceName, "failed to generate answer", err)
	}
	return answer, nil
}

func numberPassages(passages []string) string {
	out := ""
	for i, p := range passages {
		if i > 0 {
			out += "\n\n"
		}
		out += fmt.Sprintf("[%d] %s", i+1, p)
	}
	return out
}
