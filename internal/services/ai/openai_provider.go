// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider speaks to OpenAI-compatible endpoints. Embedding and LLM
// clients are configured separately so they can point at different vendors.
type OpenAIProvider struct {
	config          *Config
	embeddingClient *openai.Client
	llmClient       *openai.Client
}

func NewOpenAIProvider(config *Config) *OpenAIProvider {
	llmConfig := openai.DefaultConfig(config.LLMKey)
	if config.LLMBaseURL != "" {
		llmConfig.BaseURL = config.LLMBaseURL
	}
	llmClient := openai.NewClientWithConfig(llmConfig)

	embeddingConfig := openai.DefaultConfig(config.EmbeddingKey)
	if config.EmbeddingBaseURL != "" {
		embeddingConfig.BaseURL = config.EmbeddingBaseURL
	}
	embeddingClient := openai.NewClientWithConfig(embeddingConfig)

	return &OpenAIProvider{
		config:          config,
		embeddingClient: embeddingClient,
		llmClient:       llmClient,
	}
}

func (p *OpenAIProvider) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(p.config.EmbeddingModel),
		Dimensions: p.config.EmbeddingDimensions,
	}

	resp, err := p.embeddingClient.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, NewProviderError("embedding", "failed to create embedding", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, &AIError{
			Type:      ErrTypeProvider,
			Operation: "embedding",
			Message:   "empty embedding response",
		}
	}

	return resp.Data[0].Embedding, nil
}

func (p *OpenAIProvider) GetCompletion(ctx context.Context, prompt string) (string, error) {
	resp, err := p.llmClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: p.config.LLMModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: p.config.Temperature,
			MaxTokens:   p.config.MaxOutputTokens,
		},
	)
	if err != nil {
		return "", NewProviderError("completion", "failed to create completion", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Message:   "empty completion response",
		}
	}

	return resp.Choices[0].Message.Content, nil
}

// StreamCompletion forwards each produced delta to onDelta as soon as it
// arrives. A non-nil error from onDelta aborts the stream and is returned
// unchanged so callers can distinguish their own cancellation.
func (p *OpenAIProvider) StreamCompletion(ctx context.Context, prompt string, onDelta func(string) error) error {
	stream, err := p.llmClient.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: p.config.LLMModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxOutputTokens,
	})
	if err != nil {
		return NewProviderError("streaming", "failed to create stream", err)
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return NewProviderError("streaming", "stream receive error", err)
		}

		if len(response.Choices) > 0 {
			delta := response.Choices[0].Delta.Content
			if delta != "" && onDelta != nil {
				if cbErr := onDelta(delta); cbErr != nil {
					return cbErr
				}
			}
		}
	}
}
