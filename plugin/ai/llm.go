package ai

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// deepseekBaseURL is the OpenAI-compatible endpoint for DeepSeek.
const deepseekBaseURL = "https://api.deepseek.com/v1"

// LLMService abstracts chat completion so callers can be tested with fakes.
type LLMService interface {
	// Complete sends a single-turn prompt and returns the raw text reply.
	Complete(ctx context.Context, prompt string) (string, error)
	// CompleteWithSystem sends a system instruction plus a user prompt.
	CompleteWithSystem(ctx context.Context, system, prompt string) (string, error)
}

// OpenAIService implements LLMService, image generation, speech synthesis
// and image captioning on top of the OpenAI-compatible API.
type OpenAIService struct {
	client *openai.Client
	config *Config
	logger *slog.Logger
}

// NewOpenAIService creates the provider client from the config.
func NewOpenAIService(config *Config, logger *slog.Logger) (*OpenAIService, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !config.Enabled {
		return nil, errors.New("ai: service is disabled")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	switch {
	case config.BaseURL != "":
		clientConfig.BaseURL = config.BaseURL
	case config.Provider == "deepseek":
		clientConfig.BaseURL = deepseekBaseURL
	}

	return &OpenAIService{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		logger: logger,
	}, nil
}

func (s *OpenAIService) Complete(ctx context.Context, prompt string) (string, error) {
	return s.CompleteWithSystem(ctx, "", prompt)
}

func (s *OpenAIService) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.config.ChatModel,
		Messages: messages,
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
