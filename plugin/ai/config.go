package ai

import (
	"github.com/pkg/errors"

	"github.com/memorykeeper/memorykeeper/internal/profile"
)

// Config holds the AI provider settings.
type Config struct {
	Enabled bool
	// Provider selects the chat completion backend. Supported values are
	// "openai" and "deepseek". Any OpenAI-compatible endpoint works through
	// BaseURL.
	Provider    string
	APIKey      string
	BaseURL     string
	ChatModel   string
	ImageModel  string
	SpeechModel string
	SpeechVoice string
	// CaptionModel is used for vision requests. Defaults to ChatModel when
	// empty.
	CaptionModel string
}

// ConfigFromProfile builds the AI config from the server profile.
func ConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Enabled:      p.IsAIEnabled(),
		Provider:     p.AIProvider,
		APIKey:       p.AIAPIKey,
		BaseURL:      p.AIBaseURL,
		ChatModel:    p.AIChatModel,
		ImageModel:   p.AIImageModel,
		SpeechModel:  p.AISpeechModel,
		SpeechVoice:  p.AISpeechVoice,
		CaptionModel: p.AICaptionModel,
	}
	if cfg.CaptionModel == "" {
		cfg.CaptionModel = cfg.ChatModel
	}
	return cfg
}

// Validate checks that an enabled config is usable.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.APIKey == "" {
		return errors.New("ai: api key required when enabled")
	}
	if c.ChatModel == "" {
		return errors.New("ai: chat model required when enabled")
	}
	switch c.Provider {
	case "openai", "deepseek":
	default:
		return errors.Errorf("ai: unsupported provider %q", c.Provider)
	}
	return nil
}
