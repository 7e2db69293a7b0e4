package ai

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// NarrateMemory synthesizes a spoken reading of the memory text and returns
// it as a base64 data URL. Returns nil when synthesis fails so the memory is
// saved without narration.
func (s *OpenAIService) NarrateMemory(ctx context.Context, text string) *string {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(s.config.SpeechModel),
		Input: text,
		Voice: openai.SpeechVoice(s.config.SpeechVoice),
	})
	if err != nil {
		s.logger.Warn("speech synthesis failed, keeping memory without narration",
			slog.String("error", err.Error()))
		return nil
	}
	defer resp.Close()

	raw, err := io.ReadAll(resp)
	if err != nil {
		s.logger.Warn("failed to read speech response",
			slog.String("error", err.Error()))
		return nil
	}
	if len(raw) == 0 {
		s.logger.Warn("speech synthesis returned no data")
		return nil
	}

	url := "data:audio/mp3;base64," + base64.StdEncoding.EncodeToString(raw)
	return &url
}
