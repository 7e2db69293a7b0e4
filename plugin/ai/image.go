package ai

import (
	"context"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// GenerateMemoryImage renders an illustration for a memory and returns it as
// a base64 data URL. A nil result is not an error: image generation is a
// best-effort enrichment and callers keep the memory without art when the
// provider fails.
func (s *OpenAIService) GenerateMemoryImage(ctx context.Context, description string) *string {
	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Model:          s.config.ImageModel,
		Prompt:         imagePrompt(description),
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		s.logger.Warn("image generation failed, keeping memory without art",
			slog.String("error", err.Error()))
		return nil
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		s.logger.Warn("image generation returned no data")
		return nil
	}

	url := "data:image/png;base64," + resp.Data[0].B64JSON
	return &url
}

func imagePrompt(description string) string {
	return "A warm, gentle, softly lit illustration in a nostalgic storybook style depicting this memory: " +
		description +
		". No text in the image."
}
