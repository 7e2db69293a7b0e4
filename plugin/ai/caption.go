package ai

import (
	"context"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

const captionSystemPrompt = "You write short, warm scrapbook captions. " +
	"Given a photo, reply with exactly one sentence describing the moment it captures. " +
	"No quotes, no hashtags."

// CaptionImage asks the vision model for a one-sentence scrapbook caption of
// the image at the given URL (a data URL works too).
func (s *OpenAIService) CaptionImage(ctx context.Context, imageURL string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.config.CaptionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: captionSystemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Write a caption for this photo.",
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: imageURL,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "caption request failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("caption request returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
