package ai

import (
	"context"
	"log/slog"
	"strings"
)

// FallbackDailyPrompt is returned whenever prompt generation fails. The
// journaling flow always has a question to show.
const FallbackDailyPrompt = "What is a favorite memory from your childhood?"

const dailyPromptInstruction = "You help people with memory loss reminisce. " +
	"Write one short, gentle, open-ended question inviting them to share a personal memory. " +
	"Reply with only the question."

// DailyPrompt returns a fresh reminiscence question, personalized with
// recent memory topics when any are given.
func (s *OpenAIService) DailyPrompt(ctx context.Context, recentTopics []string) string {
	prompt := "Write today's question."
	if len(recentTopics) > 0 {
		prompt = "They recently wrote about: " + strings.Join(recentTopics, ", ") +
			". Write today's question about something different."
	}

	reply, err := s.CompleteWithSystem(ctx, dailyPromptInstruction, prompt)
	if err != nil {
		s.logger.Warn("daily prompt generation failed, using fallback",
			slog.String("error", err.Error()))
		return FallbackDailyPrompt
	}

	reply = strings.TrimSpace(strings.Trim(strings.TrimSpace(reply), `"`))
	if reply == "" {
		return FallbackDailyPrompt
	}
	return reply
}
