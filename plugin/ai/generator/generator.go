// Package generator turns a user's memory entries into playable game
// content by prompting a text model and strictly validating its reply.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/memorykeeper/memorykeeper/plugin/ai"
	"github.com/memorykeeper/memorykeeper/store"
)

// Sentinel outcomes. ErrNotEnoughMemories means the precondition failed and
// no model call was made. ErrContentUnavailable means the call was made but
// produced nothing usable (network error, unparseable reply, or schema
// violation). Callers distinguish both from a genuine empty result.
var (
	ErrNotEnoughMemories  = errors.New("not enough memories to generate content")
	ErrContentUnavailable = errors.New("generated content unavailable")
)

// Minimum entries per game kind. Pairs and timelines need enough distinct
// material to be playable; a quiz can be built from a single story.
const (
	minMemoriesForPairs    = 3
	minMemoriesForQuiz     = 1
	minMemoriesForTimeline = 3
)

// memorySeparator joins entry bodies in the prompt.
const memorySeparator = "\n---\n"

// MatchPair is one word/match pair for the matching game.
type MatchPair struct {
	ID    int    `json:"id"`
	Word  string `json:"word"`
	Match string `json:"match"`
}

// QuizQuestion is one multiple-choice question. Options always has exactly
// four entries and CorrectAnswer is one of them.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// TimelineEvent is one event in chronological order.
type TimelineEvent struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Generator issues one best-effort model call per invocation. No retries.
type Generator struct {
	llm    ai.LLMService
	logger *slog.Logger
}

func New(llm ai.LLMService, logger *slog.Logger) *Generator {
	return &Generator{llm: llm, logger: logger}
}

const generatorSystemPrompt = "You generate memory games for seniors from their own journal entries. " +
	"Reply with only a JSON array matching the requested schema. No prose, no markdown."

// GeneratePairs produces exactly count word pairs drawn from the memories.
func (g *Generator) GeneratePairs(ctx context.Context, memories []*store.Memory, count int) ([]MatchPair, error) {
	if len(memories) < minMemoriesForPairs {
		return nil, ErrNotEnoughMemories
	}

	prompt := fmt.Sprintf(
		"From the journal entries below, create exactly %d pairs of related short phrases "+
			"(a person, place or thing paired with a detail about it). "+
			`Schema: [{"id": number, "word": string, "match": string}]. `+
			"Entries:\n%s",
		count, joinMemories(memories))

	raw, err := g.llm.CompleteWithSystem(ctx, generatorSystemPrompt, prompt)
	if err != nil {
		g.logger.Warn("pair generation call failed", slog.String("error", err.Error()))
		return nil, ErrContentUnavailable
	}

	var pairs []MatchPair
	if err := unmarshalArray(raw, &pairs); err != nil {
		g.logger.Warn("pair generation returned invalid JSON", slog.String("error", err.Error()))
		return nil, ErrContentUnavailable
	}
	if err := validatePairs(pairs); err != nil {
		g.logger.Warn("pair generation failed schema validation", slog.String("error", err.Error()))
		return nil, ErrContentUnavailable
	}
	return pairs, nil
}

// GenerateQuiz produces exactly count multiple-choice questions.
func (g *Generator) GenerateQuiz(ctx context.Context, memories []*store.Memory, count int) ([]QuizQuestion, error) {
	if len(memories) < minMemoriesForQuiz {
		return nil, ErrNotEnoughMemories
	}

	prompt := fmt.Sprintf(
		"From the journal entries below, create exactly %d multiple-choice questions about the details of these memories. "+
			"Each question has exactly 4 options and correctAnswer must be one of the options. "+
			`Schema: [{"question": string, "options": [string, string, string, string], "correctAnswer": string}]. `+
			"Entries:\n%s",
		count, joinMemories(memories))

	raw, err := g.llm.CompleteWithSystem(ctx, generatorSystemPrompt, prompt)
	if err != nil {
		g.logger.Warn("quiz generation call failed", slog.String("error", err.Error()))
		return nil, ErrContentUnavailable
	}

	var questions []QuizQuestion
	if err := unmarshalArray(raw, &questions); err != nil {
		g.logger.Warn("quiz generation returned invalid JSON", slog.String("error", err.Error()))
		return nil, ErrContentUnavailable
	}
	if err := validateQuiz(questions); err != nil {
		g.logger.Warn("quiz generation failed schema validation", slog.String("error", err.Error()))
		return nil, ErrContentUnavailable
	}
	return questions, nil
}

// GenerateTimeline produces exactly count events in chronological order.
// The returned order is authoritative for scoring.
func (g *Generator) GenerateTimeline(ctx context.Context, memories []*store.Memory, count int) ([]TimelineEvent, error) {
	if len(memories) < minMemoriesForTimeline {
		return nil, ErrNotEnoughMemories
	}

	prompt := fmt.Sprintf(
		"From the journal entries below, extract exactly %d distinct events and list them in chronological order, earliest first. "+
			`Schema: [{"id": number, "description": string}]. `+
			"Entries:\n%s",
		count, joinMemories(memories))

	raw, err := g.llm.CompleteWithSystem(ctx, generatorSystemPrompt, prompt)
	if err != nil {
		g.logger.Warn("timeline generation call failed", slog.String("error", err.Error()))
		return nil, ErrContentUnavailable
	}

	var events []TimelineEvent
	if err := unmarshalArray(raw, &events); err != nil {
		g.logger.Warn("timeline generation returned invalid JSON", slog.String("error", err.Error()))
		return nil, ErrContentUnavailable
	}
	if err := validateTimeline(events); err != nil {
		g.logger.Warn("timeline generation failed schema validation", slog.String("error", err.Error()))
		return nil, ErrContentUnavailable
	}
	return events, nil
}

func joinMemories(memories []*store.Memory) string {
	parts := make([]string, 0, len(memories))
	for _, m := range memories {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, memorySeparator)
}

func validatePairs(pairs []MatchPair) error {
	if len(pairs) == 0 {
		return errors.New("empty pair list")
	}
	for i, p := range pairs {
		if p.Word == "" || p.Match == "" {
			return errors.Errorf("pair %d has an empty side", i)
		}
	}
	return nil
}

func validateQuiz(questions []QuizQuestion) error {
	if len(questions) == 0 {
		return errors.New("empty question list")
	}
	for i, q := range questions {
		if q.Question == "" {
			return errors.Errorf("question %d is empty", i)
		}
		if len(q.Options) != 4 {
			return errors.Errorf("question %d has %d options, want 4", i, len(q.Options))
		}
		found := false
		for _, opt := range q.Options {
			if opt == "" {
				return errors.Errorf("question %d has an empty option", i)
			}
			if opt == q.CorrectAnswer {
				found = true
			}
		}
		if !found {
			return errors.Errorf("question %d: correct answer is not among the options", i)
		}
	}
	return nil
}

func validateTimeline(events []TimelineEvent) error {
	if len(events) == 0 {
		return errors.New("empty event list")
	}
	for i, e := range events {
		if e.Description == "" {
			return errors.Errorf("event %d has an empty description", i)
		}
	}
	return nil
}

// unmarshalArray parses a model reply that should be a bare JSON array but
// may arrive wrapped in a markdown fence or surrounding prose.
func unmarshalArray(raw string, v any) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end < start {
		return errors.New("no JSON array found in reply")
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err != nil {
		return errors.Wrap(err, "failed to unmarshal array")
	}
	return nil
}
