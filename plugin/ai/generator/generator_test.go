package generator

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorykeeper/memorykeeper/store"
)

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Complete(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) CompleteWithSystem(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeMemories(n int) []*store.Memory {
	list := make([]*store.Memory, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, &store.Memory{ID: int32(i + 1), Content: "memory"})
	}
	return list
}

func TestGeneratePairsPrecondition(t *testing.T) {
	llm := &fakeLLM{}
	g := New(llm, discardLogger())

	_, err := g.GeneratePairs(context.Background(), makeMemories(2), 4)
	require.ErrorIs(t, err, ErrNotEnoughMemories)
	assert.Equal(t, 0, llm.calls, "precondition failure must not call the model")
}

func TestGenerateTimelinePrecondition(t *testing.T) {
	llm := &fakeLLM{}
	g := New(llm, discardLogger())

	_, err := g.GenerateTimeline(context.Background(), makeMemories(2), 4)
	require.ErrorIs(t, err, ErrNotEnoughMemories)
	assert.Equal(t, 0, llm.calls)
}

func TestGenerateQuizPrecondition(t *testing.T) {
	llm := &fakeLLM{}
	g := New(llm, discardLogger())

	_, err := g.GenerateQuiz(context.Background(), makeMemories(0), 3)
	require.ErrorIs(t, err, ErrNotEnoughMemories)
	assert.Equal(t, 0, llm.calls)

	llm.reply = `[{"question": "Where did Alex ride?", "options": ["park", "beach", "school", "store"], "correctAnswer": "park"}]`
	questions, err := g.GenerateQuiz(context.Background(), makeMemories(1), 1)
	require.NoError(t, err, "a single memory is enough for a quiz")
	assert.Len(t, questions, 1)
}

func TestGeneratePairs(t *testing.T) {
	llm := &fakeLLM{
		reply: `[
			{"id": 1, "word": "red bicycle", "match": "sixth birthday"},
			{"id": 2, "word": "apple pie", "match": "grandmother's kitchen"},
			{"id": 3, "word": "the beach", "match": "summer of 1962"},
			{"id": 4, "word": "Rusty", "match": "the family dog"}
		]`,
	}
	g := New(llm, discardLogger())

	pairs, err := g.GeneratePairs(context.Background(), makeMemories(3), 4)
	require.NoError(t, err)
	require.Len(t, pairs, 4)
	assert.Equal(t, "red bicycle", pairs[0].Word)
	assert.Equal(t, "sixth birthday", pairs[0].Match)
	assert.Equal(t, 1, llm.calls)
}

func TestGeneratePairsFencedReply(t *testing.T) {
	llm := &fakeLLM{
		reply: "```json\n[{\"id\": 1, \"word\": \"a\", \"match\": \"b\"}]\n```",
	}
	g := New(llm, discardLogger())

	pairs, err := g.GeneratePairs(context.Background(), makeMemories(3), 1)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "a", pairs[0].Word)
}

func TestGeneratePairsContentUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "network error", err: errors.New("connection refused")},
		{name: "not json", reply: "I'm sorry, I can't help with that."},
		{name: "empty array", reply: "[]"},
		{name: "empty pair side", reply: `[{"id": 1, "word": "", "match": "b"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(&fakeLLM{reply: tt.reply, err: tt.err}, discardLogger())
			_, err := g.GeneratePairs(context.Background(), makeMemories(3), 4)
			assert.ErrorIs(t, err, ErrContentUnavailable)
		})
	}
}

func TestGenerateQuizSchemaValidation(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{
			name:  "three options",
			reply: `[{"question": "q", "options": ["a", "b", "c"], "correctAnswer": "a"}]`,
		},
		{
			name:  "five options",
			reply: `[{"question": "q", "options": ["a", "b", "c", "d", "e"], "correctAnswer": "a"}]`,
		},
		{
			name:  "answer not in options",
			reply: `[{"question": "q", "options": ["a", "b", "c", "d"], "correctAnswer": "zzz"}]`,
		},
		{
			name:  "empty question",
			reply: `[{"question": "", "options": ["a", "b", "c", "d"], "correctAnswer": "a"}]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(&fakeLLM{reply: tt.reply}, discardLogger())
			_, err := g.GenerateQuiz(context.Background(), makeMemories(1), 1)
			assert.ErrorIs(t, err, ErrContentUnavailable)
		})
	}
}

func TestGenerateTimeline(t *testing.T) {
	llm := &fakeLLM{
		reply: `[
			{"id": 1, "description": "Got a red bicycle"},
			{"id": 2, "description": "Summer at the beach"},
			{"id": 3, "description": "Baked pies with grandmother"},
			{"id": 4, "description": "First day of school"}
		]`,
	}
	g := New(llm, discardLogger())

	events, err := g.GenerateTimeline(context.Background(), makeMemories(3), 4)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "Got a red bicycle", events[0].Description)
	assert.Equal(t, "First day of school", events[3].Description)
}

func TestUnmarshalArrayExtractsFromProse(t *testing.T) {
	var pairs []MatchPair
	err := unmarshalArray(`Here you go! [{"id": 1, "word": "a", "match": "b"}] Enjoy!`, &pairs)
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
}
