package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorykeeper/memorykeeper/plugin/ai/generator"
)

func makeQuestions(n int) []generator.QuizQuestion {
	questions := make([]generator.QuizQuestion, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, generator.QuizQuestion{
			Question:      "q",
			Options:       []string{"right", "wrong1", "wrong2", "wrong3"},
			CorrectAnswer: "right",
		})
	}
	return questions
}

func TestQuizGameScoring(t *testing.T) {
	g := NewQuizGame(makeQuestions(4), rand.New(rand.NewSource(1)))

	answers := []string{"right", "right", "right", "wrong1"}
	for i, option := range answers {
		answer, err := g.Answer(option)
		require.NoError(t, err)
		assert.Equal(t, option == "right", answer.Correct, "question %d", i)
		assert.Equal(t, "right", answer.CorrectAnswer)
		require.NoError(t, g.Next())
	}

	assert.True(t, g.Finished())
	assert.Equal(t, int32(75), g.Score(), "3 of 4 correct rounds to 75")
}

func TestQuizGameAnswerLocksIn(t *testing.T) {
	g := NewQuizGame(makeQuestions(2), rand.New(rand.NewSource(2)))

	_, err := g.Answer("wrong1")
	require.NoError(t, err)

	_, err = g.Answer("right")
	assert.Error(t, err, "second answer for the same question is rejected")

	require.NoError(t, g.Next())
	_, err = g.Answer("right")
	assert.NoError(t, err, "next question accepts an answer again")
}

func TestQuizGameNextRequiresAnswer(t *testing.T) {
	g := NewQuizGame(makeQuestions(2), rand.New(rand.NewSource(3)))
	assert.Error(t, g.Next())
}

func TestQuizGameHintHidesOneIncorrectOption(t *testing.T) {
	g := NewQuizGame(makeQuestions(2), rand.New(rand.NewSource(4)))

	hidden, err := g.Hint()
	require.NoError(t, err)
	assert.NotEqual(t, "right", hidden, "hint never hides the correct answer")

	question, err := g.Question()
	require.NoError(t, err)
	assert.Len(t, question.Options, 3)
	assert.NotContains(t, question.Options, hidden)
	assert.Contains(t, question.Options, "right")

	// Hidden options cannot be answered.
	_, err = g.Answer(hidden)
	assert.Error(t, err)

	// One hint per question.
	_, err = g.Hint()
	assert.Error(t, err)
}

func TestQuizGameHintResetsPerQuestion(t *testing.T) {
	g := NewQuizGame(makeQuestions(2), rand.New(rand.NewSource(5)))

	_, err := g.Hint()
	require.NoError(t, err)
	_, err = g.Answer("right")
	require.NoError(t, err)
	require.NoError(t, g.Next())

	question, err := g.Question()
	require.NoError(t, err)
	assert.Len(t, question.Options, 4, "hidden option does not carry over")

	_, err = g.Hint()
	assert.NoError(t, err, "hint is available again on the next question")
}

func TestQuizGameHintUnavailableAfterAnswering(t *testing.T) {
	g := NewQuizGame(makeQuestions(1), rand.New(rand.NewSource(6)))

	_, err := g.Answer("right")
	require.NoError(t, err)
	_, err = g.Hint()
	assert.Error(t, err)
}
