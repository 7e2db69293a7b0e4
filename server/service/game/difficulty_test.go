package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectDifficulty(t *testing.T) {
	tests := []struct {
		strength int32
		want     Difficulty
	}{
		{0, DifficultyEasy},
		{39, DifficultyEasy},
		{40, DifficultyMedium},
		{69, DifficultyMedium},
		{70, DifficultyHard},
		{100, DifficultyHard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SelectDifficulty(tt.strength), "strength %d", tt.strength)
	}
}

func TestContentCounts(t *testing.T) {
	assert.Equal(t, 4, PairCount(DifficultyEasy))
	assert.Equal(t, 6, PairCount(DifficultyMedium))
	assert.Equal(t, 8, PairCount(DifficultyHard))

	assert.Equal(t, 3, QuestionCount(DifficultyEasy))
	assert.Equal(t, 4, QuestionCount(DifficultyMedium))
	assert.Equal(t, 5, QuestionCount(DifficultyHard))

	assert.Equal(t, 4, EventCount(DifficultyEasy))
	assert.Equal(t, 5, EventCount(DifficultyMedium))
	assert.Equal(t, 6, EventCount(DifficultyHard))
}
