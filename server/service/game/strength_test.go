package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateStrength(t *testing.T) {
	tests := []struct {
		prior int32
		score int32
		want  int32
	}{
		{80, 100, 82},
		{50, 0, 45},
		{20, 100, 28},
		{0, 0, 0},
		{100, 100, 100},
		{0, 100, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UpdateStrength(tt.prior, tt.score),
			"update(%d, %d)", tt.prior, tt.score)
	}
}
