package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorykeeper/memorykeeper/plugin/ai/generator"
)

func makeEvents(n int) []generator.TimelineEvent {
	events := make([]generator.TimelineEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, generator.TimelineEvent{ID: i + 1, Description: "event"})
	}
	return events
}

// sortByID restores chronological order with adjacent swaps only, the same
// moves a player has.
func sortByID(t *testing.T, g *TimelineGame) {
	t.Helper()
	n := len(g.Order())
	for pass := 0; pass < n; pass++ {
		for i := 0; i < n-1; i++ {
			if g.Order()[i].ID > g.Order()[i+1].ID {
				require.NoError(t, g.Swap(i, 1))
			}
		}
	}
}

func TestTimelineGamePerfectOrderScores100(t *testing.T) {
	g := NewTimelineGame(makeEvents(5), rand.New(rand.NewSource(1)))

	sortByID(t, g)
	require.NoError(t, g.Check())
	assert.True(t, g.Finished())
	assert.Equal(t, int32(100), g.Score())
}

func TestTimelineGamePartialOrderScoring(t *testing.T) {
	g := NewTimelineGame(makeEvents(5), rand.New(rand.NewSource(2)))

	sortByID(t, g)
	// Displace one adjacent pair: 3 of 5 positions stay correct.
	require.NoError(t, g.Swap(0, 1))
	require.NoError(t, g.Check())
	assert.Equal(t, int32(60), g.Score(), "round(100*3/5)")
}

func TestTimelineGameSwapValidation(t *testing.T) {
	g := NewTimelineGame(makeEvents(4), rand.New(rand.NewSource(3)))

	assert.Error(t, g.Swap(0, -1), "cannot swap above the top")
	assert.Error(t, g.Swap(3, 1), "cannot swap below the bottom")
	assert.Error(t, g.Swap(1, 2), "only adjacent swaps are allowed")
	assert.NoError(t, g.Swap(1, -1))
	assert.NoError(t, g.Swap(1, 1))
}

func TestTimelineGameHintFindsFirstDivergence(t *testing.T) {
	g := NewTimelineGame(makeEvents(5), rand.New(rand.NewSource(4)))

	sortByID(t, g)
	require.NoError(t, g.Swap(1, 1))

	hint, err := g.Hint()
	require.NoError(t, err)
	assert.Equal(t, 1, hint.Position)
	assert.Equal(t, 2, hint.BelongsAt)

	// Order must not be auto-corrected.
	assert.Equal(t, 3, g.Order()[1].ID)

	_, err = g.Hint()
	assert.Error(t, err, "hint is one-shot per session")
}

func TestTimelineGameCheckFreezesOrder(t *testing.T) {
	g := NewTimelineGame(makeEvents(4), rand.New(rand.NewSource(5)))

	require.NoError(t, g.Check())
	assert.Error(t, g.Swap(0, 1))
	assert.Error(t, g.Check())
}
