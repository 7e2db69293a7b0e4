package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorykeeper/memorykeeper/plugin/ai/generator"
)

func makePairs(n int) []generator.MatchPair {
	pairs := make([]generator.MatchPair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, generator.MatchPair{ID: i + 1, Word: "w", Match: "m"})
	}
	return pairs
}

// pairIndexes maps pair ID to the two card indexes holding it.
func pairIndexes(g *MatchGame) map[int][2]int {
	byPair := map[int][]int{}
	for i, c := range g.Cards() {
		byPair[c.PairID] = append(byPair[c.PairID], i)
	}
	out := map[int][2]int{}
	for id, idx := range byPair {
		out[id] = [2]int{idx[0], idx[1]}
	}
	return out
}

func playMismatch(t *testing.T, g *MatchGame) {
	t.Helper()
	cards := g.Cards()
	first, second := -1, -1
	for i, c := range cards {
		if c.Matched || c.FaceUp {
			continue
		}
		if first == -1 {
			first = i
			continue
		}
		if cards[first].PairID != c.PairID {
			second = i
			break
		}
	}
	require.GreaterOrEqual(t, second, 0, "need two unmatched cards of different pairs")

	out, err := g.SelectCard(first)
	require.NoError(t, err)
	require.True(t, out.Accepted)
	out, err = g.SelectCard(second)
	require.NoError(t, err)
	require.True(t, out.Evaluated)
	require.False(t, out.Matched)
}

func playPerfect(t *testing.T, g *MatchGame) {
	t.Helper()
	for id, idx := range pairIndexes(g) {
		if g.Cards()[idx[0]].Matched {
			continue
		}
		_, err := g.SelectCard(idx[0])
		require.NoError(t, err)
		out, err := g.SelectCard(idx[1])
		require.NoError(t, err)
		require.True(t, out.Matched, "pair %d should match", id)
	}
}

func TestMatchGameBuildsTwoCardsPerPair(t *testing.T) {
	g := NewMatchGame(makePairs(4), rand.New(rand.NewSource(1)))
	assert.Len(t, g.Cards(), 8)
}

func TestMatchGamePerfectRunScores100(t *testing.T) {
	g := NewMatchGame(makePairs(6), rand.New(rand.NewSource(2)))

	playPerfect(t, g)
	assert.True(t, g.Finished())
	assert.Equal(t, 6, g.Attempts())
	assert.Equal(t, int32(100), g.Score())
}

func TestMatchGameExtraAttemptsCostFivePoints(t *testing.T) {
	g := NewMatchGame(makePairs(6), rand.New(rand.NewSource(3)))

	for i := 0; i < 4; i++ {
		playMismatch(t, g)
	}
	playPerfect(t, g)

	assert.Equal(t, 10, g.Attempts())
	assert.Equal(t, int32(80), g.Score())
}

func TestMatchGameScoreClampsToZero(t *testing.T) {
	g := NewMatchGame(makePairs(6), rand.New(rand.NewSource(4)))

	for i := 0; i < 20; i++ {
		playMismatch(t, g)
	}
	playPerfect(t, g)

	assert.Equal(t, 26, g.Attempts())
	assert.Equal(t, int32(0), g.Score())
}

func TestMatchGameIgnoresOutOfRulesClicks(t *testing.T) {
	g := NewMatchGame(makePairs(4), rand.New(rand.NewSource(5)))

	out, err := g.SelectCard(0)
	require.NoError(t, err)
	require.True(t, out.Accepted)

	// Clicking the same face-up card again is ignored.
	out, err = g.SelectCard(0)
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, 0, g.Attempts())

	// Clicking a matched card is ignored.
	idx := pairIndexes(g)[g.Cards()[0].PairID]
	other := idx[0]
	if other == 0 {
		other = idx[1]
	}
	out, err = g.SelectCard(other)
	require.NoError(t, err)
	require.True(t, out.Matched)

	out, err = g.SelectCard(idx[0])
	require.NoError(t, err)
	assert.False(t, out.Accepted)
}

func TestMatchGameHint(t *testing.T) {
	g := NewMatchGame(makePairs(4), rand.New(rand.NewSource(6)))

	hint, err := g.Hint()
	require.NoError(t, err)
	assert.Equal(t, g.Cards()[hint.FirstCard].PairID, g.Cards()[hint.SecondCard].PairID)
	assert.Equal(t, matchHintPenalty, g.Attempts())

	_, err = g.Hint()
	assert.Error(t, err, "hint is one-shot per session")
}

func TestMatchGameHintedRunScore(t *testing.T) {
	g := NewMatchGame(makePairs(4), rand.New(rand.NewSource(7)))

	_, err := g.Hint()
	require.NoError(t, err)
	playPerfect(t, g)

	// 4 matching attempts + 3 penalty = 7, score 100 - 5*3 = 85.
	assert.Equal(t, int32(85), g.Score())
}
