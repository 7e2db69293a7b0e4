package game

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShufflePreservesElements(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}

	shuffled := Shuffle(items, rng)
	require.Len(t, shuffled, len(items))
	assert.ElementsMatch(t, items, shuffled)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, items, "input must not be mutated")
}

func TestShuffleProducesDifferentOrders(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}

	seen := map[[8]int]bool{}
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		var key [8]int
		copy(key[:], Shuffle(items, rng))
		seen[key] = true
	}
	assert.Greater(t, len(seen), 10, "50 seeds should produce many distinct orders")
}

func TestShuffleEmptyAndSingle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Empty(t, Shuffle([]int{}, rng))
	assert.Equal(t, []int{7}, Shuffle([]int{7}, rng))
}

func TestLockedRandConcurrentSeeds(t *testing.T) {
	seeds := newLockedRand(1)

	var wg sync.WaitGroup
	results := make(chan int64, 8*100)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				results <- seeds.Int63()
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := map[int64]bool{}
	for v := range results {
		seen[v] = true
	}
	assert.Len(t, seen, 8*100, "seeds must be distinct under concurrency")
}

func TestHintGuard(t *testing.T) {
	var g hintGuard
	assert.True(t, g.use())
	assert.False(t, g.use())
	g.reset()
	assert.True(t, g.use())
}
