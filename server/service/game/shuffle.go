package game

import "math/rand"

// Shuffle returns a copy of items in uniformly random order using the
// Durstenfeld variant of Fisher-Yates. The random source is injected so
// tests can run deterministically.
func Shuffle[T any](items []T, rng *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// hintGuard enforces a one-shot hint. Each engine owns one per scope (per
// session for match and timeline, per question for the quiz).
type hintGuard struct {
	used bool
}

// use consumes the hint. Returns false if it was already spent.
func (h *hintGuard) use() bool {
	if h.used {
		return false
	}
	h.used = true
	return true
}

func (h *hintGuard) reset() {
	h.used = false
}
