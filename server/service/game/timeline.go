package game

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/memorykeeper/memorykeeper/plugin/ai/generator"
)

// TimelineGame presents the generated events in shuffled order and lets the
// player sort them by swapping adjacent positions. The generator's order is
// authoritative for scoring.
type TimelineGame struct {
	authoritative []generator.TimelineEvent
	order         []generator.TimelineEvent
	hint          hintGuard
	finished      bool
}

// TimelineHint points at the first out-of-place item without correcting it.
type TimelineHint struct {
	// Position is the first index where the player's order diverges.
	Position int `json:"position"`
	// BelongsAt is where the item currently at Position should go.
	BelongsAt int `json:"belongsAt"`
}

func NewTimelineGame(events []generator.TimelineEvent, rng *rand.Rand) *TimelineGame {
	return &TimelineGame{
		authoritative: events,
		order:         Shuffle(events, rng),
	}
}

// Order returns the player's current arrangement.
func (g *TimelineGame) Order() []generator.TimelineEvent {
	return g.order
}

// Finished reports whether the player has checked their order.
func (g *TimelineGame) Finished() bool {
	return g.finished
}

// Swap exchanges the item at index with an adjacent position. direction is
// -1 for up or +1 for down.
func (g *TimelineGame) Swap(index, direction int) error {
	if g.finished {
		return errors.New("timeline already checked")
	}
	if direction != -1 && direction != 1 {
		return errors.Errorf("direction must be -1 or 1, got %d", direction)
	}
	target := index + direction
	if index < 0 || index >= len(g.order) || target < 0 || target >= len(g.order) {
		return errors.Errorf("swap of %d with %d out of range", index, target)
	}

	g.order[index], g.order[target] = g.order[target], g.order[index]
	return nil
}

// Hint finds the first index where the player's order diverges from the
// chronological order. Usable once per session; the order is untouched.
func (g *TimelineGame) Hint() (TimelineHint, error) {
	if g.finished {
		return TimelineHint{}, errors.New("timeline already checked")
	}
	if !g.hint.use() {
		return TimelineHint{}, errors.New("hint already used")
	}

	for i := range g.order {
		if g.order[i].ID != g.authoritative[i].ID {
			belongsAt := i
			for j := range g.authoritative {
				if g.authoritative[j].ID == g.order[i].ID {
					belongsAt = j
					break
				}
			}
			return TimelineHint{Position: i, BelongsAt: belongsAt}, nil
		}
	}
	return TimelineHint{Position: -1, BelongsAt: -1}, nil
}

// Check freezes the order and finishes the session.
func (g *TimelineGame) Check() error {
	if g.finished {
		return errors.New("timeline already checked")
	}
	g.finished = true
	return nil
}

// Score awards one point per position matching the chronological order,
// scaled to 100: round(100 * correctPositions / eventCount).
func (g *TimelineGame) Score() int32 {
	if len(g.authoritative) == 0 {
		return 0
	}
	correct := 0
	for i := range g.order {
		if g.order[i].ID == g.authoritative[i].ID {
			correct++
		}
	}
	return clampScore(int32(math.Round(100 * float64(correct) / float64(len(g.authoritative)))))
}
