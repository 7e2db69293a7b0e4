package game

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/memorykeeper/memorykeeper/plugin/ai/generator"
)

const matchHintPenalty = 3

// Card is one face of a match pair.
type Card struct {
	ID      int    `json:"id"`
	PairID  int    `json:"pairId"`
	Text    string `json:"text"`
	FaceUp  bool   `json:"faceUp"`
	Matched bool   `json:"matched"`
}

// MatchOutcome reports what a card selection did.
type MatchOutcome struct {
	// Accepted is false when the click was ignored (two cards already up,
	// card already face up, or its pair already matched).
	Accepted bool `json:"accepted"`
	// Evaluated is true when this selection completed an attempt.
	Evaluated bool `json:"evaluated"`
	Matched   bool `json:"matched"`
	Finished  bool `json:"finished"`
}

// MatchHint reveals one true pair at the cost of extra attempts.
type MatchHint struct {
	FirstCard  int `json:"firstCard"`
	SecondCard int `json:"secondCard"`
}

// MatchGame is the card matching engine. Attempts accumulate per evaluated
// pair of selections; every attempt beyond the minimum costs score.
type MatchGame struct {
	pairCount int
	cards     []Card
	selected  []int
	attempts  int
	matched   int
	hint      hintGuard
	finished  bool
}

// NewMatchGame builds two cards per pair and shuffles the deck.
func NewMatchGame(pairs []generator.MatchPair, rng *rand.Rand) *MatchGame {
	cards := make([]Card, 0, len(pairs)*2)
	for _, p := range pairs {
		cards = append(cards,
			Card{ID: len(cards), PairID: p.ID, Text: p.Word},
			Card{ID: len(cards) + 1, PairID: p.ID, Text: p.Match},
		)
	}
	cards = Shuffle(cards, rng)
	for i := range cards {
		cards[i].ID = i
	}
	return &MatchGame{
		pairCount: len(pairs),
		cards:     cards,
		selected:  make([]int, 0, 2),
	}
}

// Cards returns the current deck state.
func (g *MatchGame) Cards() []Card {
	return g.cards
}

// Finished reports whether every pair has been matched.
func (g *MatchGame) Finished() bool {
	return g.finished
}

// Attempts returns the running attempt counter, hint penalties included.
func (g *MatchGame) Attempts() int {
	return g.attempts
}

// SelectCard flips the card at index and evaluates the attempt once two
// cards are up. Out-of-rules clicks are ignored, not errors.
func (g *MatchGame) SelectCard(index int) (MatchOutcome, error) {
	if index < 0 || index >= len(g.cards) {
		return MatchOutcome{}, errors.Errorf("card index %d out of range", index)
	}
	if g.finished {
		return MatchOutcome{}, errors.New("game already finished")
	}

	card := &g.cards[index]
	if len(g.selected) == 2 || card.FaceUp || card.Matched {
		return MatchOutcome{}, nil
	}

	card.FaceUp = true
	g.selected = append(g.selected, index)
	if len(g.selected) < 2 {
		return MatchOutcome{Accepted: true}, nil
	}

	g.attempts++
	first, second := &g.cards[g.selected[0]], &g.cards[g.selected[1]]
	outcome := MatchOutcome{Accepted: true, Evaluated: true}

	if first.PairID == second.PairID {
		first.Matched, second.Matched = true, true
		g.matched++
		outcome.Matched = true
		if g.matched == g.pairCount {
			g.finished = true
			outcome.Finished = true
		}
	} else {
		first.FaceUp, second.FaceUp = false, false
	}

	g.selected = g.selected[:0]
	return outcome, nil
}

// Hint reveals one unmatched pair and charges the attempt penalty. Usable
// once per session and not while two cards are already selected.
func (g *MatchGame) Hint() (MatchHint, error) {
	if g.finished {
		return MatchHint{}, errors.New("game already finished")
	}
	if len(g.selected) == 2 {
		return MatchHint{}, errors.New("hint unavailable while two cards are selected")
	}
	if !g.hint.use() {
		return MatchHint{}, errors.New("hint already used")
	}

	g.attempts += matchHintPenalty
	for i := range g.cards {
		if g.cards[i].Matched {
			continue
		}
		for j := i + 1; j < len(g.cards); j++ {
			if g.cards[j].PairID == g.cards[i].PairID {
				return MatchHint{FirstCard: i, SecondCard: j}, nil
			}
		}
	}
	return MatchHint{}, errors.New("no unmatched pair left")
}

// Score is clamp(100 - 5 * (attempts - pairCount), 0, 100). A perfect run
// scores 100; every extra attempt costs 5 points.
func (g *MatchGame) Score() int32 {
	return clampScore(int32(100 - 5*(g.attempts-g.pairCount)))
}
