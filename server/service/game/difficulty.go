package game

// Difficulty is the tier a session is played at.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// GameType identifies one of the three mini-games.
type GameType string

const (
	GameTypeMatch    GameType = "match"
	GameTypeQuiz     GameType = "quiz"
	GameTypeTimeline GameType = "timeline"
)

// SelectDifficulty maps a memory strength score to a tier. Pure and total.
func SelectDifficulty(strength int32) Difficulty {
	switch {
	case strength < 40:
		return DifficultyEasy
	case strength < 70:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// Fixed content counts per tier. These are lookup tables, not formulas.
var (
	pairCounts     = map[Difficulty]int{DifficultyEasy: 4, DifficultyMedium: 6, DifficultyHard: 8}
	questionCounts = map[Difficulty]int{DifficultyEasy: 3, DifficultyMedium: 4, DifficultyHard: 5}
	eventCounts    = map[Difficulty]int{DifficultyEasy: 4, DifficultyMedium: 5, DifficultyHard: 6}
)

// PairCount returns how many match pairs a session at this tier requests.
func PairCount(d Difficulty) int {
	return pairCounts[d]
}

// QuestionCount returns how many quiz questions a session at this tier requests.
func QuestionCount(d Difficulty) int {
	return questionCounts[d]
}

// EventCount returns how many timeline events a session at this tier requests.
func EventCount(d Difficulty) int {
	return eventCounts[d]
}
