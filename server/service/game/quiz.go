package game

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/memorykeeper/memorykeeper/plugin/ai/generator"
)

// QuizGame walks through the generated questions one at a time. Answers
// lock in; the per-question hint hides one incorrect option.
type QuizGame struct {
	questions []generator.QuizQuestion
	rng       *rand.Rand

	index    int
	correct  int
	answered bool
	hidden   string
	hint     hintGuard
	finished bool
}

// QuizAnswer reports the result of locking in an option.
type QuizAnswer struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
}

func NewQuizGame(questions []generator.QuizQuestion, rng *rand.Rand) *QuizGame {
	return &QuizGame{questions: questions, rng: rng}
}

// Question returns the current question with any hidden option removed.
func (g *QuizGame) Question() (generator.QuizQuestion, error) {
	if g.finished {
		return generator.QuizQuestion{}, errors.New("quiz already finished")
	}

	q := g.questions[g.index]
	if g.hidden == "" {
		return q, nil
	}

	options := make([]string, 0, len(q.Options)-1)
	for _, opt := range q.Options {
		if opt != g.hidden {
			options = append(options, opt)
		}
	}
	q.Options = options
	return q, nil
}

// Index returns the zero-based current question index.
func (g *QuizGame) Index() int {
	return g.index
}

// Finished reports whether every question has been answered and advanced past.
func (g *QuizGame) Finished() bool {
	return g.finished
}

// Answer locks in an option for the current question. Further answers for
// the same question are rejected.
func (g *QuizGame) Answer(option string) (QuizAnswer, error) {
	if g.finished {
		return QuizAnswer{}, errors.New("quiz already finished")
	}
	if g.answered {
		return QuizAnswer{}, errors.New("question already answered")
	}

	q := g.questions[g.index]
	valid := false
	for _, opt := range q.Options {
		if opt == option {
			valid = true
			break
		}
	}
	if !valid || option == g.hidden {
		return QuizAnswer{}, errors.Errorf("option %q is not available", option)
	}

	g.answered = true
	answer := QuizAnswer{CorrectAnswer: q.CorrectAnswer}
	if option == q.CorrectAnswer {
		g.correct++
		answer.Correct = true
	}
	return answer, nil
}

// Hint hides one incorrect option for the current question, chosen at
// random. Usable once per question and only before answering.
func (g *QuizGame) Hint() (string, error) {
	if g.finished {
		return "", errors.New("quiz already finished")
	}
	if g.answered {
		return "", errors.New("hint unavailable after answering")
	}
	if !g.hint.use() {
		return "", errors.New("hint already used for this question")
	}

	q := g.questions[g.index]
	incorrect := make([]string, 0, len(q.Options)-1)
	for _, opt := range q.Options {
		if opt != q.CorrectAnswer {
			incorrect = append(incorrect, opt)
		}
	}
	g.hidden = incorrect[g.rng.Intn(len(incorrect))]
	return g.hidden, nil
}

// Next advances to the following question, resetting per-question state.
// Advancing past the last question finishes the quiz.
func (g *QuizGame) Next() error {
	if g.finished {
		return errors.New("quiz already finished")
	}
	if !g.answered {
		return errors.New("current question not answered yet")
	}

	g.answered = false
	g.hidden = ""
	g.hint.reset()

	g.index++
	if g.index >= len(g.questions) {
		g.finished = true
	}
	return nil
}

// Score is round(100 * correct / questionCount).
func (g *QuizGame) Score() int32 {
	if len(g.questions) == 0 {
		return 0
	}
	return clampScore(int32(math.Round(100 * float64(g.correct) / float64(len(g.questions)))))
}
