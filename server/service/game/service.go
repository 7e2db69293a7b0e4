// Package game hosts the three memory mini-games: difficulty selection,
// content generation, the session state machines, scoring, and the memory
// strength update that follows every completed session.
package game

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/memorykeeper/memorykeeper/plugin/ai/generator"
	"github.com/memorykeeper/memorykeeper/store"
)

const sessionTTL = 30 * time.Minute

var (
	// ErrSessionNotFound covers unknown and expired session IDs alike.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionNotFinished is returned when completing a session whose
	// engine has not reached its terminal state.
	ErrSessionNotFinished = errors.New("game session not finished")
	// ErrWrongGameType is returned when an operation targets a session of a
	// different game.
	ErrWrongGameType = errors.New("operation does not match the session's game type")
)

// ContentGenerator is what the service needs from the generation gateway.
type ContentGenerator interface {
	GeneratePairs(ctx context.Context, memories []*store.Memory, count int) ([]generator.MatchPair, error)
	GenerateQuiz(ctx context.Context, memories []*store.Memory, count int) ([]generator.QuizQuestion, error)
	GenerateTimeline(ctx context.Context, memories []*store.Memory, count int) ([]generator.TimelineEvent, error)
}

// Service owns game sessions end to end.
type Service struct {
	store     *store.Store
	generator ContentGenerator
	sessions  *sessionStore
	seeds     *lockedRand
	logger    *slog.Logger
}

func NewService(st *store.Store, gen ContentGenerator, logger *slog.Logger) *Service {
	return &Service{
		store:     st,
		generator: gen,
		sessions:  newSessionStore(sessionTTL),
		seeds:     newLockedRand(time.Now().UnixNano()),
		logger:    logger,
	}
}

// Close releases the session store.
func (s *Service) Close() {
	s.sessions.close()
}

// StartSession selects a difficulty from the user's memory strength,
// generates content, and returns a live session. When the user has too few
// memories the session comes back degenerate: finished, score zero, and
// excluded from strength updates.
func (s *Service) StartSession(ctx context.Context, userID int32, gameType GameType) (*Session, error) {
	user, err := s.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user")
	}
	if user == nil {
		return nil, errors.Errorf("user %d not found", userID)
	}

	memories, err := s.store.ListMemories(ctx, &store.FindMemory{CreatorID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list memories")
	}

	difficulty := SelectDifficulty(user.MemoryStrength)
	session := &Session{
		ID:         newSessionID(),
		UserID:     userID,
		Type:       gameType,
		Difficulty: difficulty,
		CreatedAt:  time.Now(),
	}
	rng := rand.New(rand.NewSource(s.seeds.Int63()))

	switch gameType {
	case GameTypeMatch:
		pairs, err := s.generator.GeneratePairs(ctx, memories, PairCount(difficulty))
		if errors.Is(err, generator.ErrNotEnoughMemories) {
			session.Degenerate = true
		} else if err != nil {
			return nil, err
		} else {
			session.match = NewMatchGame(pairs, rng)
		}
	case GameTypeQuiz:
		questions, err := s.generator.GenerateQuiz(ctx, memories, QuestionCount(difficulty))
		if errors.Is(err, generator.ErrNotEnoughMemories) {
			session.Degenerate = true
		} else if err != nil {
			return nil, err
		} else {
			session.quiz = NewQuizGame(questions, rng)
		}
	case GameTypeTimeline:
		events, err := s.generator.GenerateTimeline(ctx, memories, EventCount(difficulty))
		if errors.Is(err, generator.ErrNotEnoughMemories) {
			session.Degenerate = true
		} else if err != nil {
			return nil, err
		} else {
			session.timeline = NewTimelineGame(events, rng)
		}
	default:
		return nil, errors.Errorf("unknown game type %q", gameType)
	}

	s.sessions.put(session)
	s.logger.Info("game session started",
		slog.String("session_id", session.ID),
		slog.Int64("user_id", int64(userID)),
		slog.String("game_type", string(gameType)),
		slog.String("difficulty", string(difficulty)),
		slog.Bool("degenerate", session.Degenerate))
	return session, nil
}

// GetSession returns a live session by ID.
func (s *Service) GetSession(id string) (*Session, error) {
	session, ok := s.sessions.get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// SelectCard flips a card in a match session.
func (s *Service) SelectCard(sessionID string, index int) (MatchOutcome, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return MatchOutcome{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.match == nil {
		return MatchOutcome{}, ErrWrongGameType
	}
	return session.match.SelectCard(index)
}

// MatchHint reveals one pair in a match session.
func (s *Service) MatchHint(sessionID string) (MatchHint, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return MatchHint{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.match == nil {
		return MatchHint{}, ErrWrongGameType
	}
	return session.match.Hint()
}

// CurrentQuestion returns the active quiz question.
func (s *Service) CurrentQuestion(sessionID string) (generator.QuizQuestion, int, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return generator.QuizQuestion{}, 0, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.quiz == nil {
		return generator.QuizQuestion{}, 0, ErrWrongGameType
	}
	question, err := session.quiz.Question()
	return question, session.quiz.Index(), err
}

// AnswerQuestion locks in an option for the active quiz question.
func (s *Service) AnswerQuestion(sessionID, option string) (QuizAnswer, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return QuizAnswer{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.quiz == nil {
		return QuizAnswer{}, ErrWrongGameType
	}
	return session.quiz.Answer(option)
}

// QuizHint hides one incorrect option for the active question.
func (s *Service) QuizHint(sessionID string) (string, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return "", err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.quiz == nil {
		return "", ErrWrongGameType
	}
	return session.quiz.Hint()
}

// NextQuestion advances the quiz.
func (s *Service) NextQuestion(sessionID string) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.quiz == nil {
		return ErrWrongGameType
	}
	return session.quiz.Next()
}

// SwapEvents exchanges adjacent timeline positions.
func (s *Service) SwapEvents(sessionID string, index, direction int) ([]generator.TimelineEvent, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.timeline == nil {
		return nil, ErrWrongGameType
	}
	if err := session.timeline.Swap(index, direction); err != nil {
		return nil, err
	}
	return session.timeline.Order(), nil
}

// TimelineHint points at the first out-of-order event.
func (s *Service) TimelineHint(sessionID string) (TimelineHint, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return TimelineHint{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.timeline == nil {
		return TimelineHint{}, ErrWrongGameType
	}
	return session.timeline.Hint()
}

// CheckOrder freezes a timeline session for scoring.
func (s *Service) CheckOrder(sessionID string) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.timeline == nil {
		return ErrWrongGameType
	}
	return session.timeline.Check()
}

// CompleteSession scores a finished session, persists the result, folds the
// score into the user's memory strength, and retires the session. Degenerate
// sessions record a zero score and leave strength untouched.
func (s *Service) CompleteSession(ctx context.Context, sessionID string) (*store.GameResult, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	score, err := sessionScore(session)
	session.mu.Unlock()
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, &store.FindUser{ID: &session.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user")
	}
	if user == nil {
		return nil, errors.Errorf("user %d not found", session.UserID)
	}

	before := user.MemoryStrength
	after := before
	if !session.Degenerate {
		after = UpdateStrength(before, score)
		if _, err := s.store.UpdateUser(ctx, &store.UpdateUser{
			ID:             user.ID,
			MemoryStrength: &after,
		}); err != nil {
			return nil, errors.Wrap(err, "failed to update memory strength")
		}
	}

	result, err := s.store.CreateGameResult(ctx, &store.GameResult{
		SessionID:      session.ID,
		UserID:         session.UserID,
		GameType:       string(session.Type),
		Difficulty:     string(session.Difficulty),
		Score:          score,
		StrengthBefore: before,
		StrengthAfter:  after,
		Degenerate:     session.Degenerate,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to record game result")
	}

	s.sessions.delete(session.ID)
	s.logger.Info("game session completed",
		slog.String("session_id", session.ID),
		slog.Int64("user_id", int64(session.UserID)),
		slog.Int64("score", int64(score)),
		slog.Int64("strength_before", int64(before)),
		slog.Int64("strength_after", int64(after)))
	return result, nil
}

// sessionScore reads the terminal score. The caller holds the session lock.
func sessionScore(session *Session) (int32, error) {
	if session.Degenerate {
		return 0, nil
	}
	switch {
	case session.match != nil:
		if !session.match.Finished() {
			return 0, ErrSessionNotFinished
		}
		return session.match.Score(), nil
	case session.quiz != nil:
		if !session.quiz.Finished() {
			return 0, ErrSessionNotFinished
		}
		return session.quiz.Score(), nil
	case session.timeline != nil:
		if !session.timeline.Finished() {
			return 0, ErrSessionNotFinished
		}
		return session.timeline.Score(), nil
	}
	return 0, errors.New("session has no engine")
}

// SnapshotCards exposes the deck for a match session.
func (s *Service) SnapshotCards(sessionID string) ([]Card, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.match == nil {
		return nil, ErrWrongGameType
	}
	return session.match.Cards(), nil
}

// SnapshotOrder exposes the player's current order for a timeline session.
func (s *Service) SnapshotOrder(sessionID string) ([]generator.TimelineEvent, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.timeline == nil {
		return nil, ErrWrongGameType
	}
	return session.timeline.Order(), nil
}
