package game

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorykeeper/memorykeeper/internal/profile"
	"github.com/memorykeeper/memorykeeper/internal/version"
	"github.com/memorykeeper/memorykeeper/plugin/ai/generator"
	"github.com/memorykeeper/memorykeeper/store"
	"github.com/memorykeeper/memorykeeper/store/db"
)

type fakeGenerator struct {
	pairs     []generator.MatchPair
	questions []generator.QuizQuestion
	events    []generator.TimelineEvent
	err       error

	pairCount     int
	questionCount int
	eventCount    int
}

func (f *fakeGenerator) GeneratePairs(_ context.Context, _ []*store.Memory, count int) ([]generator.MatchPair, error) {
	f.pairCount = count
	return f.pairs, f.err
}

func (f *fakeGenerator) GenerateQuiz(_ context.Context, _ []*store.Memory, count int) ([]generator.QuizQuestion, error) {
	f.questionCount = count
	return f.questions, f.err
}

func (f *fakeGenerator) GenerateTimeline(_ context.Context, _ []*store.Memory, count int) ([]generator.TimelineEvent, error) {
	f.eventCount = count
	return f.events, f.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()

	mode := "prod"
	p := &profile.Profile{
		Mode:    mode,
		Driver:  "sqlite",
		DSN:     filepath.Join(t.TempDir(), "memorykeeper_test.db"),
		Version: version.GetCurrentVersion(mode),
	}
	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)

	st := store.New(driver, p)
	require.NoError(t, st.Migrate(ctx))
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func newTestUser(t *testing.T, st *store.Store, strength int32) *store.User {
	t.Helper()
	user, err := st.CreateUser(context.Background(), &store.User{
		UID:            "test-user",
		Name:           "Alex",
		MemoryStrength: strength,
	})
	require.NoError(t, err)
	return user
}

func seedMemories(t *testing.T, st *store.Store, userID int32, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := st.CreateMemory(context.Background(), &store.Memory{
			UID:       newSessionID(),
			CreatorID: userID,
			Content:   "a memory",
		})
		require.NoError(t, err)
	}
}

func newTestService(t *testing.T, st *store.Store, gen ContentGenerator) *Service {
	t.Helper()
	svc := NewService(st, gen, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(svc.Close)
	return svc
}

func TestStartSessionSelectsCountFromStrength(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := newTestUser(t, st, 20)
	seedMemories(t, st, user.ID, 3)

	gen := &fakeGenerator{pairs: makePairs(4)}
	svc := newTestService(t, st, gen)

	session, err := svc.StartSession(ctx, user.ID, GameTypeMatch)
	require.NoError(t, err)
	assert.Equal(t, DifficultyEasy, session.Difficulty)
	assert.Equal(t, 4, gen.pairCount, "easy tier requests 4 pairs")
	assert.False(t, session.Degenerate)

	cards, err := svc.SnapshotCards(session.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 8)
}

func TestEndToEndPerfectMatchSession(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := newTestUser(t, st, 20)
	seedMemories(t, st, user.ID, 3)

	svc := newTestService(t, st, &fakeGenerator{pairs: makePairs(4)})

	session, err := svc.StartSession(ctx, user.ID, GameTypeMatch)
	require.NoError(t, err)

	cards, err := svc.SnapshotCards(session.ID)
	require.NoError(t, err)
	byPair := map[int][]int{}
	for i, c := range cards {
		byPair[c.PairID] = append(byPair[c.PairID], i)
	}
	for _, idx := range byPair {
		_, err := svc.SelectCard(session.ID, idx[0])
		require.NoError(t, err)
		out, err := svc.SelectCard(session.ID, idx[1])
		require.NoError(t, err)
		require.True(t, out.Matched)
	}

	result, err := svc.CompleteSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(100), result.Score)
	assert.Equal(t, int32(20), result.StrengthBefore)
	assert.Equal(t, int32(28), result.StrengthAfter, "round(20*0.9 + 100*0.1)")

	updated, err := st.GetUser(ctx, &store.FindUser{ID: &user.ID})
	require.NoError(t, err)
	assert.Equal(t, int32(28), updated.MemoryStrength)

	// Session is retired after completion.
	_, err = svc.GetSession(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	results, err := st.ListGameResults(ctx, &store.FindGameResult{UserID: &user.ID})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, session.ID, results[0].SessionID)
}

func TestDegenerateSessionLeavesStrengthUntouched(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := newTestUser(t, st, 50)

	svc := newTestService(t, st, &fakeGenerator{err: generator.ErrNotEnoughMemories})

	session, err := svc.StartSession(ctx, user.ID, GameTypeMatch)
	require.NoError(t, err)
	assert.True(t, session.Degenerate)

	result, err := svc.CompleteSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(0), result.Score)
	assert.True(t, result.Degenerate)
	assert.Equal(t, result.StrengthBefore, result.StrengthAfter)

	updated, err := st.GetUser(ctx, &store.FindUser{ID: &user.ID})
	require.NoError(t, err)
	assert.Equal(t, int32(50), updated.MemoryStrength)
}

func TestStartSessionPropagatesContentUnavailable(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := newTestUser(t, st, 50)
	seedMemories(t, st, user.ID, 3)

	svc := newTestService(t, st, &fakeGenerator{err: generator.ErrContentUnavailable})

	_, err := svc.StartSession(ctx, user.ID, GameTypeMatch)
	assert.ErrorIs(t, err, generator.ErrContentUnavailable)
}

func TestCompleteSessionRequiresFinishedEngine(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := newTestUser(t, st, 50)
	seedMemories(t, st, user.ID, 3)

	svc := newTestService(t, st, &fakeGenerator{pairs: makePairs(6)})

	session, err := svc.StartSession(ctx, user.ID, GameTypeMatch)
	require.NoError(t, err)

	_, err = svc.CompleteSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFinished)
}

func TestQuizSessionFlow(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := newTestUser(t, st, 50)
	seedMemories(t, st, user.ID, 1)

	svc := newTestService(t, st, &fakeGenerator{questions: makeQuestions(4)})

	session, err := svc.StartSession(ctx, user.ID, GameTypeQuiz)
	require.NoError(t, err)
	assert.Equal(t, DifficultyMedium, session.Difficulty)

	answers := []string{"right", "right", "right", "wrong1"}
	for _, option := range answers {
		_, _, err := svc.CurrentQuestion(session.ID)
		require.NoError(t, err)
		_, err = svc.AnswerQuestion(session.ID, option)
		require.NoError(t, err)
		require.NoError(t, svc.NextQuestion(session.ID))
	}

	result, err := svc.CompleteSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(75), result.Score)
}

func TestWrongGameTypeOperations(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	user := newTestUser(t, st, 50)
	seedMemories(t, st, user.ID, 3)

	svc := newTestService(t, st, &fakeGenerator{pairs: makePairs(4)})

	session, err := svc.StartSession(ctx, user.ID, GameTypeMatch)
	require.NoError(t, err)

	_, err = svc.AnswerQuestion(session.ID, "right")
	assert.ErrorIs(t, err, ErrWrongGameType)
	_, err = svc.TimelineHint(session.ID)
	assert.ErrorIs(t, err, ErrWrongGameType)
}
