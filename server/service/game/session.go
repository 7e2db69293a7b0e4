package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/memorykeeper/memorykeeper/store/cache"
)

// Session is one play-through of a mini-game, from content generation to
// score emission. All engine access goes through the owning Service so
// mutations are serialized per session.
type Session struct {
	ID         string
	UserID     int32
	Type       GameType
	Difficulty Difficulty
	CreatedAt  time.Time

	// Degenerate marks a session where content could not be generated from
	// too few memories. It finishes immediately with score zero and is
	// excluded from strength updates.
	Degenerate bool

	mu       sync.Mutex
	match    *MatchGame
	quiz     *QuizGame
	timeline *TimelineGame
}

// newSessionID returns a lexically sortable unique session ID.
func newSessionID() string {
	return ulid.Make().String()
}

// sessionStore holds live sessions. Abandoned sessions expire via the cache
// TTL instead of leaking.
type sessionStore struct {
	cache *cache.Cache
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		cache: cache.New(cache.Config{
			DefaultTTL:      ttl,
			CleanupInterval: time.Minute,
			MaxItems:        10000,
		}),
	}
}

func (s *sessionStore) put(session *Session) {
	s.cache.Set(session.ID, session)
}

func (s *sessionStore) get(id string) (*Session, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

func (s *sessionStore) delete(id string) {
	s.cache.Delete(id)
}

func (s *sessionStore) close() {
	s.cache.Close()
}

// lockedRand hands out seeds for the per-session rand.Rand instances, since
// rand.Rand itself is not safe for concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Int63() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Int63()
}
