// Package session keeps per-caller settings in an expiring in-process cache.
//
// Sessions are separate from the process-wide conversation memory: clearing a
// session's history never touches the memory store.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"

	"persona-bot/internal/memory"
	"persona-bot/internal/observe"
)

type Session struct {
	ID string

	mu       sync.Mutex
	settings *Settings
	history  []memory.Exchange
}

// Settings returns the stored settings or the defaults.
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return DefaultSettings()
	}
	return *s.settings
}

func (s *Session) SetSettings(st Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &st
}

// ClearHistory resets the session-scoped conversation history.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = []memory.Exchange{}
}

// MaxSessions is the number of live sessions the store holds before the
// cache starts evicting.
const MaxSessions = 100_000

// Store holds sessions with a sliding idle TTL.
type Store struct {
	cache *ristretto.Cache
	ttl   time.Duration
	obs   *observe.Observer
	// serialises lookup-or-create so one id never maps to two sessions
	mu sync.Mutex
}

func NewStore(ttl time.Duration, obs *observe.Observer) (*Store, error) {
	if obs == nil {
		obs = observe.Discard()
	}
	// Every session costs 1, so MaxCost is a session count.
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        MaxSessions * 10,
		MaxCost:            MaxSessions,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init session cache: %w", err)
	}
	return &Store{cache: cache, ttl: ttl, obs: obs}, nil
}

// GetOrCreate returns the session for id, or a fresh session with a new id
// when id is empty, unknown or expired. A known session's TTL is refreshed.
func (s *Store) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		if v, ok := s.cache.Get(id); ok {
			sess := v.(*Session)
			s.put(sess)
			return sess
		}
	}
	sess := &Session{ID: uuid.NewString()}
	s.put(sess)
	return sess
}

// put stores sess and reports whether the cache kept it. A session the cache
// refused still serves the current request but is gone on the next one.
func (s *Store) put(sess *Session) bool {
	ok := s.cache.SetWithTTL(sess.ID, sess, 1, s.ttl)
	s.cache.Wait()
	if ok {
		_, ok = s.cache.Get(sess.ID)
	}
	if !ok {
		s.obs.Log().Warn().Str("session", sess.ID).Msg("session cache rejected session")
	}
	return ok
}

// Save stores sess and refreshes its TTL.
func (s *Store) Save(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(sess)
}

func (s *Store) Close() {
	s.cache.Close()
}
