package memory

import "sync"

// DefaultCapacity is the number of exchanges kept before the oldest is
// evicted. It is also the upper bound for any store.
const DefaultCapacity = 100

// Exchange is one user message paired with the bot's reply.
type Exchange struct {
	UserMessage string `json:"user_message"`
	BotResponse string `json:"bot_response"`
}

// Store is a bounded, insertion-ordered log of exchanges shared by all
// callers. Overflow evicts the oldest entry first.
type Store struct {
	mu       sync.RWMutex
	items    []Exchange
	capacity int
}

// NewStore creates a store. Capacities outside [1, DefaultCapacity] use
// DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 || capacity > DefaultCapacity {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity, items: make([]Exchange, 0, capacity)}
}

func (s *Store) Append(ex Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == s.capacity {
		copy(s.items, s.items[1:])
		s.items[len(s.items)-1] = ex
		return
	}
	s.items = append(s.items, ex)
}

// All returns the exchanges oldest first. The slice is a copy.
func (s *Store) All() []Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Exchange, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Capacity() int { return s.capacity }
