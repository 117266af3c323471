// Package auth decides which Telegram users may talk to the persona.
package auth

// Service is a fixed allowlist; it is read-only after New.
type Service struct {
	allowed map[int64]struct{}
}

// New builds an allowlist from ids. An empty list admits everyone.
func New(ids []int64) *Service {
	s := &Service{allowed: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.allowed[id] = struct{}{}
	}
	return s
}

func (s *Service) IsAllowed(userID int64) bool {
	if s.Open() {
		return true
	}
	_, ok := s.allowed[userID]
	return ok
}

// Open reports whether the allowlist admits everyone.
func (s *Service) Open() bool {
	return len(s.allowed) == 0
}
