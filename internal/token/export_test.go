package token

import "time"

func (s *MemoryStore) SetClock(now func() time.Time) { s.now = now }

func (s *MemoryStore) SetMax(n int) { s.max = n }

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
