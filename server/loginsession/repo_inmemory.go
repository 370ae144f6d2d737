package loginsession

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*InMemoryStore)(nil)

type inMemoryRecord struct {
	fields    map[string]string
	expiresAt time.Time
}

// InMemoryStore is a thread-safe in-memory Store for tests and single process development.
type InMemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	records map[string]*inMemoryRecord // token -> record
}

// NewInMemoryStore creates a store whose records expire ttl after their last write.
// A zero ttl never expires.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{
		ttl:     ttl,
		now:     time.Now,
		records: make(map[string]*inMemoryRecord),
	}
}

// WithClock replaces the time source, for expiry tests.
func (s *InMemoryStore) WithClock(now func() time.Time) *InMemoryStore {
	s.now = now
	return s
}

func (s *InMemoryStore) Get(_ context.Context, token, field string) (string, bool, error) {
	if token == "" {
		return "", false, ErrTokenRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.live(token)
	if rec == nil {
		return "", false, nil
	}
	v, ok := rec.fields[field]
	return v, ok, nil
}

func (s *InMemoryStore) Set(_ context.Context, token, field, value string) error {
	if token == "" {
		return ErrTokenRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.live(token)
	if rec == nil {
		rec = &inMemoryRecord{fields: make(map[string]string)}
		s.records[token] = rec
	}
	rec.fields[field] = value
	if s.ttl > 0 {
		rec.expiresAt = s.now().Add(s.ttl)
	}
	return nil
}

func (s *InMemoryStore) Remove(_ context.Context, token, field string) error {
	if token == "" {
		return ErrTokenRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec := s.live(token); rec != nil {
		delete(rec.fields, field)
		if len(rec.fields) == 0 {
			delete(s.records, token)
		}
	}
	return nil
}

func (s *InMemoryStore) Take(_ context.Context, token, field string) (string, bool, error) {
	if token == "" {
		return "", false, ErrTokenRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.live(token)
	if rec == nil {
		return "", false, nil
	}
	v, ok := rec.fields[field]
	delete(rec.fields, field)
	if len(rec.fields) == 0 {
		delete(s.records, token)
	}
	return v, ok, nil
}

func (s *InMemoryStore) Destroy(_ context.Context, token string) error {
	if token == "" {
		return ErrTokenRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, token)
	return nil
}

// Fields returns a copy of the live record for token, for assertions in tests.
func (s *InMemoryStore) Fields(token string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string)
	if rec := s.live(token); rec != nil {
		for k, v := range rec.fields {
			out[k] = v
		}
	}
	return out
}

// live returns the record for token, evicting it if expired. Caller holds mu.
func (s *InMemoryStore) live(token string) *inMemoryRecord {
	rec, ok := s.records[token]
	if !ok {
		return nil
	}
	if !rec.expiresAt.IsZero() && !s.now().Before(rec.expiresAt) {
		delete(s.records, token)
		return nil
	}
	return rec
}
