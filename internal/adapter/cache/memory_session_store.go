package cache

import (
	"context"
	"sync"
	"time"

	"github.com/EnesMalik02/checkout-api/internal/usecase"
)

// MemorySessionStore is the redis-less fallback, good for local runs and
// tests. Entries expire lazily on read.
type MemorySessionStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]memEntry
}

type memEntry struct {
	sess      usecase.CheckoutSession
	expiresAt time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{ttl: ttl, m: make(map[string]memEntry)}
}

func (s *MemorySessionStore) Save(_ context.Context, token string, sess usecase.CheckoutSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[token] = memEntry{sess: sess, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, token string) (usecase.CheckoutSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[token]
	if !ok {
		return usecase.CheckoutSession{}, false, nil
	}
	if time.Now().After(e.expiresAt) {
		delete(s.m, token)
		return usecase.CheckoutSession{}, false, nil
	}
	return e.sess, true, nil
}

func (s *MemorySessionStore) Resolve(_ context.Context, token, status, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[token]
	if !ok || time.Now().After(e.expiresAt) {
		return nil
	}
	e.sess.Status = status
	if paymentID != "" {
		e.sess.PaymentID = paymentID
	}
	e.expiresAt = time.Now().Add(s.ttl)
	s.m[token] = e
	return nil
}

var _ usecase.SessionStore = (*MemorySessionStore)(nil)
