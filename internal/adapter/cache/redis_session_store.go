package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/EnesMalik02/checkout-api/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps pending checkout snapshots under the gateway token
// with a TTL. It backs the order-result view; losing an entry only loses
// display context, never money.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func key(token string) string { return "checkout:session:" + token }

func (s *RedisSessionStore) Save(ctx context.Context, token string, sess usecase.CheckoutSession) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(token), b, s.ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (usecase.CheckoutSession, bool, error) {
	raw, err := s.rdb.Get(ctx, key(token)).Bytes()
	if err == redis.Nil {
		return usecase.CheckoutSession{}, false, nil
	}
	if err != nil {
		return usecase.CheckoutSession{}, false, err
	}
	var sess usecase.CheckoutSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return usecase.CheckoutSession{}, false, err
	}
	return sess, true, nil
}

// Resolve flips a pending session to its terminal status, keeping the
// remaining TTL semantics simple: the entry gets a fresh TTL on resolution.
func (s *RedisSessionStore) Resolve(ctx context.Context, token, status, paymentID string) error {
	sess, ok, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return nil // expired or never stored; nothing to update
	}
	sess.Status = status
	if paymentID != "" {
		sess.PaymentID = paymentID
	}
	return s.Save(ctx, token, sess)
}

var _ usecase.SessionStore = (*RedisSessionStore)(nil)
