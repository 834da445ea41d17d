package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const ledgerKeyPrefix = "stylist:ledger:"

// SessionStore persists usage ledgers between calls of the same session.
// Load returns a fresh ledger when none is stored.
type SessionStore interface {
	Load(ctx context.Context, sessionKey string) (*UsageLedger, error)
	Save(ctx context.Context, sessionKey string, ledger *UsageLedger) error
}

// MemorySessionStore keeps ledgers in process memory. Entries idle for longer
// than the retention period are evicted on write.
type MemorySessionStore struct {
	mu        sync.RWMutex
	ledgers   map[string]*UsageLedger
	retention time.Duration
	now       func() time.Time
}

// NewMemorySessionStore creates a new in-memory session store
func NewMemorySessionStore(retention time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ledgers:   make(map[string]*UsageLedger),
		retention: retention,
		now:       time.Now,
	}
}

func (s *MemorySessionStore) Load(ctx context.Context, sessionKey string) (*UsageLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ledger, ok := s.ledgers[sessionKey]; ok {
		return ledger.Clone(), nil
	}
	return NewUsageLedger(), nil
}

func (s *MemorySessionStore) Save(ctx context.Context, sessionKey string, ledger *UsageLedger) error {
	if ledger == nil {
		return errors.New("ledger is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledgers[sessionKey] = ledger.Clone()
	s.evictLocked()
	return nil
}

// Len returns the number of stored ledgers.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ledgers)
}

func (s *MemorySessionStore) evictLocked() {
	if s.retention <= 0 {
		return
	}
	cutoff := s.now().Add(-s.retention)
	for key, ledger := range s.ledgers {
		if ledger.LastCall.Before(cutoff) {
			delete(s.ledgers, key)
		}
	}
}

// RedisSessionStore stores ledgers as JSON values that expire shortly after
// the idle window, since an expired ledger would be reset anyway.
type RedisSessionStore struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisSessionStore creates a new Redis-backed session store
func NewRedisSessionStore(redis *redis.Client, idleWindow time.Duration, logger *logrus.Logger) *RedisSessionStore {
	return &RedisSessionStore{
		redis:  redis,
		ttl:    idleWindow + time.Minute,
		logger: logger,
	}
}

func (s *RedisSessionStore) Load(ctx context.Context, sessionKey string) (*UsageLedger, error) {
	data, err := s.redis.Get(ctx, ledgerKey(sessionKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewUsageLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session ledger: %w", err)
	}

	ledger := NewUsageLedger()
	if err := json.Unmarshal(data, ledger); err != nil {
		s.logger.WithError(err).WithField("session", sessionKey).Warn("Discarding corrupt session ledger")
		return NewUsageLedger(), nil
	}
	if ledger.Counts == nil {
		ledger.Counts = make(map[string]int)
	}
	return ledger, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionKey string, ledger *UsageLedger) error {
	data, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("failed to marshal session ledger: %w", err)
	}
	if err := s.redis.Set(ctx, ledgerKey(sessionKey), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session ledger: %w", err)
	}
	return nil
}

func ledgerKey(sessionKey string) string {
	return ledgerKeyPrefix + sessionKey
}
