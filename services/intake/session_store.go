package intake

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"admissions/models"

	"github.com/go-redis/redis/v8"
)

const (
	intakePrefix     = "intake:sess:"
	onboardingPrefix = "intake:onboard:"
)

// SessionStore persists per-user conversation state between events. Missing
// sessions decode as nil; TTL expiry doubles as abandonment cleanup.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*models.IntakeSession, error)
	Set(ctx context.Context, userID string, sess *models.IntakeSession) error
	Clear(ctx context.Context, userID string) error

	GetOnboarding(ctx context.Context, userID string) (*models.OnboardingSession, error)
	SetOnboarding(ctx context.Context, userID string, sess *models.OnboardingSession) error
	ClearOnboarding(ctx context.Context, userID string) error
}

// RedisSessionStore implements SessionStore on Redis with JSON payloads.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, userID string) (*models.IntakeSession, error) {
	data, err := s.client.Get(ctx, intakePrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess models.IntakeSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessionStore) Set(ctx context.Context, userID string, sess *models.IntakeSession) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, intakePrefix+userID, b, s.ttl).Err()
}

func (s *RedisSessionStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, intakePrefix+userID).Err()
}

func (s *RedisSessionStore) GetOnboarding(ctx context.Context, userID string) (*models.OnboardingSession, error) {
	data, err := s.client.Get(ctx, onboardingPrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess models.OnboardingSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessionStore) SetOnboarding(ctx context.Context, userID string, sess *models.OnboardingSession) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, onboardingPrefix+userID, b, s.ttl).Err()
}

func (s *RedisSessionStore) ClearOnboarding(ctx context.Context, userID string) error {
	return s.client.Del(ctx, onboardingPrefix+userID).Err()
}

// MemorySessionStore is the in-process SessionStore used in tests and
// single-node development runs.
type MemorySessionStore struct {
	mu         sync.RWMutex
	intake     map[string]models.IntakeSession
	onboarding map[string]models.OnboardingSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		intake:     make(map[string]models.IntakeSession),
		onboarding: make(map[string]models.OnboardingSession),
	}
}

func (s *MemorySessionStore) Get(_ context.Context, userID string) (*models.IntakeSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.intake[userID]; ok {
		cp := sess
		return &cp, nil
	}
	return nil, nil
}

func (s *MemorySessionStore) Set(_ context.Context, userID string, sess *models.IntakeSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intake[userID] = *sess
	return nil
}

func (s *MemorySessionStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.intake, userID)
	return nil
}

func (s *MemorySessionStore) GetOnboarding(_ context.Context, userID string) (*models.OnboardingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.onboarding[userID]; ok {
		cp := sess
		return &cp, nil
	}
	return nil, nil
}

func (s *MemorySessionStore) SetOnboarding(_ context.Context, userID string, sess *models.OnboardingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onboarding[userID] = *sess
	return nil
}

func (s *MemorySessionStore) ClearOnboarding(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.onboarding, userID)
	return nil
}
