package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Repository using Redis. Each interview aggregate is
// stored as a single JSON value so the message log and feedback are written
// atomically with the rest of the aggregate.
type RedisStore struct {
	client *redis.Client
	prefix string
	mu     sync.RWMutex
	closed bool
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string
	// Password is the Redis password (optional).
	Password string
	// DB is the Redis database number.
	DB int
	// Prefix is the key prefix for all interview keys (default: "intervue:").
	Prefix string
	// PoolSize is the connection pool size (default: 10).
	PoolSize int
}

// NewRedisStore creates a new Redis-backed repository.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "intervue:"
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: poolSize,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client, prefix: prefix}, nil
}

// NewRedisStoreFromClient creates a Redis store from an existing client.
// This is useful for testing with miniredis.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "intervue:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) interviewKey(id string) string {
	return s.prefix + "interview:" + id
}

func (s *RedisStore) questionKey(id string) string {
	return s.prefix + "question:" + id
}

func (s *RedisStore) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Put seeds an interview, bypassing ownership checks. Intended for wiring and
// tests; the CRUD layer owns interview creation in production.
func (s *RedisStore) Put(ctx context.Context, itv *Interview) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	data, err := json.Marshal(itv)
	if err != nil {
		return fmt.Errorf("marshal interview: %w", err)
	}

	if err := s.client.Set(ctx, s.interviewKey(itv.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("put interview: %w", err)
	}
	return nil
}

// PutQuestion attaches a coding question to an interview.
func (s *RedisStore) PutQuestion(ctx context.Context, interviewID string, q *CodingQuestion) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}

	if err := s.client.Set(ctx, s.questionKey(interviewID), data, 0).Err(); err != nil {
		return fmt.Errorf("put question: %w", err)
	}
	return nil
}

// GetByOwner retrieves an interview by ID, checking ownership.
func (s *RedisStore) GetByOwner(ctx context.Context, userID, interviewID string) (*Interview, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, s.interviewKey(interviewID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("get interview: %w", err)
	}

	var itv Interview
	if err := json.Unmarshal(data, &itv); err != nil {
		return nil, fmt.Errorf("unmarshal interview: %w", err)
	}

	if itv.OwnerID != userID {
		return nil, ErrUnauthorized
	}

	return &itv, nil
}

// Save persists the interview aggregate in one write.
func (s *RedisStore) Save(ctx context.Context, itv *Interview, userID string) (*Interview, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	// Re-check ownership against the stored aggregate before overwriting.
	if _, err := s.GetByOwner(ctx, userID, itv.ID); err != nil {
		return nil, err
	}

	saved := *itv
	saved.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(&saved)
	if err != nil {
		return nil, fmt.Errorf("marshal interview: %w", err)
	}

	if err := s.client.Set(ctx, s.interviewKey(itv.ID), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("save interview: %w", err)
	}

	return &saved, nil
}

// FindCodingQuestion locates the coding question attached to an interview.
func (s *RedisStore) FindCodingQuestion(ctx context.Context, itv *Interview) (*CodingQuestion, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, s.questionKey(itv.ID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	var q CodingQuestion
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("unmarshal question: %w", err)
	}

	return &q, nil
}

// Ping checks if the Redis connection is alive.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.client.Ping(ctx).Err()
}

// Close releases resources held by the repository.
func (s *RedisStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.client.Close()
}
