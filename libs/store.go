package libs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Store.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Store is a small key/value store with expiry. It backs the product
// listing cache and the short-lived verification codes.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	// Incr adds one to the counter at key and returns the new value. The
	// expiry is set when the counter is created and left alone afterwards.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Close() error
}

type RedisOptions struct {
	URL      string
	Addr     string
	Password string
}

// NewStore connects to redis and falls back to an in-process store when
// redis is not reachable.
func NewStore(ctx context.Context, opts RedisOptions) Store {
	var opt *redis.Options
	if opts.URL != "" {
		parsed, err := redis.ParseURL(opts.URL)
		if err != nil {
			log.Println("Failed to parse Redis URL:", err)
			log.Println("Running with in-memory store")
			return NewMemoryStore()
		}
		opt = parsed
	} else {
		opt = &redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       0,
		}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Println("Redis connection failed:", err)
		log.Println("Running with in-memory store")
		client.Close()
		return NewMemoryStore()
	}

	log.Println("Redis connected")
	return &RedisStore{client: client}
}

type RedisStore struct {
	client *redis.Client
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *RedisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 && ttl > 0 {
		if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		store: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	entry, ok := s.store[key]
	s.mu.RUnlock()

	if !ok {
		return "", ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.store, key)
		s.mu.Unlock()
		return "", ErrCacheMiss
	}
	return entry.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[key] = entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.store, key)
	}
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.store {
		if strings.HasPrefix(key, prefix) {
			delete(s.store, key)
		}
	}
	return nil
}

func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.store[key]
	if ok && !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		ok = false
	}

	var n int64
	if ok {
		current, err := strconv.ParseInt(entry.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("incr %s: %w", key, err)
		}
		n = current + 1
	} else {
		n = 1
		entry = memoryEntry{}
		if ttl > 0 {
			entry.expiresAt = s.now().Add(ttl)
		}
	}
	entry.value = strconv.FormatInt(n, 10)
	s.store[key] = entry
	return n, nil
}

func (s *MemoryStore) Close() error { return nil }
