package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/pkg/logger"
	"nowherelibrary/pkg/metrics"
)

var errStaleGeneration = errors.New("books generation changed")

const (
	serviceName   = "library-service"
	booksCacheKey = "books:all"
	booksGenKey   = "books:gen"
	keyPrefix     = "books"
)

// RedisBookCache keeps the book list under books:all. Every invalidation
// bumps books:gen, and a list read at an older generation is never stored.
type RedisBookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects and pings, failing fast on a bad address.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// NewRedisBookCache creates a book list cache with the given TTL.
func NewRedisBookCache(client *redis.Client, ttl time.Duration) *RedisBookCache {
	return &RedisBookCache{client: client, ttl: ttl}
}

func (r *RedisBookCache) GetBooks(ctx context.Context) ([]entity.Book, bool, error) {
	data, err := r.client.Get(ctx, booksCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, keyPrefix)
			return nil, false, nil
		}
		metrics.RecordRedisError(serviceName, "get")
		return nil, false, fmt.Errorf("failed to get books from cache: %w", err)
	}

	var books []entity.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached books: %w", err)
	}

	metrics.RecordCacheHit(serviceName, keyPrefix)
	return books, true, nil
}

// Generation returns the current list generation. A missing key is zero.
func (r *RedisBookCache) Generation(ctx context.Context) (int64, error) {
	gen, err := readGeneration(ctx, r.client)
	if err != nil {
		metrics.RecordRedisError(serviceName, "get")
		return 0, fmt.Errorf("failed to read books generation: %w", err)
	}
	return gen, nil
}

// SetBooks stores the list only while books:gen still equals gen. A list
// loaded before a concurrent write is dropped silently.
func (r *RedisBookCache) SetBooks(ctx context.Context, gen int64, books []entity.Book) error {
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("failed to marshal books: %w", err)
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, booksCacheKey, data, r.ttl)
			return nil
		})
		return err
	}, booksGenKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		logger.Debug().
			Int64("generation", gen).
			Msg("Skipped caching book list loaded before a write")
		return nil
	default:
		metrics.RecordRedisError(serviceName, "set")
		return fmt.Errorf("failed to set books in cache: %w", err)
	}
}

// Invalidate drops the cached list and bumps the generation in one
// transaction.
func (r *RedisBookCache) Invalidate(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, booksGenKey)
		pipe.Del(ctx, booksCacheKey)
		return nil
	})
	if err != nil {
		metrics.RecordRedisError(serviceName, "del")
		return fmt.Errorf("failed to invalidate books cache: %w", err)
	}
	return nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, c getter) (int64, error) {
	gen, err := c.Get(ctx, booksGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *RedisBookCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisBookCache) Close() error {
	return r.client.Close()
}

// NoopBookCache always misses. It stands in when REDIS_ADDR is unset.
type NoopBookCache struct{}

func (NoopBookCache) GetBooks(context.Context) ([]entity.Book, bool, error) { return nil, false, nil }

func (NoopBookCache) Generation(context.Context) (int64, error) { return 0, nil }

func (NoopBookCache) SetBooks(context.Context, int64, []entity.Book) error { return nil }

func (NoopBookCache) Invalidate(context.Context) error { return nil }

func (NoopBookCache) Close() error { return nil }
