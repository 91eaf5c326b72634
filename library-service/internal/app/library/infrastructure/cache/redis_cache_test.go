package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nowherelibrary/library-service/internal/app/library/entity"
)

type RedisBookCacheTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	cache     *RedisBookCache
}

func TestRedisBookCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisBookCacheTestSuite))
}

func (s *RedisBookCacheTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client, err = NewRedisClient(s.miniRedis.Addr(), "", 0)
	require.NoError(s.T(), err)

	s.cache = NewRedisBookCache(s.client, 10*time.Minute)
}

func (s *RedisBookCacheTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *RedisBookCacheTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *RedisBookCacheTestSuite) TestGetBooks_Miss() {
	books, found, err := s.cache.GetBooks(context.Background())

	s.NoError(err)
	s.False(found)
	s.Nil(books)
}

func (s *RedisBookCacheTestSuite) TestSetThenGet() {
	ctx := context.Background()
	books := []entity.Book{
		{ID: primitive.NewObjectID(), Title: "Pather Panchali", Author: "Bibhutibhushan Bandyopadhyay", Price: 12.5},
		{ID: primitive.NewObjectID(), Title: "Gitanjali", Author: "Rabindranath Tagore", Price: 9},
	}

	s.Require().NoError(s.cache.SetBooks(ctx, 0, books))

	cached, found, err := s.cache.GetBooks(ctx)

	s.NoError(err)
	s.True(found)
	s.Equal(books, cached)
}

func (s *RedisBookCacheTestSuite) TestSetBooks_EmptyListIsAHit() {
	ctx := context.Background()

	s.Require().NoError(s.cache.SetBooks(ctx, 0, []entity.Book{}))

	cached, found, err := s.cache.GetBooks(ctx)

	s.NoError(err)
	s.True(found)
	s.Empty(cached)
}

func (s *RedisBookCacheTestSuite) TestSetBooks_AppliesTTL() {
	ctx := context.Background()

	s.Require().NoError(s.cache.SetBooks(ctx, 0, []entity.Book{{Title: "Devdas"}}))

	s.Equal(10*time.Minute, s.miniRedis.TTL(booksCacheKey))

	s.miniRedis.FastForward(11 * time.Minute)

	_, found, err := s.cache.GetBooks(ctx)
	s.NoError(err)
	s.False(found)
}

func (s *RedisBookCacheTestSuite) TestInvalidate() {
	ctx := context.Background()
	s.Require().NoError(s.cache.SetBooks(ctx, 0, []entity.Book{{Title: "Devdas"}}))

	s.NoError(s.cache.Invalidate(ctx))

	s.False(s.miniRedis.Exists(booksCacheKey))

	gen, err := s.cache.Generation(ctx)
	s.NoError(err)
	s.Equal(int64(1), gen)
}

func (s *RedisBookCacheTestSuite) TestGeneration_StartsAtZero() {
	gen, err := s.cache.Generation(context.Background())

	s.NoError(err)
	s.Zero(gen)
}

func (s *RedisBookCacheTestSuite) TestSetBooks_StaleGenerationIsDropped() {
	ctx := context.Background()

	gen, err := s.cache.Generation(ctx)
	s.Require().NoError(err)

	// a write lands between the store read and the cache write
	s.Require().NoError(s.cache.Invalidate(ctx))

	s.NoError(s.cache.SetBooks(ctx, gen, []entity.Book{{Title: "Devdas"}}))

	s.False(s.miniRedis.Exists(booksCacheKey))
	_, found, err := s.cache.GetBooks(ctx)
	s.NoError(err)
	s.False(found)
}

func (s *RedisBookCacheTestSuite) TestSetBooks_CurrentGenerationIsStored() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Invalidate(ctx))
	s.Require().NoError(s.cache.Invalidate(ctx))

	gen, err := s.cache.Generation(ctx)
	s.Require().NoError(err)
	s.Require().Equal(int64(2), gen)

	s.NoError(s.cache.SetBooks(ctx, gen, []entity.Book{{Title: "Devdas"}}))

	cached, found, err := s.cache.GetBooks(ctx)
	s.NoError(err)
	s.True(found)
	s.Len(cached, 1)
}

func (s *RedisBookCacheTestSuite) TestGetBooks_CorruptEntry() {
	s.Require().NoError(s.miniRedis.Set(booksCacheKey, "not json"))

	_, found, err := s.cache.GetBooks(context.Background())

	s.Error(err)
	s.False(found)
}

func (s *RedisBookCacheTestSuite) TestPing() {
	s.NoError(s.cache.Ping(context.Background()))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	m, err := miniredis.Run()
	require.NoError(t, err)
	addr := m.Addr()
	m.Close()

	client, err := NewRedisClient(addr, "", 0)

	require.Error(t, err)
	require.Nil(t, client)
}

func TestNoopBookCache(t *testing.T) {
	var c NoopBookCache
	ctx := context.Background()

	require.NoError(t, c.SetBooks(ctx, 0, []entity.Book{{Title: "x"}}))

	books, found, err := c.GetBooks(ctx)
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, books)
	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	require.Zero(t, gen)
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Close())
}
