package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"evote-api/internal/domain"
	"evote-api/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewCacheService(client, zap.NewNop()), mr, client
}

func sampleResults() *domain.ElectionResults {
	return &domain.ElectionResults{
		ElectionID: 1,
		Title:      "Student Council 2026",
		Status:     domain.ElectionOngoing,
		TotalVotes: 42,
		LastUpdate: time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC),
	}
}

func TestGetResultsWithCache_MissThenHit(t *testing.T) {
	cache, _, client := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fallback := func(ctx context.Context) (*domain.ElectionResults, error) {
		calls++
		return sampleResults(), nil
	}

	first, err := cache.GetResultsWithCache(ctx, 1, fallback)
	require.NoError(t, err)
	assert.Equal(t, 42, first.TotalVotes)
	assert.Equal(t, 1, calls)

	second, err := cache.GetResultsWithCache(ctx, 1, fallback)
	require.NoError(t, err)
	assert.Equal(t, 42, second.TotalVotes)
	assert.Equal(t, 1, calls, "second read must come from the cache")

	cached, err := client.Get(ctx, client.KeyBuilder.KeyResults(1))
	require.NoError(t, err)
	assert.NotEmpty(t, cached)
}

func TestGetResultsWithCache_CorruptPayloadFallsBack(t *testing.T) {
	cache, mr, client := newTestCache(t)
	ctx := context.Background()

	mr.Set(client.KeyBuilder.KeyResults(1), "{not json")

	results, err := cache.GetResultsWithCache(ctx, 1, func(ctx context.Context) (*domain.ElectionResults, error) {
		return sampleResults(), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, results.TotalVotes)
}

func TestGetResultsWithCache_FallbackErrorPropagates(t *testing.T) {
	cache, _, _ := newTestCache(t)

	_, err := cache.GetResultsWithCache(context.Background(), 1, func(ctx context.Context) (*domain.ElectionResults, error) {
		return nil, errors.New("db down")
	})

	assert.Error(t, err)
}

func TestGetResultsWithCache_NilRedisDegradesToFallback(t *testing.T) {
	cache := NewCacheService(nil, zap.NewNop())

	results, err := cache.GetResultsWithCache(context.Background(), 1, func(ctx context.Context) (*domain.ElectionResults, error) {
		return sampleResults(), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, results.TotalVotes)
}

func TestGetBallotStatusWithCache_OnlyVotedStatusIsCached(t *testing.T) {
	cache, mr, client := newTestCache(t)
	ctx := context.Background()

	// Voter without a ballot: nothing cached.
	status, err := cache.GetBallotStatusWithCache(ctx, 1, "stu-001", func(ctx context.Context, voterID string, electionID int) (*domain.Ballot, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.False(t, status.HasVoted)
	assert.False(t, mr.Exists(client.KeyBuilder.KeyVoterBallot(1, "stu-001")))

	// Voter with a ballot: the voted status is cached.
	votedAt := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	status, err = cache.GetBallotStatusWithCache(ctx, 1, "stu-002", func(ctx context.Context, voterID string, electionID int) (*domain.Ballot, error) {
		return &domain.Ballot{ID: "ballot-1", VoterID: voterID, ElectionID: electionID, CreatedAt: votedAt}, nil
	})
	require.NoError(t, err)
	assert.True(t, status.HasVoted)
	assert.True(t, mr.Exists(client.KeyBuilder.KeyVoterBallot(1, "stu-002")))

	// The cached copy now satisfies the read without the fallback.
	status, err = cache.GetBallotStatusWithCache(ctx, 1, "stu-002", func(ctx context.Context, voterID string, electionID int) (*domain.Ballot, error) {
		t.Fatal("fallback must not run on cache hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, status.HasVoted)
	assert.Equal(t, "ballot-1", status.BallotID)
}

func TestGetEligibleCountWithCache(t *testing.T) {
	cache, _, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fallback := func(ctx context.Context) (int, error) {
		calls++
		return 250, nil
	}

	count, err := cache.GetEligibleCountWithCache(ctx, 1, fallback)
	require.NoError(t, err)
	assert.Equal(t, 250, count)

	count, err = cache.GetEligibleCountWithCache(ctx, 1, fallback)
	require.NoError(t, err)
	assert.Equal(t, 250, count)
	assert.Equal(t, 1, calls)
}

func TestInvalidateElectionCaches(t *testing.T) {
	cache, mr, client := newTestCache(t)
	ctx := context.Background()

	data, err := json.Marshal(sampleResults())
	require.NoError(t, err)
	mr.Set(client.KeyBuilder.KeyResults(1), string(data))
	mr.Set(client.KeyBuilder.KeyElectionByID(1), "{}")
	mr.Set(client.KeyBuilder.KeyElectionList(), "[]")

	cache.InvalidateElectionCaches(ctx, 1)

	assert.False(t, mr.Exists(client.KeyBuilder.KeyResults(1)))
	assert.False(t, mr.Exists(client.KeyBuilder.KeyElectionByID(1)))
	assert.False(t, mr.Exists(client.KeyBuilder.KeyElectionList()))
}

func TestCacheService_HealthCheck(t *testing.T) {
	cache, mr, _ := newTestCache(t)

	require.NoError(t, cache.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, cache.HealthCheck(context.Background()))

	nilCache := NewCacheService(nil, zap.NewNop())
	assert.NoError(t, nilCache.HealthCheck(context.Background()))
}
