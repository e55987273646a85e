package service

import (
	"context"
	"encoding/json"
	"fmt"

	"evote-api/internal/domain"
	"evote-api/pkg/redis"

	"go.uber.org/zap"
)

// CacheService provides cache-aside helpers over the Redis client. Every
// cache failure degrades to the database; no caller ever fails because Redis
// is down or a cached payload is corrupt.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

// GetResultsWithCache retrieves assembled (unmasked) election results with a
// cache-aside pattern. Masking is applied by the caller per request, after
// the cache, so one cached tally serves every viewer.
func (c *CacheService) GetResultsWithCache(ctx context.Context, electionID int, dbFallback func(ctx context.Context) (*domain.ElectionResults, error)) (*domain.ElectionResults, error) {
	if c == nil || c.redis == nil {
		return dbFallback(ctx)
	}

	cacheKey := c.redis.KeyBuilder.KeyResults(electionID)

	cachedData, err := c.redis.Get(ctx, cacheKey)
	if err == nil && cachedData != "" {
		var results domain.ElectionResults
		if marshalErr := json.Unmarshal([]byte(cachedData), &results); marshalErr == nil {
			c.logger.Debug("Results cache hit", zap.Int("election_id", electionID))
			return &results, nil
		} else {
			c.logger.Warn("Results cache corrupted, falling back to database",
				zap.Int("election_id", electionID),
				zap.Error(marshalErr))
		}
	}

	c.logger.Debug("Results cache miss", zap.Int("election_id", electionID))
	results, err := dbFallback(ctx)
	if err != nil {
		return nil, fmt.Errorf("database fallback failed: %w", err)
	}

	if results != nil {
		if data, marshalErr := json.Marshal(results); marshalErr == nil {
			if setErr := c.redis.Set(ctx, cacheKey, string(data), redis.TTLResults); setErr != nil {
				c.logger.Warn("Failed to cache results",
					zap.Int("election_id", electionID),
					zap.Error(setErr))
			}
		}
	}

	return results, nil
}

// GetBallotStatusWithCache retrieves a voter's ballot status with caching.
// Only a voted=true status is cached: a cast ballot never changes, while an
// uncast one may at any moment.
func (c *CacheService) GetBallotStatusWithCache(ctx context.Context, electionID int, voterID string, dbFallback func(ctx context.Context, voterID string, electionID int) (*domain.Ballot, error)) (*domain.BallotStatus, error) {
	if c != nil && c.redis != nil {
		cacheKey := c.redis.KeyBuilder.KeyVoterBallot(electionID, voterID)
		cachedData, err := c.redis.Get(ctx, cacheKey)
		if err == nil && cachedData != "" {
			var status domain.BallotStatus
			if marshalErr := json.Unmarshal([]byte(cachedData), &status); marshalErr == nil {
				c.logger.Debug("Ballot status cache hit", zap.Int("election_id", electionID))
				return &status, nil
			}
		}
	}

	ballot, err := dbFallback(ctx, voterID, electionID)
	if err != nil {
		return nil, fmt.Errorf("database fallback failed: %w", err)
	}

	status := &domain.BallotStatus{HasVoted: ballot != nil}
	if ballot != nil {
		status.BallotID = ballot.ID
		votedAt := ballot.CreatedAt
		status.VotedAt = &votedAt

		c.CacheBallotStatus(ctx, electionID, voterID, status)
	}

	return status, nil
}

// CacheBallotStatus stores a voted status; failures are logged and dropped
func (c *CacheService) CacheBallotStatus(ctx context.Context, electionID int, voterID string, status *domain.BallotStatus) {
	if c == nil || c.redis == nil || status == nil || !status.HasVoted {
		return
	}

	cacheKey := c.redis.KeyBuilder.KeyVoterBallot(electionID, voterID)
	if data, err := json.Marshal(status); err == nil {
		if setErr := c.redis.Set(ctx, cacheKey, string(data), redis.TTLVoterBallot); setErr != nil {
			c.logger.Warn("Failed to cache ballot status",
				zap.Int("election_id", electionID),
				zap.Error(setErr))
		}
	}
}

// GetEligibleCountWithCache retrieves the electorate size with caching
func (c *CacheService) GetEligibleCountWithCache(ctx context.Context, electionID int, dbFallback func(ctx context.Context) (int, error)) (int, error) {
	if c == nil || c.redis == nil {
		return dbFallback(ctx)
	}

	cacheKey := c.redis.KeyBuilder.KeyEligibleCount(electionID)

	cachedData, err := c.redis.Get(ctx, cacheKey)
	if err == nil && cachedData != "" {
		var count int
		if _, scanErr := fmt.Sscanf(cachedData, "%d", &count); scanErr == nil {
			return count, nil
		}
	}

	count, err := dbFallback(ctx)
	if err != nil {
		return 0, fmt.Errorf("database fallback failed: %w", err)
	}

	if setErr := c.redis.Set(ctx, cacheKey, fmt.Sprintf("%d", count), redis.TTLEligibleCount); setErr != nil {
		c.logger.Warn("Failed to cache eligible voter count",
			zap.Int("election_id", electionID),
			zap.Error(setErr))
	}

	return count, nil
}

// InvalidateElectionCaches drops the tally and election caches after a state
// change (ballot cast, status sync, certification)
func (c *CacheService) InvalidateElectionCaches(ctx context.Context, electionID int) {
	if c == nil || c.redis == nil {
		return
	}

	keys := []string{
		c.redis.KeyBuilder.KeyResults(electionID),
		c.redis.KeyBuilder.KeyElectionByID(electionID),
		c.redis.KeyBuilder.KeyElectionList(),
	}

	if err := c.redis.Delete(ctx, keys...); err != nil {
		c.logger.Warn("Failed to invalidate election caches",
			zap.Int("election_id", electionID),
			zap.Error(err))
	}
}

// HealthCheck verifies the cache connection
func (c *CacheService) HealthCheck(ctx context.Context) error {
	if c == nil || c.redis == nil {
		return nil
	}
	return c.redis.Health(ctx)
}
