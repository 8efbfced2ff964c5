package searchstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rakhmadg/sky-travel-service/internal/app/dto"
	"github.com/rakhmadg/sky-travel-service/internal/pkg/skyscanner"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no result lives under the given search id,
// either because it never existed or because its TTL expired.
var ErrNotFound = errors.New("search result not found")

type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Store keeps completed search results keyed by search id so later
// itinerary detail calls can correlate against the session that produced
// them. It also hands out single-flight locks per search criteria.
type Store struct {
	redis RedisClient
}

func New(redis RedisClient) *Store {
	return &Store{
		redis: redis,
	}
}

func (s *Store) LockKey(req dto.FlightSearchRequest) string {
	return fmt.Sprintf("search:lock:%s:%s:%s:%s:%s:%d:%d",
		req.DepartDate, req.ReturnDate, req.Origin, req.Destination, req.CabinClass,
		req.Adults, len(req.ChildAges))
}

func (s *Store) resultKey(searchID string) string {
	return "search:result:" + searchID
}

func (s *Store) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	return s.redis.SetNX(ctx, key, "1", timeout).Result()
}

func (s *Store) ReleaseLock(ctx context.Context, key string) error {
	return s.redis.Del(ctx, key).Err()
}

func (s *Store) Put(ctx context.Context, searchID string, result *skyscanner.SearchResult, expiration time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal search result: %w", err)
	}

	err = s.redis.Set(ctx, s.resultKey(searchID), data, expiration).Err()
	if err != nil {
		return fmt.Errorf("failed to set search result: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, searchID string) (*skyscanner.SearchResult, error) {
	data, err := s.redis.Get(ctx, s.resultKey(searchID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	var result skyscanner.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
