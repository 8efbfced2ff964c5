package load_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/rakhmadg/sky-travel-service/internal/app/dto"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Stats struct {
	Completed   int
	Conflicts   int
	RateLimited int
	Failed      int
}

func (s *Stats) Add(other Stats) {
	s.Completed += other.Completed
	s.Conflicts += other.Conflicts
	s.RateLimited += other.RateLimited
	s.Failed += other.Failed
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func clearRedis(t *testing.T, ctx context.Context, rdb *redis.Client) {
	err := rdb.FlushDB(ctx).Err()
	require.NoError(t, err, "Failed to flush Redis")
}

func searchFlights(ctx context.Context, url string, request dto.FlightSearchRequest) (Stats, error) {
	payload, _ := json.Marshal(request)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return Stats{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Stats{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusConflict:
		// An identical search already holds the lock.
		return Stats{Conflicts: 1}, nil
	case http.StatusTooManyRequests:
		return Stats{RateLimited: 1}, nil
	case http.StatusGatewayTimeout:
		// The backend never completed the session within the retry budget.
		return Stats{Failed: 1}, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Stats{}, fmt.Errorf("bad status: %d, body: %s", resp.StatusCode, string(body))
	}

	var r dto.FlightSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Stats{}, err
	}

	if r.SearchID == "" {
		return Stats{Failed: 1}, nil
	}

	return Stats{Completed: 1}, nil
}

func TestFlightSearchLoad(t *testing.T) {
	appHost := getEnv("APP_HOST", "http://localhost:8080")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisPass := getEnv("REDIS_PASSWORD", "redis123")

	url := appHost + "/api/v1/flights/search"
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPass,
		DB:       0,
	})
	defer rdb.Close()

	request := dto.FlightSearchRequest{
		Origin:      "JFK",
		Destination: "MXP",
		DepartDate:  "2026-12-15",
		Adults:      1,
		CabinClass:  "economy",
	}

	rateLimitRequest := dto.FlightSearchRequest{
		Origin:      "JFK",
		Destination: "LHR",
		DepartDate:  "2026-12-15",
		Adults:      1,
		CabinClass:  "economy",
	}

	t.Run("Single Flight Test", func(t *testing.T) {
		clearRedis(t, ctx, rdb)
		vus := 5
		stats := runScenario(t, ctx, url, request, vus)

		assert.LessOrEqual(t, stats.Completed, 1, "Identical searches should be serialized by the lock")
		assert.GreaterOrEqual(t, stats.Conflicts, vus-1-stats.RateLimited)
	})

	t.Run("Rate Limit Test", func(t *testing.T) {
		clearRedis(t, ctx, rdb)

		vus := 20
		stats := runScenario(t, ctx, url, rateLimitRequest, vus)

		fmt.Printf("Rate Limit Test Result: Completed = %d, Conflicts = %d, Rate Limited = %d\n",
			stats.Completed, stats.Conflicts, stats.RateLimited)
		assert.Greater(t, stats.RateLimited+stats.Conflicts, 0,
			"Should have triggered the limiter or the search lock with 20 concurrent requests")
	})
}

func runScenario(t *testing.T, ctx context.Context, url string, request dto.FlightSearchRequest, vus int) Stats {
	var wg sync.WaitGroup
	var mu sync.Mutex
	scenarioStats := Stats{}

	for i := 0; i < vus; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			stats, err := searchFlights(ctx, url, request)
			if err != nil {
				t.Errorf("VU %d failed: %v", id, err)
				return
			}
			mu.Lock()
			scenarioStats.Add(stats)
			mu.Unlock()
		}(i)
	}

	wg.Wait()
	return scenarioStats
}
