//go:build unit

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/rakhmadg/sky-travel-service/internal/app/dto"
	"github.com/rakhmadg/sky-travel-service/internal/pkg/skyscanner"
	"github.com/stretchr/testify/mock"
)

type MockTravelClient struct {
	mock.Mock
}

func NewMockTravelClient(t *testing.T) *MockTravelClient {
	m := &MockTravelClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTravelClient) FlightPrices(ctx context.Context, params skyscanner.FlightSearchParams) (*skyscanner.SearchResult, error) {
	args := m.Called(ctx, params)

	var result *skyscanner.SearchResult
	if args.Get(0) != nil {
		result = args.Get(0).(*skyscanner.SearchResult)
	}

	return result, args.Error(1)
}

func (m *MockTravelClient) ItineraryDetails(ctx context.Context, itineraryID string, result *skyscanner.SearchResult) (json.RawMessage, error) {
	args := m.Called(ctx, itineraryID, result)

	var details json.RawMessage
	if args.Get(0) != nil {
		details = args.Get(0).(json.RawMessage)
	}

	return details, args.Error(1)
}

func (m *MockTravelClient) AirportByCode(ctx context.Context, code string) (skyscanner.Airport, error) {
	args := m.Called(ctx, code)

	return args.Get(0).(skyscanner.Airport), args.Error(1)
}

func (m *MockTravelClient) Airports(ctx context.Context, query string, outbound, inbound time.Time) ([]skyscanner.Airport, error) {
	args := m.Called(ctx, query, outbound, inbound)

	var airports []skyscanner.Airport
	if args.Get(0) != nil {
		airports = args.Get(0).([]skyscanner.Airport)
	}

	return airports, args.Error(1)
}

type MockResultStore struct {
	mock.Mock
}

func NewMockResultStore(t *testing.T) *MockResultStore {
	m := &MockResultStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockResultStore) LockKey(req dto.FlightSearchRequest) string {
	return m.Called(req).String(0)
}

func (m *MockResultStore) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	args := m.Called(ctx, key, timeout)

	return args.Bool(0), args.Error(1)
}

func (m *MockResultStore) ReleaseLock(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockResultStore) Put(ctx context.Context, searchID string, result *skyscanner.SearchResult, expiration time.Duration) error {
	return m.Called(ctx, searchID, result, expiration).Error(0)
}

func (m *MockResultStore) Get(ctx context.Context, searchID string) (*skyscanner.SearchResult, error) {
	args := m.Called(ctx, searchID)

	var result *skyscanner.SearchResult
	if args.Get(0) != nil {
		result = args.Get(0).(*skyscanner.SearchResult)
	}

	return result, args.Error(1)
}

type MockRateAllower struct {
	mock.Mock
}

func NewMockRateAllower(t *testing.T) *MockRateAllower {
	m := &MockRateAllower{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRateAllower) Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	args := m.Called(ctx, key, limit)

	var res *redis_rate.Result
	if args.Get(0) != nil {
		res = args.Get(0).(*redis_rate.Result)
	}

	return res, args.Error(1)
}

type MockCarRentalClient struct {
	mock.Mock
}

func NewMockCarRentalClient(t *testing.T) *MockCarRentalClient {
	m := &MockCarRentalClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCarRentalClient) CarRental(ctx context.Context, params skyscanner.CarRentalParams) (*skyscanner.CarRentalResult, error) {
	args := m.Called(ctx, params)

	var result *skyscanner.CarRentalResult
	if args.Get(0) != nil {
		result = args.Get(0).(*skyscanner.CarRentalResult)
	}

	return result, args.Error(1)
}
