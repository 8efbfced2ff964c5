package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/rakhmadg/sky-travel-service/internal/app/dto"
	"github.com/rakhmadg/sky-travel-service/internal/pkg/searchstore"
	"github.com/rakhmadg/sky-travel-service/internal/pkg/skyscanner"
)

// TravelClient is the slice of the search client the flight service needs.
type TravelClient interface {
	FlightPrices(ctx context.Context, params skyscanner.FlightSearchParams) (*skyscanner.SearchResult, error)
	ItineraryDetails(ctx context.Context, itineraryID string, result *skyscanner.SearchResult) (json.RawMessage, error)
	AirportByCode(ctx context.Context, code string) (skyscanner.Airport, error)
	Airports(ctx context.Context, query string, outbound, inbound time.Time) ([]skyscanner.Airport, error)
}

// ResultStore keeps completed search results so a later itinerary detail
// call can correlate against the session that produced them.
type ResultStore interface {
	LockKey(req dto.FlightSearchRequest) string
	AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
	Put(ctx context.Context, searchID string, result *skyscanner.SearchResult, expiration time.Duration) error
	Get(ctx context.Context, searchID string) (*skyscanner.SearchResult, error)
}

// RateAllower gates outbound traffic toward the backend.
type RateAllower interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

var cabinClasses = map[string]skyscanner.CabinClass{
	"economy":         skyscanner.CabinClassEconomy,
	"premium_economy": skyscanner.CabinClassPremiumEconomy,
	"business":        skyscanner.CabinClassBusiness,
	"first":           skyscanner.CabinClassFirst,
}

type FlightService struct {
	Client           TravelClient
	Store            ResultStore
	Limiter          RateAllower
	RateLimitRPS     int
	ResultExpiration time.Duration
	LockTimeout      time.Duration
}

func NewFlightService(client TravelClient, store ResultStore, limiter RateAllower,
	rateLimitRPS int, resultExpiration, lockTimeout time.Duration) *FlightService {
	return &FlightService{
		Client:           client,
		Store:            store,
		Limiter:          limiter,
		RateLimitRPS:     rateLimitRPS,
		ResultExpiration: resultExpiration,
		LockTimeout:      lockTimeout,
	}
}

// Search resolves the request's airport codes, runs the flight price
// search to completion and stores the result under a fresh search id for
// later itinerary detail lookups. A single-flight lock on the criteria
// stops identical concurrent searches from each hammering the backend.
func (s *FlightService) Search(ctx context.Context, req dto.FlightSearchRequest) (dto.FlightSearchResponse, error) {
	if err := allowRate(ctx, s.Limiter, "limit:skyscanner:flights", s.RateLimitRPS); err != nil {
		return dto.FlightSearchResponse{}, err
	}

	lockKey := s.Store.LockKey(req)

	acquired, err := s.Store.AcquireLock(ctx, lockKey, s.LockTimeout)
	if err != nil {
		return dto.FlightSearchResponse{}, fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !acquired {
		return dto.FlightSearchResponse{}, ErrSearchInProgress
	}
	defer s.Store.ReleaseLock(ctx, lockKey)

	params, err := s.searchParams(ctx, req)
	if err != nil {
		return dto.FlightSearchResponse{}, err
	}

	result, err := s.Client.FlightPrices(ctx, params)
	if err != nil {
		return dto.FlightSearchResponse{}, mapClientError(err)
	}

	searchID := uuid.NewString()

	if err := s.Store.Put(ctx, searchID, result, s.ResultExpiration); err != nil {
		return dto.FlightSearchResponse{}, fmt.Errorf("failed to store search result: %w", err)
	}

	slog.InfoContext(ctx, "flight search completed",
		slog.String("search_id", searchID),
		slog.String("session_id", result.SessionID))

	return dto.FlightSearchResponse{
		SearchID:  searchID,
		SessionID: result.SessionID,
		Results:   result.Raw,
	}, nil
}

// ItineraryDetails loads a stored search result and fetches the extended
// data of one of its itineraries.
func (s *FlightService) ItineraryDetails(ctx context.Context, req dto.ItineraryDetailsRequest) (dto.ItineraryDetailsResponse, error) {
	result, err := s.Store.Get(ctx, req.SearchID)
	if err != nil {
		if errors.Is(err, searchstore.ErrNotFound) {
			return dto.ItineraryDetailsResponse{}, ErrSearchNotFound
		}

		return dto.ItineraryDetailsResponse{}, fmt.Errorf("failed to load search result: %w", err)
	}

	if err := allowRate(ctx, s.Limiter, "limit:skyscanner:itinerary", s.RateLimitRPS); err != nil {
		return dto.ItineraryDetailsResponse{}, err
	}

	details, err := s.Client.ItineraryDetails(ctx, req.ItineraryID, result)
	if err != nil {
		return dto.ItineraryDetailsResponse{}, mapClientError(err)
	}

	return dto.ItineraryDetailsResponse{Details: details}, nil
}

// SuggestAirports passes an autosuggest query through to the backend.
func (s *FlightService) SuggestAirports(ctx context.Context, req dto.AirportSuggestRequest) (dto.AirportSuggestResponse, error) {
	if err := allowRate(ctx, s.Limiter, "limit:skyscanner:autosuggest", s.RateLimitRPS); err != nil {
		return dto.AirportSuggestResponse{}, err
	}

	airports, err := s.Client.Airports(ctx, req.Query, time.Time{}, time.Time{})
	if err != nil {
		return dto.AirportSuggestResponse{}, mapClientError(err)
	}

	suggestions := make([]dto.AirportSuggestion, 0, len(airports))
	for _, airport := range airports {
		suggestions = append(suggestions, dto.AirportSuggestion{
			Title:    airport.Title,
			EntityID: airport.EntityID,
			SkyCode:  airport.SkyCode,
		})
	}

	return dto.AirportSuggestResponse{Airports: suggestions}, nil
}

// searchParams resolves the DTO's codes and date strings into client
// params. The DTO has already vetted the formats.
func (s *FlightService) searchParams(ctx context.Context, req dto.FlightSearchRequest) (skyscanner.FlightSearchParams, error) {
	origin, err := s.Client.AirportByCode(ctx, req.Origin)
	if err != nil {
		return skyscanner.FlightSearchParams{}, mapClientError(err)
	}

	var destination skyscanner.PlaceSpec = skyscanner.Everywhere

	if req.Destination != dto.FlexibleDestination {
		airport, err := s.Client.AirportByCode(ctx, req.Destination)
		if err != nil {
			return skyscanner.FlightSearchParams{}, mapClientError(err)
		}

		destination = airport
	}

	departDate, err := parseSearchDate(req.DepartDate)
	if err != nil {
		return skyscanner.FlightSearchParams{}, err
	}

	var returnDate skyscanner.DateSpec

	if req.ReturnDate != "" {
		returnDate, err = parseSearchDate(req.ReturnDate)
		if err != nil {
			return skyscanner.FlightSearchParams{}, err
		}
	}

	return skyscanner.FlightSearchParams{
		Origin:      origin,
		Destination: destination,
		DepartDate:  departDate,
		ReturnDate:  returnDate,
		CabinClass:  cabinClasses[req.CabinClass],
		Adults:      req.Adults,
		ChildAges:   req.ChildAges,
	}, nil
}

func parseSearchDate(value string) (skyscanner.DateSpec, error) {
	if value == dto.FlexibleDate {
		return skyscanner.Anytime, nil
	}

	parsed, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("parse search date: %w", err)
	}

	return skyscanner.On(parsed), nil
}

func allowRate(ctx context.Context, limiter RateAllower, key string, rps int) error {
	if limiter == nil || rps <= 0 {
		return nil
	}

	res, err := limiter.Allow(ctx, key, redis_rate.PerSecond(rps))
	if err != nil {
		return fmt.Errorf("failed to rate limit: %w", err)
	}

	if res.Allowed == 0 {
		return ErrRateLimitExceeded
	}

	return nil
}
