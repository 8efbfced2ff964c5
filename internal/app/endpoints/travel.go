package endpoints

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/rakhmadg/sky-travel-service/internal/app/dto"
)

type FlightService interface {
	Search(ctx context.Context, req dto.FlightSearchRequest) (dto.FlightSearchResponse, error)
	ItineraryDetails(ctx context.Context, req dto.ItineraryDetailsRequest) (dto.ItineraryDetailsResponse, error)
	SuggestAirports(ctx context.Context, req dto.AirportSuggestRequest) (dto.AirportSuggestResponse, error)
}

type CarRentalService interface {
	Search(ctx context.Context, req dto.CarRentalSearchRequest) (dto.CarRentalSearchResponse, error)
}

type TravelEndpoint struct {
	SearchFlights    endpoint.Endpoint
	ItineraryDetails endpoint.Endpoint
	SearchCars       endpoint.Endpoint
	SuggestAirports  endpoint.Endpoint
}

func MakeTravelEndpoint(flights FlightService, cars CarRentalService) TravelEndpoint {
	return TravelEndpoint{
		SearchFlights:    makeSearchFlightsEndpoint(flights),
		ItineraryDetails: makeItineraryDetailsEndpoint(flights),
		SearchCars:       makeSearchCarsEndpoint(cars),
		SuggestAirports:  makeSuggestAirportsEndpoint(flights),
	}
}

func makeSearchFlightsEndpoint(service FlightService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.FlightSearchRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		result, err := service.Search(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("flight service: %w", err)
		}

		return result, nil
	}
}

func makeItineraryDetailsEndpoint(service FlightService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.ItineraryDetailsRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		result, err := service.ItineraryDetails(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("flight service: %w", err)
		}

		return result, nil
	}
}

func makeSearchCarsEndpoint(service CarRentalService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.CarRentalSearchRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		result, err := service.Search(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("car rental service: %w", err)
		}

		return result, nil
	}
}

func makeSuggestAirportsEndpoint(service FlightService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.AirportSuggestRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		result, err := service.SuggestAirports(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("flight service: %w", err)
		}

		return result, nil
	}
}
