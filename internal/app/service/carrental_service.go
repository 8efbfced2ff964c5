package service

import (
	"context"
	"time"

	"github.com/rakhmadg/sky-travel-service/internal/app/dto"
	"github.com/rakhmadg/sky-travel-service/internal/pkg/skyscanner"
)

// CarRentalClient is the slice of the search client the car rental service
// needs.
type CarRentalClient interface {
	CarRental(ctx context.Context, params skyscanner.CarRentalParams) (*skyscanner.CarRentalResult, error)
}

type CarRentalService struct {
	Client       CarRentalClient
	Limiter      RateAllower
	RateLimitRPS int
}

func NewCarRentalService(client CarRentalClient, limiter RateAllower, rateLimitRPS int) *CarRentalService {
	return &CarRentalService{
		Client:       client,
		Limiter:      limiter,
		RateLimitRPS: rateLimitRPS,
	}
}

// Search runs a car rental search until the listing stabilizes.
func (s *CarRentalService) Search(ctx context.Context, req dto.CarRentalSearchRequest) (dto.CarRentalSearchResponse, error) {
	if err := allowRate(ctx, s.Limiter, "limit:skyscanner:carhire", s.RateLimitRPS); err != nil {
		return dto.CarRentalSearchResponse{}, err
	}

	// formats were vetted by the DTO
	pickupTime, _ := time.Parse(dto.DateTimeLayout, req.PickupTime)
	dropoffTime, _ := time.Parse(dto.DateTimeLayout, req.DropoffTime)

	params := skyscanner.CarRentalParams{
		Pickup:       rentalPlace(req.PickupEntityID, req.PickupLatitude, req.PickupLongitude),
		Dropoff:      rentalPlace(req.DropoffEntityID, req.DropoffLatitude, req.DropoffLongitude),
		PickupTime:   pickupTime,
		DropoffTime:  dropoffTime,
		DriverOver25: req.DriverOver25,
	}

	result, err := s.Client.CarRental(ctx, params)
	if err != nil {
		return dto.CarRentalSearchResponse{}, mapClientError(err)
	}

	return dto.CarRentalSearchResponse{
		GroupsCount: result.GroupsCount,
		Listings:    result.Raw,
	}, nil
}

func rentalPlace(entityID string, latitude, longitude *float64) skyscanner.RentalPlace {
	if entityID != "" {
		return skyscanner.Location{EntityID: entityID}
	}

	if latitude != nil && longitude != nil {
		return skyscanner.Coordinates{Latitude: *latitude, Longitude: *longitude}
	}

	return nil
}
