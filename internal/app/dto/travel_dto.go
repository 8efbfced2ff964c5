package dto

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rakhmadg/sky-travel-service/internal/pkg/exception"
)

const (
	// FlexibleDate relaxes a depart or return date to the whole calendar.
	FlexibleDate = "anytime"
	// FlexibleDestination relaxes the destination to every reachable place.
	FlexibleDestination = "everywhere"

	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

type FlightSearchRequest struct {
	Origin      string `json:"origin" validate:"required,len=3"`
	Destination string `json:"destination" validate:"required"`
	DepartDate  string `json:"depart_date" validate:"required"`
	ReturnDate  string `json:"return_date,omitempty"`
	CabinClass  string `json:"cabin_class,omitempty" validate:"omitempty,oneof=economy premium_economy business first"`
	Adults      int    `json:"adults" validate:"required,min=1,max=8"`
	ChildAges   []int  `json:"child_ages,omitempty" validate:"max=8,dive,gte=0,lte=17"`
}

func (r *FlightSearchRequest) Bind(_ *http.Request) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("error validate request: %w", err)
	}

	return nil
}

func (r *FlightSearchRequest) Validate() error {
	if err := ValidateSingleError(r); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	if err := validateSearchDate(r.DepartDate); err != nil {
		return badRequest(fmt.Sprintf("depart_date %s", err))
	}

	if r.ReturnDate != "" {
		if err := validateSearchDate(r.ReturnDate); err != nil {
			return badRequest(fmt.Sprintf("return_date %s", err))
		}
	}

	return nil
}

// validateSearchDate accepts a calendar date or the flexible marker.
func validateSearchDate(value string) error {
	if value == FlexibleDate {
		return nil
	}

	if _, err := time.Parse(DateLayout, value); err != nil {
		return fmt.Errorf("must be %q formatted or %q", DateLayout, FlexibleDate)
	}

	return nil
}

type FlightSearchResponse struct {
	SearchID  string          `json:"search_id"`
	SessionID string          `json:"session_id,omitempty"`
	Results   json.RawMessage `json:"results"`
}

type ItineraryDetailsRequest struct {
	SearchID    string `json:"search_id" validate:"required"`
	ItineraryID string `json:"itinerary_id" validate:"required"`
}

func (r *ItineraryDetailsRequest) Bind(_ *http.Request) error {
	if err := ValidateSingleError(r); err != nil {
		return badRequest(err.Error())
	}

	return nil
}

type ItineraryDetailsResponse struct {
	Details json.RawMessage `json:"details"`
}

type CarRentalSearchRequest struct {
	PickupEntityID   string   `json:"pickup_entity_id,omitempty"`
	PickupLatitude   *float64 `json:"pickup_latitude,omitempty"`
	PickupLongitude  *float64 `json:"pickup_longitude,omitempty"`
	DropoffEntityID  string   `json:"dropoff_entity_id,omitempty"`
	DropoffLatitude  *float64 `json:"dropoff_latitude,omitempty"`
	DropoffLongitude *float64 `json:"dropoff_longitude,omitempty"`
	PickupTime       string   `json:"pickup_time" validate:"required"`
	DropoffTime      string   `json:"dropoff_time" validate:"required"`
	DriverOver25     bool     `json:"driver_over_25"`
}

func (r *CarRentalSearchRequest) Bind(_ *http.Request) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("error validate request: %w", err)
	}

	return nil
}

func (r *CarRentalSearchRequest) Validate() error {
	if err := ValidateSingleError(r); err != nil {
		return badRequest(err.Error())
	}

	if r.PickupEntityID == "" && (r.PickupLatitude == nil || r.PickupLongitude == nil) {
		return badRequest("pickup requires an entity id or a latitude/longitude pair")
	}

	if r.DropoffEntityID == "" && (r.DropoffLatitude == nil) != (r.DropoffLongitude == nil) {
		return badRequest("dropoff coordinates require both latitude and longitude")
	}

	if _, err := time.Parse(DateTimeLayout, r.PickupTime); err != nil {
		return badRequest(fmt.Sprintf("pickup_time must be %q formatted", DateTimeLayout))
	}

	if _, err := time.Parse(DateTimeLayout, r.DropoffTime); err != nil {
		return badRequest(fmt.Sprintf("dropoff_time must be %q formatted", DateTimeLayout))
	}

	return nil
}

type CarRentalSearchResponse struct {
	GroupsCount int             `json:"groups_count"`
	Listings    json.RawMessage `json:"listings"`
}

type AirportSuggestRequest struct {
	Query string `json:"query" validate:"required"`
}

func (r *AirportSuggestRequest) Validate() error {
	if err := ValidateSingleError(r); err != nil {
		return badRequest(err.Error())
	}

	return nil
}

type AirportSuggestion struct {
	Title    string `json:"title"`
	EntityID string `json:"entity_id"`
	SkyCode  string `json:"sky_code"`
}

type AirportSuggestResponse struct {
	Airports []AirportSuggestion `json:"airports"`
}

func badRequest(message string) error {
	return exception.ApplicationError{
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}
