package skyscanner

import (
	"encoding/json"
	"time"
)

// CabinClass is the travel class sent on flight searches.
type CabinClass string

const (
	CabinClassEconomy        CabinClass = "CABIN_CLASS_ECONOMY"
	CabinClassPremiumEconomy CabinClass = "CABIN_CLASS_PREMIUM_ECONOMY"
	CabinClassBusiness       CabinClass = "CABIN_CLASS_BUSINESS"
	CabinClassFirst          CabinClass = "CABIN_CLASS_FIRST"
)

// Flexible stands in for a concrete date or destination when the caller
// wants a relaxed search instead of an exact value. It satisfies both
// DateSpec and PlaceSpec.
type Flexible string

const (
	Anytime    Flexible = "anytime"
	Everywhere Flexible = "everywhere"
)

func (Flexible) dateSpec()  {}
func (Flexible) placeSpec() {}

// Airport identifies a concrete airport. EntityID is the backend's opaque
// key, SkyCode the human-facing IATA code.
type Airport struct {
	Title    string `json:"title"`
	EntityID string `json:"entity_id"`
	SkyCode  string `json:"sky_code"`
}

func (Airport) placeSpec()   {}
func (Airport) rentalPlace() {}

// Location is a non-airport place, used for car rental pickup and dropoff.
type Location struct {
	Name     string `json:"name"`
	EntityID string `json:"entity_id"`
	Position string `json:"position"`
}

func (Location) rentalPlace() {}

// Coordinates is an alternative to a place reference.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (Coordinates) rentalPlace() {}

// TravelDate is a concrete travel date.
type TravelDate struct {
	time.Time
}

func (TravelDate) dateSpec() {}

// On wraps a concrete time as a travel date.
func On(t time.Time) TravelDate {
	return TravelDate{Time: t}
}

// DateSpec is either a TravelDate or a Flexible marker.
type DateSpec interface {
	dateSpec()
}

// PlaceSpec is either an Airport or a Flexible marker.
type PlaceSpec interface {
	placeSpec()
}

// RentalPlace is an Airport, a Location or raw Coordinates.
type RentalPlace interface {
	rentalPlace()
}

// SearchResult wraps a completed flight price payload together with the
// state needed to correlate follow-up itinerary detail calls: the latest
// session id observed while polling, a frozen copy of the payload the
// search was started with, and the origin/destination entities it was
// built from. Destination is the zero Airport when the search used a
// flexible destination.
type SearchResult struct {
	Raw           json.RawMessage `json:"results"`
	SessionID     string          `json:"session_id,omitempty"`
	SearchPayload SearchPayload   `json:"search_payload"`
	Origin        Airport         `json:"origin"`
	Destination   Airport         `json:"destination"`
}
