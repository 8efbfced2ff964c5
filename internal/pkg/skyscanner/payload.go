package skyscanner

import (
	"fmt"
	"net/url"
	"time"
)

const (
	baseWebURL          = "https://www.skyscanner.net"
	unifiedSearchURL    = "https://mobile.ds.skyscanner.net/g/radar/api/v3/unified-search/"
	itineraryDetailsURL = "https://mobile.ds.skyscanner.net/g/flights-config/api/v1/itinerary-details/"
	airportSuggestURL   = "https://mobile.ds.skyscanner.net/g/autosuggest-flights/"
	locationSuggestURL  = baseWebURL + "/g/autosuggest-search/api/v1/search-hotel/%s/%s/"
	carRentalQuotesURL  = baseWebURL + "/g/carhire-quotes/%s/%s/%s/%s/%s/%s/%s/%s/"
)

const (
	fieldTypeDate   = "date"
	fieldTypeEntity = "entity"

	calendarDateLayout = "2006-01-02"
	rentalTimeLayout   = "2006-01-02T15:04"
)

// LegDate encodes a leg date either as a structured calendar record or as a
// bare flexible marker.
type LegDate struct {
	Type  string `json:"@type"`
	Year  int    `json:"year,omitempty"`
	Month int    `json:"month,omitempty"`
	Day   int    `json:"day,omitempty"`
}

// LegPlace encodes a leg endpoint either as an entity reference or as a
// bare flexible marker.
type LegPlace struct {
	Type     string `json:"@type"`
	EntityID string `json:"entityId,omitempty"`
}

// SearchLeg is one directional segment of a flight search payload.
type SearchLeg struct {
	Dates       LegDate  `json:"dates"`
	Origin      LegPlace `json:"legOrigin"`
	Destination LegPlace `json:"legDestination"`
	PlaceOfStay string   `json:"placeOfStay"`
}

// SearchPayload is the body posted to the unified search initiate endpoint.
// Index 0 of Legs is always the outbound leg; index 1, when present, is the
// return leg with origin and destination swapped.
type SearchPayload struct {
	Adults     int         `json:"adults"`
	ChildAges  []int       `json:"childAges"`
	CabinClass CabinClass  `json:"cabinClass"`
	Legs       []SearchLeg `json:"legs"`
	Options    any         `json:"options"`
}

// newSearchLeg builds one search leg. placeOfStay anchors the leg to its
// known side: the destination entity when concrete, otherwise the origin.
func newSearchLeg(date DateSpec, origin, destination PlaceSpec) SearchLeg {
	var leg SearchLeg

	switch d := date.(type) {
	case TravelDate:
		leg.Dates = LegDate{Type: fieldTypeDate, Year: d.Year(), Month: int(d.Month()), Day: d.Day()}
	case Flexible:
		leg.Dates = LegDate{Type: string(d)}
	}

	switch o := origin.(type) {
	case Airport:
		leg.Origin = LegPlace{Type: fieldTypeEntity, EntityID: o.EntityID}
	case Flexible:
		leg.Origin = LegPlace{Type: string(o)}
	}

	switch d := destination.(type) {
	case Airport:
		leg.Destination = LegPlace{Type: fieldTypeEntity, EntityID: d.EntityID}
		leg.PlaceOfStay = d.EntityID
	case Flexible:
		leg.Destination = LegPlace{Type: string(d)}

		if o, ok := origin.(Airport); ok {
			leg.PlaceOfStay = o.EntityID
		}
	}

	return leg
}

type detailDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type detailLeg struct {
	OriginIata                 string     `json:"originIata"`
	DestinationIata            string     `json:"destinationIata"`
	Date                       detailDate `json:"date"`
	AddAlternativeOrigins      bool       `json:"addAlternativeOrigins"`
	AddAlternativeDestinations bool       `json:"addAlternativeDestinations"`
	OriginSkyscannerCode       string     `json:"originSkyscannerCode"`
	DestinationSkyscannerCode  string     `json:"destinationSkyscannerCode"`
	OriginEntityID             string     `json:"originEntityId"`
	DestinationEntityID        string     `json:"destinationEntityId"`
}

type userPreferences struct {
	Market       string `json:"market"`
	CurrencyCode string `json:"currencyCode"`
	Locale       string `json:"locale"`
}

type searchRequestDetails struct {
	Adults     int         `json:"adults"`
	CabinClass CabinClass  `json:"cabinClass"`
	ChildAges  []int       `json:"childAges,omitempty"`
	Legs       []detailLeg `json:"legs"`
}

type detailOptions struct {
	TotalCostOptions struct {
		FareAttributeFilters []string `json:"fareAttributeFilters"`
	} `json:"totalCostOptions"`
}

type itineraryDetailPayload struct {
	ItineraryID          string               `json:"itineraryId"`
	SearchSessionID      string               `json:"searchSessionId"`
	FeaturesEnabled      []string             `json:"featuresEnabled"`
	UserPreferences      userPreferences      `json:"userPreferences"`
	SearchRequestDetails searchRequestDetails `json:"searchRequestDetails"`
	Options              detailOptions        `json:"options"`
}

// newItineraryDetailPayload rebuilds the leg list of a completed search in
// the shape the detail endpoint expects. IATA codes are resolved per leg by
// matching the recorded entity ids against the result's origin and
// destination; outbound and return legs swap the two sides, so a fixed
// mapping would mislabel the return leg.
func newItineraryDetailPayload(itineraryID string, result *SearchResult, prefs userPreferences) (itineraryDetailPayload, error) {
	if result.SessionID == "" {
		return itineraryDetailPayload{}, validationErrorf("search result carries no session id")
	}

	if result.Destination.EntityID == "" {
		return itineraryDetailPayload{}, validationErrorf("itinerary details require a concrete destination")
	}

	payload := itineraryDetailPayload{
		ItineraryID:     itineraryID,
		SearchSessionID: result.SessionID,
		FeaturesEnabled: []string{"FEATURES_ENABLED_ITINERARY_LEGACY_INFO"},
		UserPreferences: prefs,
		SearchRequestDetails: searchRequestDetails{
			Adults:     result.SearchPayload.Adults,
			CabinClass: result.SearchPayload.CabinClass,
			ChildAges:  result.SearchPayload.ChildAges,
		},
	}
	payload.Options.TotalCostOptions.FareAttributeFilters = []string{
		"ATTRIBUTE_CABIN_BAGGAGE",
		"ATTRIBUTE_CHECKED_BAGGAGE",
	}

	for _, leg := range result.SearchPayload.Legs {
		if leg.Dates.Type != fieldTypeDate {
			return itineraryDetailPayload{}, validationErrorf("itinerary details require concrete leg dates")
		}

		originIata := result.Destination.SkyCode
		if result.Origin.EntityID == leg.Origin.EntityID {
			originIata = result.Origin.SkyCode
		}

		destinationIata := result.Origin.SkyCode
		if result.Destination.EntityID == leg.Destination.EntityID {
			destinationIata = result.Destination.SkyCode
		}

		payload.SearchRequestDetails.Legs = append(payload.SearchRequestDetails.Legs, detailLeg{
			OriginIata:                originIata,
			DestinationIata:           destinationIata,
			Date:                      detailDate{Year: leg.Dates.Year, Month: leg.Dates.Month, Day: leg.Dates.Day},
			OriginSkyscannerCode:      originIata,
			DestinationSkyscannerCode: destinationIata,
		})
	}

	return payload, nil
}

// rentalPlaceID encodes a car rental place as either its entity id or a
// bare "lat,lon" pair.
func rentalPlaceID(place RentalPlace) string {
	switch p := place.(type) {
	case Coordinates:
		return fmt.Sprintf("%g,%g", p.Latitude, p.Longitude)
	case Airport:
		return p.EntityID
	case Location:
		return p.EntityID
	}

	return ""
}

// carRentalQuoteURL builds the quotes endpoint path for a rental search.
// Driver age collapses to one of two pricing tiers.
func carRentalQuoteURL(params CarRentalParams, market, locale, currency string) string {
	driverAge := "21"
	if params.DriverOver25 {
		driverAge = "30"
	}

	return fmt.Sprintf(carRentalQuotesURL,
		market,
		locale,
		currency,
		driverAge,
		rentalPlaceID(params.Pickup),
		rentalPlaceID(params.Dropoff),
		params.PickupTime.Format(rentalTimeLayout),
		params.DropoffTime.Format(rentalTimeLayout),
	)
}

// newCarRentalQuery builds the fixed query parameter set for the quotes
// endpoint. reqn starts at zero and is bumped on every poll.
func newCarRentalQuery() url.Values {
	return url.Values{
		"group":              {"true"},
		"sipp_map":           {"true"},
		"channel":            {"android"},
		"vndr_img_rounded":   {"true"},
		"ranking_enable":     {"false"},
		"reqn":               {"0"},
		"version":            {"6.9"},
		"include_location":   {"true"},
		"city_search_enable": {"true"},
	}
}

// formatSuggestDate renders an optional autosuggest date parameter.
func formatSuggestDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(calendarDateLayout)
}
