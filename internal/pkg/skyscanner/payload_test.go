package skyscanner

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewSearchLeg(t *testing.T) {
	origin := Airport{Title: "New York JFK", EntityID: "27544008", SkyCode: "JFK"}
	destination := Airport{Title: "Milan Malpensa", EntityID: "95673383", SkyCode: "MXP"}

	t.Run("concrete_round_trip", func(t *testing.T) {
		leg := newSearchLeg(On(time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)), origin, destination)

		encoded, err := json.Marshal(leg)
		if err != nil {
			t.Fatalf("marshal leg: %v", err)
		}

		var decoded SearchLeg
		if err := json.Unmarshal(encoded, &decoded); err != nil {
			t.Fatalf("unmarshal leg: %v", err)
		}

		want := SearchLeg{
			Dates:       LegDate{Type: "date", Year: 2026, Month: 6, Day: 1},
			Origin:      LegPlace{Type: "entity", EntityID: "27544008"},
			Destination: LegPlace{Type: "entity", EntityID: "95673383"},
			PlaceOfStay: "95673383",
		}

		if diff := cmp.Diff(want, decoded); diff != "" {
			t.Fatalf("leg round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("flexible_destination_anchors_to_origin", func(t *testing.T) {
		leg := newSearchLeg(Anytime, origin, Everywhere)

		want := SearchLeg{
			Dates:       LegDate{Type: "anytime"},
			Origin:      LegPlace{Type: "entity", EntityID: "27544008"},
			Destination: LegPlace{Type: "everywhere"},
			PlaceOfStay: "27544008",
		}

		if diff := cmp.Diff(want, leg); diff != "" {
			t.Fatalf("flexible leg mismatch (-want +got):\n%s", diff)
		}
	})
}

func completedResult() *SearchResult {
	origin := Airport{EntityID: "27544008", SkyCode: "JFK"}
	destination := Airport{EntityID: "95673383", SkyCode: "MXP"}

	return &SearchResult{
		SessionID: "session-abc",
		SearchPayload: SearchPayload{
			Adults:     2,
			CabinClass: CabinClassEconomy,
			Legs: []SearchLeg{
				newSearchLeg(On(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)), origin, destination),
				newSearchLeg(On(time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC)), destination, origin),
			},
		},
		Origin:      origin,
		Destination: destination,
	}
}

func TestNewItineraryDetailPayload(t *testing.T) {
	prefs := userPreferences{Market: "US", CurrencyCode: "USD", Locale: "en-US"}

	t.Run("return_leg_swaps_codes", func(t *testing.T) {
		payload, err := newItineraryDetailPayload("itinerary-1", completedResult(), prefs)
		if err != nil {
			t.Fatalf("build detail payload: %v", err)
		}

		wantLegs := []detailLeg{
			{
				OriginIata:                "JFK",
				DestinationIata:           "MXP",
				Date:                      detailDate{Year: 2026, Month: 6, Day: 1},
				OriginSkyscannerCode:      "JFK",
				DestinationSkyscannerCode: "MXP",
			},
			{
				OriginIata:                "MXP",
				DestinationIata:           "JFK",
				Date:                      detailDate{Year: 2026, Month: 6, Day: 11},
				OriginSkyscannerCode:      "MXP",
				DestinationSkyscannerCode: "JFK",
			},
		}

		if diff := cmp.Diff(wantLegs, payload.SearchRequestDetails.Legs); diff != "" {
			t.Fatalf("detail legs mismatch (-want +got):\n%s", diff)
		}

		if payload.SearchSessionID != "session-abc" {
			t.Fatalf("expected session id to be carried, got %s", payload.SearchSessionID)
		}
	})

	t.Run("empty_child_ages_omitted", func(t *testing.T) {
		payload, err := newItineraryDetailPayload("itinerary-1", completedResult(), prefs)
		if err != nil {
			t.Fatalf("build detail payload: %v", err)
		}

		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(encoded, &decoded); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}

		details, _ := decoded["searchRequestDetails"].(map[string]any)
		if _, present := details["childAges"]; present {
			t.Fatal("childAges should be omitted when no children travel")
		}
	})

	detailRequest := func(mutate func(r *SearchResult), wantReason string) func(t *testing.T) {
		return func(t *testing.T) {
			result := completedResult()
			mutate(result)

			_, err := newItineraryDetailPayload("itinerary-1", result, prefs)

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Reason != wantReason {
				t.Fatalf("expected reason %q, got %q", wantReason, validationErr.Reason)
			}
		}
	}

	t.Run("missing_session_id", detailRequest(func(r *SearchResult) {
		r.SessionID = ""
	}, "search result carries no session id"))

	t.Run("flexible_destination", detailRequest(func(r *SearchResult) {
		r.Destination = Airport{}
	}, "itinerary details require a concrete destination"))

	t.Run("flexible_leg_date", detailRequest(func(r *SearchResult) {
		r.SearchPayload.Legs[0].Dates = LegDate{Type: "anytime"}
	}, "itinerary details require concrete leg dates"))
}

func TestCarRentalQuoteURL(t *testing.T) {
	quoteURLRequest := func(params CarRentalParams, want string) func(t *testing.T) {
		return func(t *testing.T) {
			got := carRentalQuoteURL(params, "US", "en-US", "USD")
			if got != want {
				t.Fatalf("expected %s, got %s", want, got)
			}
		}
	}

	pickup := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	dropoff := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("entity_ids_and_over_25_tier", quoteURLRequest(
		CarRentalParams{
			Pickup:       Location{EntityID: "27544008"},
			Dropoff:      Location{EntityID: "27544008"},
			PickupTime:   pickup,
			DropoffTime:  dropoff,
			DriverOver25: true,
		},
		"https://www.skyscanner.net/g/carhire-quotes/US/en-US/USD/30/27544008/27544008/2026-07-01T10:00/2026-08-01T10:00/",
	))

	t.Run("coordinates_and_under_25_tier", quoteURLRequest(
		CarRentalParams{
			Pickup:      Coordinates{Latitude: 45.46, Longitude: 9.19},
			Dropoff:     Airport{EntityID: "95673383"},
			PickupTime:  pickup,
			DropoffTime: dropoff,
		},
		"https://www.skyscanner.net/g/carhire-quotes/US/en-US/USD/21/45.46,9.19/95673383/2026-07-01T10:00/2026-08-01T10:00/",
	))
}
