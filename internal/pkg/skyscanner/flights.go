package skyscanner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

const searchStatusComplete = "complete"

// FlightSearchParams describes one flight price search. DepartDate defaults
// to the current day and CabinClass to economy when left unset; ReturnDate
// nil means a one-way search.
type FlightSearchParams struct {
	Origin      Airport
	Destination PlaceSpec
	DepartDate  DateSpec
	ReturnDate  DateSpec
	CabinClass  CabinClass
	Adults      int
	ChildAges   []int
}

// searchEnvelope carries the polling status and the session id returned
// alongside an incomplete payload. The session id of a completed payload
// lives elsewhere, see completedSessionID.
type searchEnvelope struct {
	Context struct {
		Status    string `json:"status"`
		SessionID string `json:"sessionId"`
	} `json:"context"`
}

// FlightPrices runs a flight price search to completion. It posts the
// initial payload, then polls the search endpoint against the most recently
// observed session id until the backend reports a complete status or the
// retry budget runs out. The session id may rotate between polls when the
// backend hands the aggregation job to another worker; the latest one
// always wins.
func (c *Client) FlightPrices(ctx context.Context, params FlightSearchParams) (*SearchResult, error) {
	if err := c.validateFlightSearch(&params); err != nil {
		return nil, err
	}

	payload := SearchPayload{
		Adults:     params.Adults,
		ChildAges:  params.ChildAges,
		CabinClass: params.CabinClass,
		Legs: []SearchLeg{
			newSearchLeg(params.DepartDate, params.Origin, params.Destination),
		},
	}

	if params.ChildAges == nil {
		payload.ChildAges = []int{}
	}

	if params.ReturnDate != nil {
		payload.Legs = append(payload.Legs, newSearchLeg(params.ReturnDate, params.Destination, params.Origin))
	}

	extra := http.Header{}
	extra.Set("X-Skyscanner-Viewid", uuid.NewString())

	statusCode, raw, err := c.do(ctx, http.MethodPost, unifiedSearchURL, payload, extra)
	if err != nil {
		return nil, err
	}

	body, err := classify(statusCode, raw)
	if err != nil {
		return nil, err
	}

	envelope, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}

	if envelope.Context.Status == searchStatusComplete {
		return newSearchResult(body, payload, params), nil
	}

	sessionID := envelope.Context.SessionID

	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		if err := c.sleep(ctx); err != nil {
			return nil, err
		}

		statusCode, raw, err := c.do(ctx, http.MethodGet, unifiedSearchURL+sessionID, nil, extra)
		if err != nil {
			return nil, err
		}

		body, err := classify(statusCode, raw)
		if err != nil {
			return nil, err
		}

		envelope, err := decodeEnvelope(body)
		if err != nil {
			return nil, err
		}

		if envelope.Context.Status == searchStatusComplete {
			return newSearchResult(body, payload, params), nil
		}

		slog.DebugContext(ctx, "flight search still incomplete",
			slog.String("session_id", envelope.Context.SessionID),
			slog.Int("attempt", attempt+1))

		sessionID = envelope.Context.SessionID
	}

	return nil, ErrIncompleteSearch
}

func (c *Client) validateFlightSearch(params *FlightSearchParams) error {
	now := c.now()

	if params.DepartDate == nil {
		params.DepartDate = On(now)
	}

	if params.CabinClass == "" {
		params.CabinClass = CabinClassEconomy
	}

	if params.Adults < 1 || params.Adults > 8 {
		return validationErrorf("adults must be between 1 and 8")
	}

	if len(params.ChildAges) > 8 {
		return validationErrorf("at most 8 children per search")
	}

	for _, age := range params.ChildAges {
		if age < 0 || age > 17 {
			return validationErrorf("child ages must be between 0 and 17")
		}
	}

	depart, departConcrete := params.DepartDate.(TravelDate)
	ret, returnConcrete := params.ReturnDate.(TravelDate)

	if departConcrete && returnConcrete && ret.Before(depart.Time) {
		return validationErrorf("return date cannot be before the departure date")
	}

	if departConcrete && depart.Before(now) {
		return validationErrorf("departure date cannot be in the past")
	}

	if returnConcrete && ret.Before(now) {
		return validationErrorf("return date cannot be in the past")
	}

	if c.flexibleSearch(params) && params.CabinClass != CabinClassEconomy {
		return validationErrorf("flexible searches only support the economy cabin")
	}

	return nil
}

func (c *Client) flexibleSearch(params *FlightSearchParams) bool {
	for _, spec := range []any{params.DepartDate, params.ReturnDate, params.Destination} {
		if marker, ok := spec.(Flexible); ok && (marker == Anytime || marker == Everywhere) {
			return true
		}
	}

	return false
}

func decodeEnvelope(body []byte) (searchEnvelope, error) {
	var envelope searchEnvelope

	if err := json.Unmarshal(body, &envelope); err != nil {
		return searchEnvelope{}, fmt.Errorf("decode search response: %w", err)
	}

	return envelope, nil
}

// newSearchResult freezes a completed payload together with the request
// that produced it. A missing nested session field yields an empty session
// id, not an error; detail calls built from such a result fail validation
// upstream.
func newSearchResult(body []byte, payload SearchPayload, params FlightSearchParams) *SearchResult {
	result := &SearchResult{
		Raw:           json.RawMessage(body),
		SessionID:     completedSessionID(body),
		SearchPayload: payload,
		Origin:        params.Origin,
	}

	if destination, ok := params.Destination.(Airport); ok {
		result.Destination = destination
	}

	return result
}

// completedSessionID digs the session id out of a completed payload, whose
// nesting differs from the polling envelope.
func completedSessionID(body []byte) string {
	var payload struct {
		Itineraries *struct {
			Context struct {
				SessionID string `json:"sessionId"`
			} `json:"context"`
		} `json:"itineraries"`
	}

	if err := json.Unmarshal(body, &payload); err != nil || payload.Itineraries == nil {
		return ""
	}

	return payload.Itineraries.Context.SessionID
}

// ItineraryDetails fetches the extended data of one itinerary from a
// completed search. itineraryID must come from the given result.
func (c *Client) ItineraryDetails(ctx context.Context, itineraryID string, result *SearchResult) (json.RawMessage, error) {
	payload, err := newItineraryDetailPayload(itineraryID, result, userPreferences{
		Market:       c.cfg.Market,
		CurrencyCode: c.cfg.Currency,
		Locale:       c.cfg.Locale,
	})
	if err != nil {
		return nil, err
	}

	extra := http.Header{}
	extra.Set("grpc-metadata-x-skyscanner-devicedetection-istablet", "false")
	extra.Set("grpc-metadata-x-skyscanner-devicedetection-ismobile", "true")
	extra.Set("grpc-metadata-x-skyscanner-channelid", "goandroid")
	extra.Set("grpc-metadata-x-skyscanner-viewid", uuid.NewString())
	extra.Set("grpc-metadata-x-skyscanner-clientid", "skyscanner_app")
	extra.Set("grpc-metadata-x-skyscanner-client-type", "net.skyscanner.android.main")
	extra.Set("grpc-metadata-skyscanner-flights-config-session-id", uuid.NewString())
	extra.Set("grpc-metadata-x-skyscanner-consent-information", "true")
	extra.Set("grpc-metadata-x-skyscanner-consent-adverts", "true")
	extra.Set("Content-Type", "application/json; charset=utf-8")

	statusCode, raw, err := c.do(ctx, http.MethodPost, itineraryDetailsURL, payload, extra)
	if err != nil {
		return nil, err
	}

	body, err := classify(statusCode, raw)
	if err != nil {
		return nil, err
	}

	return json.RawMessage(body), nil
}
