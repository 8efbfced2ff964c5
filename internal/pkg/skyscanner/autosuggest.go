package skyscanner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Airports suggests airports for a free-text query. The optional outbound
// and inbound dates give the backend routing context; pass zero times to
// omit them.
func (c *Client) Airports(ctx context.Context, query string, outbound, inbound time.Time) ([]Airport, error) {
	params := url.Values{
		"query":        {query},
		"outboundDate": {formatSuggestDate(outbound)},
		"inboundDate":  {formatSuggestDate(inbound)},
	}

	statusCode, raw, err := c.do(ctx, http.MethodGet, airportSuggestURL+"?"+params.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	body, err := classify(statusCode, raw)
	if err != nil {
		return nil, err
	}

	var payload struct {
		InputSuggest []struct {
			Presentation struct {
				Title string `json:"title"`
			} `json:"presentation"`
			Navigation struct {
				EntityID             string `json:"entityId"`
				RelevantFlightParams struct {
					SkyID string `json:"skyId"`
				} `json:"relevantFlightParams"`
			} `json:"navigation"`
		} `json:"inputSuggest"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode airport suggestions: %w", err)
	}

	airports := make([]Airport, 0, len(payload.InputSuggest))
	for _, suggestion := range payload.InputSuggest {
		airports = append(airports, Airport{
			Title:    suggestion.Presentation.Title,
			EntityID: suggestion.Navigation.EntityID,
			SkyCode:  suggestion.Navigation.RelevantFlightParams.SkyID,
		})
	}

	return airports, nil
}

// AirportByCode resolves a single airport by its IATA code.
func (c *Client) AirportByCode(ctx context.Context, code string) (Airport, error) {
	airports, err := c.Airports(ctx, code, time.Time{}, time.Time{})
	if err != nil {
		return Airport{}, err
	}

	for _, airport := range airports {
		if strings.EqualFold(airport.SkyCode, code) {
			return airport, nil
		}
	}

	return Airport{}, fmt.Errorf("%w: %s", ErrAirportNotFound, code)
}

// Locations suggests non-airport places for a free-text query, used for
// car rental pickup and dropoff.
func (c *Client) Locations(ctx context.Context, query string) ([]Location, error) {
	suggestURL := fmt.Sprintf(locationSuggestURL, c.cfg.Market, c.cfg.Locale) + url.PathEscape(query)

	params := url.Values{"autosuggestExp": {"neighborhood_b"}}

	statusCode, raw, err := c.do(ctx, http.MethodGet, suggestURL+"?"+params.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	body, err := classify(statusCode, raw)
	if err != nil {
		return nil, err
	}

	var payload []struct {
		EntityName string `json:"entity_name"`
		EntityID   string `json:"entity_id"`
		Location   string `json:"location"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode location suggestions: %w", err)
	}

	locations := make([]Location, 0, len(payload))
	for _, suggestion := range payload {
		locations = append(locations, Location{
			Name:     suggestion.EntityName,
			EntityID: suggestion.EntityID,
			Position: suggestion.Location,
		})
	}

	return locations, nil
}
