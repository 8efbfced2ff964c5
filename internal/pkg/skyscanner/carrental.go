package skyscanner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CarRentalParams describes one car rental search. Dropoff defaults to the
// pickup place when nil.
type CarRentalParams struct {
	Pickup       RentalPlace
	Dropoff      RentalPlace
	PickupTime   time.Time
	DropoffTime  time.Time
	DriverOver25 bool
}

// CarRentalResult is the stabilized listing payload together with the
// group count it converged on.
type CarRentalResult struct {
	Raw         json.RawMessage `json:"listings"`
	GroupsCount int             `json:"groups_count"`
}

// CarRental polls the quotes endpoint until the incrementally populated
// listing stabilizes. The backend exposes no completion flag; convergence
// is declared after two consecutive polls report the same group count. A
// request sequence number is bumped on every poll.
func (c *Client) CarRental(ctx context.Context, params CarRentalParams) (*CarRentalResult, error) {
	if params.Pickup == nil {
		return nil, validationErrorf("pickup place is required")
	}

	if params.Dropoff == nil {
		params.Dropoff = params.Pickup
	}

	if params.DropoffTime.Before(params.PickupTime) {
		return nil, validationErrorf("dropoff time cannot be before the pickup time")
	}

	now := c.now()
	if params.PickupTime.Before(now) || params.DropoffTime.Before(now) {
		return nil, validationErrorf("pickup or dropoff time cannot be in the past")
	}

	quoteURL := carRentalQuoteURL(params, c.cfg.Market, c.cfg.Locale, c.cfg.Currency)
	query := newCarRentalQuery()

	var (
		lastCount int
		seeded    bool
	)

	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		statusCode, raw, err := c.do(ctx, http.MethodGet, quoteURL+"?"+query.Encode(), nil, nil)
		if err != nil {
			return nil, err
		}

		body, err := classify(statusCode, raw)
		if err != nil {
			return nil, err
		}

		var listing struct {
			GroupsCount int `json:"groups_count"`
		}

		if err := json.Unmarshal(body, &listing); err != nil {
			return nil, fmt.Errorf("decode car rental response: %w", err)
		}

		query.Set("reqn", strconv.Itoa(attempt+1))

		if seeded && listing.GroupsCount == lastCount {
			return &CarRentalResult{Raw: json.RawMessage(body), GroupsCount: listing.GroupsCount}, nil
		}

		slog.DebugContext(ctx, "car rental listing not yet stable",
			slog.Int("groups_count", listing.GroupsCount),
			slog.Int("attempt", attempt+1))

		lastCount = listing.GroupsCount
		seeded = true

		if err := c.sleep(ctx); err != nil {
			return nil, err
		}
	}

	return nil, ErrIncompleteSearch
}

// carRentalURLSegments is the minimum path segment count of a shareable
// car hire quotes URL.
const carRentalURLSegments = 14

// CarRentalFromURL parses a shareable car hire quotes URL and runs the
// search it describes. The path carries, in order: market, locale,
// currency, driver age, pickup and dropoff entity ids, and the two local
// datetimes.
func (c *Client) CarRentalFromURL(ctx context.Context, rawURL string) (*CarRentalResult, error) {
	rawURL, _, _ = strings.Cut(rawURL, "?")

	segments := strings.Split(rawURL, "/")
	if len(segments) < carRentalURLSegments {
		return nil, validationErrorf("car hire URL is not valid")
	}

	driverAge, err := strconv.Atoi(segments[8])
	if err != nil {
		return nil, validationErrorf("car hire URL carries a malformed driver age: %s", segments[8])
	}

	pickupTime, err := time.Parse(rentalTimeLayout, segments[11])
	if err != nil {
		return nil, validationErrorf("car hire URL carries a malformed pickup time: %s", segments[11])
	}

	dropoffTime, err := time.Parse(rentalTimeLayout, segments[12])
	if err != nil {
		return nil, validationErrorf("car hire URL carries a malformed dropoff time: %s", segments[12])
	}

	return c.CarRental(ctx, CarRentalParams{
		Pickup:       Location{EntityID: segments[9]},
		Dropoff:      Location{EntityID: segments[10]},
		PickupTime:   pickupTime,
		DropoffTime:  dropoffTime,
		DriverOver25: driverAge >= 25,
	})
}
