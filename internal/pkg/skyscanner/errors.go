package skyscanner

import (
	"errors"
	"fmt"
)

// ErrIncompleteSearch is returned when the retry budget runs out before the
// backend reports a terminal status or the listing count stabilizes.
var ErrIncompleteSearch = errors.New("retry budget exhausted before the search completed")

// ErrAirportNotFound is returned by AirportByCode when no suggestion matches
// the given IATA code.
var ErrAirportNotFound = errors.New("no airport matches the given IATA code")

// ValidationError reports malformed caller input. It is raised before any
// network call and is never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid search parameters: " + e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// CaptchaBanError signals an anti-bot intervention. URL is a best-effort
// link to the captcha challenge.
type CaptchaBanError struct {
	URL string
}

func (e *CaptchaBanError) Error() string {
	return "banned with captcha, solve it at " + e.URL
}

// TransportError carries an unexpected non-success status code together
// with the raw response body.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("unexpected backend response: status_code=%d body=%s", e.StatusCode, e.Body)
}
