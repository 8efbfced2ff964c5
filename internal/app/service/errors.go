package service

import (
	"errors"
	"net/http"

	"github.com/rakhmadg/sky-travel-service/internal/pkg/exception"
	"github.com/rakhmadg/sky-travel-service/internal/pkg/skyscanner"
)

var ErrSearchNotFound = exception.ApplicationError{
	Message:    "search not found or expired",
	StatusCode: http.StatusNotFound,
}

var ErrSearchInProgress = exception.ApplicationError{
	Message:    "an identical search is already in progress",
	StatusCode: http.StatusConflict,
}

var ErrRateLimitExceeded = exception.ApplicationError{
	Message:    "backend rate limit exceeded",
	StatusCode: http.StatusTooManyRequests,
}

// mapClientError translates the search client's error taxonomy onto the
// HTTP status codes this API responds with.
func mapClientError(err error) error {
	var validationErr *skyscanner.ValidationError
	if errors.As(err, &validationErr) {
		return exception.ApplicationError{
			Message:    validationErr.Reason,
			StatusCode: http.StatusBadRequest,
		}
	}

	var ban *skyscanner.CaptchaBanError
	if errors.As(err, &ban) {
		return exception.ApplicationError{
			Message:    ban.Error(),
			StatusCode: http.StatusForbidden,
		}
	}

	if errors.Is(err, skyscanner.ErrIncompleteSearch) {
		return exception.ApplicationError{
			Message:    "search did not complete within the retry budget",
			StatusCode: http.StatusGatewayTimeout,
		}
	}

	if errors.Is(err, skyscanner.ErrAirportNotFound) {
		return exception.ApplicationError{
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}

	var transportErr *skyscanner.TransportError
	if errors.As(err, &transportErr) {
		return exception.ApplicationError{
			Message:    "unexpected backend response",
			StatusCode: http.StatusBadGateway,
			Cause:      err,
		}
	}

	return err
}
