package skyscanner

import (
	"encoding/json"
	"net/http"
)

// classify maps a transport status code and raw body onto the client's
// error taxonomy. On success the body is passed through untouched for the
// caller to interpret.
func classify(statusCode int, body []byte) ([]byte, error) {
	switch {
	case statusCode == http.StatusForbidden:
		return nil, newCaptchaBan(body)
	case statusCode != http.StatusOK:
		return nil, &TransportError{StatusCode: statusCode, Body: string(body)}
	}

	return body, nil
}

// newCaptchaBan extracts the redirect path from a 403 body. A body that
// cannot be parsed or that lacks the field degrades to the bare base URL,
// never to an error.
func newCaptchaBan(body []byte) *CaptchaBanError {
	var payload struct {
		RedirectTo string `json:"redirect_to"`
	}

	banURL := baseWebURL
	if err := json.Unmarshal(body, &payload); err == nil && payload.RedirectTo != "" {
		banURL += payload.RedirectTo
	}

	return &CaptchaBanError{URL: banURL}
}
