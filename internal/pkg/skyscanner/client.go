package skyscanner

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Doer issues a single HTTP request. The default implementation is a plain
// net/http client; callers that need TLS identity impersonation plug in
// their own transport here.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenProvider generates an anti-bot authorization token. It is consulted
// once at construction, only when no token was pre-supplied.
type TokenProvider interface {
	Generate(ctx context.Context, proxy string, insecureSkipVerify bool) (token string, deviceID string, err error)
}

// Config is the client configuration. All fields are fixed at construction
// and never mutated, so a single client is safe for concurrent searches as
// long as its transport is.
type Config struct {
	Locale             string
	Currency           string
	Market             string
	RetryDelay         time.Duration
	MaxRetries         int
	Proxy              string
	Authorization      string
	InsecureSkipVerify bool
}

// Client drives the flight price and car rental search protocols against
// the backend.
type Client struct {
	cfg       Config
	transport Doer
	headers   http.Header
	now       func() time.Time
}

// NewClient builds a client. transport may be nil, in which case a default
// net/http client honoring the proxy and certificate-verification settings
// is used. tokens is required only when cfg.Authorization is empty.
func NewClient(ctx context.Context, cfg Config, transport Doer, tokens TokenProvider) (*Client, error) {
	if cfg.Locale == "" {
		cfg.Locale = "en-US"
	}

	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}

	if cfg.Market == "" {
		cfg.Market = "US"
	}

	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 15
	}

	token := cfg.Authorization
	deviceID := uuid.NewString()

	if token == "" {
		if tokens == nil {
			return nil, errors.New("skyscanner: authorization token or token provider required")
		}

		var err error

		token, deviceID, err = tokens.Generate(ctx, cfg.Proxy, cfg.InsecureSkipVerify)
		if err != nil {
			return nil, fmt.Errorf("generate authorization token: %w", err)
		}
	}

	if transport == nil {
		transport = newDefaultTransport(cfg)
	}

	return &Client{
		cfg:       cfg,
		transport: transport,
		headers:   baseHeaders(cfg, token, deviceID),
		now:       time.Now,
	}, nil
}

func newDefaultTransport(cfg Config) *http.Client {
	transport := &http.Transport{}

	if cfg.Proxy != "" {
		if proxyURL, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return &http.Client{Transport: transport}
}

// baseHeaders is the client identity sent on every request. It is built
// once and treated as read-only shared state afterwards.
func baseHeaders(cfg Config, token, deviceID string) http.Header {
	headers := http.Header{}
	headers.Set("X-Skyscanner-ChannelId", "goandroid")
	headers.Set("X-Skyscanner-Currency", cfg.Currency)
	headers.Set("X-Skyscanner-Locale", cfg.Locale)
	headers.Set("X-Skyscanner-Market", cfg.Market)
	headers.Set("X-Skyscanner-Device", "Android-phone")
	headers.Set("X-Skyscanner-Device-Class", "phone")
	headers.Set("X-Skyscanner-Client-Type", "net.skyscanner.android.main")
	headers.Set("X-Skyscanner-Client-Network-Type", "WIFI")
	headers.Set("Content-Type", "application/json; charset=UTF-8")
	headers.Set("X-Px-Authorization", token)
	headers.Set("X-PX-Os", "Android")
	headers.Set("X-Px-Uuid", deviceID)
	headers.Set("X-Px-Mobile-Sdk-Version", "3.4.4")

	return headers
}

// do issues one request with the client identity headers plus any extras
// and returns the raw status code and body for classification.
func (c *Client) do(ctx context.Context, method, rawURL string, body any, extra http.Header) (int, []byte, error) {
	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request body: %w", err)
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}

	req.Header = c.headers.Clone()
	for key, values := range extra {
		req.Header[key] = values
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp.StatusCode, data, nil
}

// sleep blocks for the configured retry delay or until the context is
// cancelled.
func (c *Client) sleep(ctx context.Context) error {
	select {
	case <-time.After(c.cfg.RetryDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
