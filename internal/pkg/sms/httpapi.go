package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

var (
	// ErrEndpointRequired is returned when the gateway endpoint is missing.
	ErrEndpointRequired = errors.New("sms: gateway endpoint is required")
	// ErrCredentialsRequired is returned when the API token or sender id is missing.
	ErrCredentialsRequired = errors.New("sms: api token and sender are required")
	// ErrDeliveryFailed is returned when the gateway reports a non-success status.
	ErrDeliveryFailed = errors.New("sms: gateway reported delivery failure")
)

// HTTPAPIConfig configures the HTTP gateway implementation.
type HTTPAPIConfig struct {
	// Endpoint is the gateway send URL.
	Endpoint string
	// Token is the bearer token for the gateway API.
	Token string
	// Sender is the sender name or number shown to the recipient.
	Sender string
	// Timeout bounds a single send attempt. Defaults to 10s.
	Timeout time.Duration
	// MaxRetries is the number of retries on transient failures. Defaults to 2.
	MaxRetries int
}

// HTTPAPI is an SMS implementation backed by a JSON-over-HTTP gateway.
type HTTPAPI struct {
	endpoint   string
	token      string
	sender     string
	maxRetries int
	client     *http.Client
}

// NewHTTPAPI constructs an HTTP gateway sender.
func NewHTTPAPI(cfg HTTPAPIConfig) (*HTTPAPI, error) {
	if cfg.Endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if cfg.Token == "" || cfg.Sender == "" {
		return nil, ErrCredentialsRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	if cfg.MaxRetries == 0 {
		maxRetries = 2
	}

	return &HTTPAPI{
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		sender:     cfg.Sender,
		maxRetries: maxRetries,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

type sendRequest struct {
	Sender  string `json:"sender"`
	To      string `json:"to"`
	Message string `json:"message"`
}

type sendResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Send delivers a message through the gateway, retrying transient failures
// with exponential backoff.
func (s *HTTPAPI) Send(ctx context.Context, msg Message) error {
	if msg.To == "" || msg.Body == "" {
		return fmt.Errorf("%w: empty recipient or body", ErrDeliveryFailed)
	}

	body, err := json.Marshal(sendRequest{
		Sender:  s.sender,
		To:      msg.To,
		Message: msg.Body,
	})
	if err != nil {
		return err
	}

	backoff := retry.WithMaxRetries(uint64(s.maxRetries), retry.NewExponential(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return s.sendOnce(ctx, body)
	})
}

func (s *HTTPAPI) sendOnce(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		// network errors are worth another attempt
		return retry.RetryableError(err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusInternalServerError {
		return retry.RetryableError(fmt.Errorf("%w: gateway status %d", ErrDeliveryFailed, resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: gateway status %d", ErrDeliveryFailed, resp.StatusCode)
	}

	var parsed sendResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return fmt.Errorf("%w: malformed gateway response", ErrDeliveryFailed)
	}
	if !parsed.Success {
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, parsed.Error)
	}

	return nil
}

// Close implements io.Closer for interface compatibility.
func (s *HTTPAPI) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
