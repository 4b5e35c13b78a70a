// Package api is the HTTP client for the staffing backend. All state lives
// on an explicit Session passed to callers; there are no package-level
// globals and no ambient token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("api: not found")
	ErrUnauthorized = errors.New("api: unauthorized")
)

// APIError carries the backend's rejection detail for inline display.
type APIError struct {
	Status    int
	Detail    string
	RequestID string
}

func (e *APIError) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = http.StatusText(e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", detail, e.Status)
}

// Unwrap maps well-known statuses onto sentinel errors so callers can
// branch with errors.Is without parsing detail text.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	}
	return nil
}

// Session is one authenticated principal's connection to the backend.
type Session struct {
	baseURL        string
	token          string
	client         *http.Client
	onUnauthorized func()
}

// Option customizes session construction.
type Option func(*Session)

// WithHTTPClient overrides the default HTTP client (tests, custom timeouts).
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) {
		if c != nil {
			s.client = c
		}
	}
}

// WithUnauthorizedHook registers a callback invoked once the backend
// answers 401. The stored token is already cleared when it runs; the hook
// typically wipes the persisted copy so the next launch re-authenticates.
func WithUnauthorizedHook(hook func()) Option {
	return func(s *Session) {
		s.onUnauthorized = hook
	}
}

// NewSession builds a session for the given base URL and bearer token.
func NewSession(baseURL, token string, opts ...Option) *Session {
	s := &Session{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   token,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Authenticated reports whether the session still holds a token.
func (s *Session) Authenticated() bool {
	return s.token != ""
}

func (s *Session) invalidate() {
	if s.token == "" {
		return
	}
	s.token = ""
	if s.onUnauthorized != nil {
		s.onUnauthorized()
	}
}

// do performs one JSON request. body and out may be nil. Every request
// carries the bearer token and a fresh request id for log correlation.
func (s *Session) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}
	target := s.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			Status:    resp.StatusCode,
			Detail:    decodeDetail(resp.Body),
			RequestID: requestID,
		}
		if resp.StatusCode == http.StatusUnauthorized {
			s.invalidate()
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeDetail extracts the backend's {"detail": ...} payload. Validation
// errors arrive as structured detail; anything non-string is passed through
// as raw JSON text.
func decodeDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(data))
	}
	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}
	return strings.TrimSpace(string(envelope.Detail))
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
