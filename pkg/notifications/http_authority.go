package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidBaseURL is returned by NewHTTPAuthority for an unusable endpoint.
var ErrInvalidBaseURL = errors.New("invalid notification service base URL")

// TokenProvider supplies the bearer token attached to every request.
// Returning an empty string leaves the request unauthenticated.
type TokenProvider func(ctx context.Context) string

// HTTPAuthority talks to the notification service over its JSON API and maps
// transport errors and response codes onto the package's error taxonomy.
type HTTPAuthority struct {
	baseURL string
	client  *http.Client
	token   TokenProvider
}

// HTTPAuthorityOption configures an HTTPAuthority.
type HTTPAuthorityOption func(*HTTPAuthority)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) HTTPAuthorityOption {
	return func(a *HTTPAuthority) {
		if client != nil {
			a.client = client
		}
	}
}

// WithTokenProvider installs the session token source.
func WithTokenProvider(provider TokenProvider) HTTPAuthorityOption {
	return func(a *HTTPAuthority) {
		if provider != nil {
			a.token = provider
		}
	}
}

// NewHTTPAuthority creates an authority backed by the notification service at
// baseURL (scheme and host, without a trailing slash).
func NewHTTPAuthority(baseURL string, opts ...HTTPAuthorityOption) (*HTTPAuthority, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	a := &HTTPAuthority{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		token:   func(context.Context) string { return "" },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *HTTPAuthority) List(ctx context.Context, userID string) ([]Notification, error) {
	var records []Notification
	path := fmt.Sprintf("/v1/users/%s/notifications", url.PathEscape(userID))
	if err := a.do(ctx, http.MethodGet, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (a *HTTPAuthority) MarkRead(ctx context.Context, id string) error {
	path := fmt.Sprintf("/v1/notifications/%s/read", url.PathEscape(id))
	return a.do(ctx, http.MethodPost, path, nil)
}

func (a *HTTPAuthority) MarkAllRead(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/v1/notifications/read-all", nil)
}

func (a *HTTPAuthority) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("/v1/notifications/%s", url.PathEscape(id))
	return a.do(ctx, http.MethodDelete, path, nil)
}

func (a *HTTPAuthority) ClearAll(ctx context.Context) error {
	return a.do(ctx, http.MethodDelete, "/v1/notifications", nil)
}

// do issues a single request and decodes the response into out when out is
// non-nil. Any failure is already classified when it returns.
func (a *HTTPAuthority) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknown, err)
	}
	req.Header.Set("Accept", "application/json")
	if token := a.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrUnknown, err)
		}
	}
	return nil
}

// classifyStatus maps non-2xx responses onto the error taxonomy.
func classifyStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuth, resp.StatusCode)
	case http.StatusNotFound:
		return fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	}

	// Carry the service's own message when it sends one.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return fmt.Errorf("%w: status %d: %s", ErrUnknown, resp.StatusCode, msg)
	}
	return fmt.Errorf("%w: status %d", ErrUnknown, resp.StatusCode)
}
