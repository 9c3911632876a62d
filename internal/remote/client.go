// Package remote is the HTTP client for the external directory and review services.
// Both services speak plain JSON over HTTP; this package owns URL construction,
// encoding, and the mapping of transport failures onto domain.ErrUnavailable.
// It performs no retries: callers surface failures to the user instead.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/helpline-directory/internal/domain"
)

// StatusError reports a non-success HTTP status from a remote service.
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Code)
}

// Unwrap lets callers match any status failure with errors.Is(err, domain.ErrUnavailable).
func (e *StatusError) Unwrap() error { return domain.ErrUnavailable }

// Client talks to the directory service at {base}/helplines and the review
// service at {base}/reviews.
type Client struct {
	base string
	http *http.Client
}

// NewClient constructs a Client for baseURL. timeout bounds each request,
// including reading the response body.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the service root the client was configured with.
func (c *Client) BaseURL() string { return c.base }

// ListHelplines handles GET {base}/helplines.
func (c *Client) ListHelplines(ctx context.Context) ([]domain.Helpline, error) {
	var out []domain.Helpline
	if err := c.getJSON(ctx, c.base+"/helplines", &out); err != nil {
		return nil, fmt.Errorf("remote.Client.ListHelplines: %w", err)
	}
	if out == nil {
		out = []domain.Helpline{}
	}
	return out, nil
}

// AddHelpline handles POST {base}/helplines/add. Only the status code is
// meaningful; the response body is discarded.
func (c *Client) AddHelpline(ctx context.Context, h domain.NewHelpline) error {
	if err := c.postJSON(ctx, c.base+"/helplines/add", h); err != nil {
		return fmt.Errorf("remote.Client.AddHelpline: %w", err)
	}
	return nil
}

// ListReviews handles GET {base}/reviews/{helplineId}.
func (c *Client) ListReviews(ctx context.Context, helplineID int) ([]domain.Review, error) {
	u := c.base + "/reviews/" + url.PathEscape(strconv.Itoa(helplineID))

	var out []domain.Review
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, fmt.Errorf("remote.Client.ListReviews: %w", err)
	}
	if out == nil {
		out = []domain.Review{}
	}
	return out, nil
}

// AddReview handles POST {base}/reviews/add.
func (c *Client) AddReview(ctx context.Context, r domain.NewReview) error {
	if err := c.postJSON(ctx, c.base+"/reviews/add", r); err != nil {
		return fmt.Errorf("remote.Client.AddReview: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, u string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w: %w", u, domain.ErrUnavailable, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, u string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// do sends req and converts transport failures and non-2xx statuses into
// errors wrapping domain.ErrUnavailable. On success the caller owns resp.Body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{Method: req.Method, URL: req.URL.String(), Code: resp.StatusCode}
	}
	return resp, nil
}
