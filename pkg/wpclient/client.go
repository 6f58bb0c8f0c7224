// Package wpclient wraps net/http for talking to a WordPress REST API:
// fixed per-request timeouts, an optional Basic Auth pair, a User-Agent,
// and a pacing policy applied before every call. Requests are single-shot;
// there are no retries, and non-2xx statuses surface to the caller, which
// owns the continuation decision.
package wpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mlockett/wp-archiver/models"
)

const (
	userAgent = "wp-archiver/1.0"

	jsonTimeout     = 25 * time.Second
	downloadTimeout = 40 * time.Second
)

// Response is the outcome of one completed HTTP exchange. A non-2xx status
// is not an error at this layer.
type Response struct {
	StatusCode int
	Body       []byte
	// TotalPages is the value of the X-WP-TotalPages header, or 0 when the
	// header is absent or unparsable.
	TotalPages int
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// AuthDenied reports whether code signals a protected endpoint (401/403).
func AuthDenied(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// PageEnd reports whether code is WordPress's way of saying "no such page":
// 400 beyond the last valid page, or 404 for a vanished collection. Both
// are normal end-of-data signals, not errors.
func PageEnd(code int) bool {
	return code == http.StatusBadRequest || code == http.StatusNotFound
}

// StatusError is returned by Download for non-2xx responses.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}

// Client issues paced, optionally authenticated GET requests. The credential
// pair is immutable after New; no other state is shared between calls.
type Client struct {
	json     *http.Client
	download *http.Client
	creds    *models.Credentials
	pacer    Pacer
}

// New builds a client. creds may be nil for unauthenticated runs; pacer may
// be nil to disable pacing.
func New(creds *models.Credentials, pacer Pacer) *Client {
	if pacer == nil {
		pacer = FixedDelay{}
	}
	return &Client{
		json:     &http.Client{Timeout: jsonTimeout},
		download: &http.Client{Timeout: downloadTimeout},
		creds:    creds,
		pacer:    pacer,
	}
}

// Authenticated reports whether the client carries credentials.
func (c *Client) Authenticated() bool {
	return c.creds != nil
}

func (c *Client) newRequest(ctx context.Context, rawURL string, params url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("User-Agent", userAgent)
	if c.creds != nil {
		req.SetBasicAuth(c.creds.Username, c.creds.Password)
	}
	return req, nil
}

// GetJSON performs one paced GET and returns the status, body, and the
// X-WP-TotalPages header. Network-level failures (timeout, connection
// refused) return an error; HTTP-level failures return a Response.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values) (*Response, error) {
	req, err := c.newRequest(ctx, rawURL, params)
	if err != nil {
		return nil, err
	}

	c.pacer.Pause()
	resp, err := c.json.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", rawURL, err)
	}

	totalPages := 0
	if v := resp.Header.Get("X-WP-TotalPages"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			totalPages = n
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		TotalPages: totalPages,
	}, nil
}

// Download streams a binary payload to dest, creating parent directories as
// needed. Non-2xx responses return a *StatusError and leave no file behind.
func (c *Client) Download(ctx context.Context, rawURL, dest string) error {
	req, err := c.newRequest(ctx, rawURL, nil)
	if err != nil {
		return err
	}

	c.pacer.Pause()
	resp, err := c.download.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, URL: rawURL}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return fmt.Errorf("creating media directory: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dest, err)
	}
	return nil
}
