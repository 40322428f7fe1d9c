// internal/adapters/hostelapi/client.go
package hostelapi

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hostel_finder/internal/adapters/observability"
	"hostel_finder/internal/domain"
)

const maxAttempts = 4

// Client talks to the hostel HTTP API. Writes are validated locally with the
// same rules the server applies, so obviously bad input never leaves the process.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

// APIError is any non-2xx answer that is neither not-found nor a validation failure.
type APIError struct {
	Status int
	Title  string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("hostel api: %d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("hostel api: %d %s", e.Status, e.Title)
}

func New(base string, rps int) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", base)
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) Search(ctx context.Context, f domain.SearchFilters) ([]domain.Hostel, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("location", f.Location)
	set("type", f.Type)
	set("checkIn", f.CheckIn)
	set("checkOut", f.CheckOut)
	q.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	q.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	if f.MinRating > 0 {
		q.Set("rating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}

	var out []domain.Hostel
	return out, c.do(ctx, "search", http.MethodGet, "/hostels?"+q.Encode(), nil, &out)
}

func (c *Client) Get(ctx context.Context, id string) (domain.Hostel, error) {
	var out domain.Hostel
	return out, c.do(ctx, "get", http.MethodGet, "/hostels/"+url.PathEscape(id), nil, &out)
}

func (c *Client) Create(ctx context.Context, in domain.HostelInput) (domain.Hostel, error) {
	var out domain.Hostel
	if err := in.Validate(); err != nil {
		return out, err
	}
	return out, c.do(ctx, "create", http.MethodPost, "/hostels", in, &out)
}

func (c *Client) AdminList(ctx context.Context) ([]domain.Hostel, error) {
	var out []domain.Hostel
	return out, c.do(ctx, "admin_list", http.MethodGet, "/admin/hostels", nil, &out)
}

func (c *Client) Update(ctx context.Context, id string, in domain.HostelInput) (domain.Hostel, error) {
	var out domain.Hostel
	if err := in.Validate(); err != nil {
		return out, err
	}
	return out, c.do(ctx, "update", http.MethodPut, "/admin/hostels/"+url.PathEscape(id), in, &out)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, "/admin/hostels/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Stats(ctx context.Context) (domain.Stats, error) {
	var out domain.Stats
	return out, c.do(ctx, "stats", http.MethodGet, "/admin/stats", nil, &out)
}

func (c *Client) Options(ctx context.Context) (domain.Options, error) {
	var out domain.Options
	return out, c.do(ctx, "options", http.MethodGet, "/options", nil, &out)
}

// ---- Internals ----

// do sends one logical call. Only GETs are retried (429 and transient 5xx,
// honoring Retry-After).
func (c *Client) do(ctx context.Context, endpoint, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = maxAttempts
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		// build a fresh request each attempt
		var rdr io.Reader
		if payload != nil {
			rdr = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hostel-finder/1.0")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("hostel_api", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < attempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("hostel_api", endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			defer resp.Body.Close()
			if out == nil || resp.StatusCode == http.StatusNoContent {
				_, _ = io.Copy(io.Discard, resp.Body)
				return nil
			}
			return json.NewDecoder(resp.Body).Decode(out)

		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return domain.ErrNotFound

		case retryable(resp.StatusCode):
			wait := retryAfter(resp)
			apiErr := readProblem(resp)
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = apiErr
			if i < attempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			return readProblem(resp)
		}
	}

	return lastErr
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// readProblem turns an error response into *domain.ValidationError when it
// carries field errors, else *APIError. It closes the body.
func readProblem(resp *http.Response) error {
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var p struct {
		Title  string            `json:"title"`
		Detail string            `json:"detail"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode), Detail: strings.TrimSpace(string(b))}
	}
	if resp.StatusCode == http.StatusBadRequest && len(p.Errors) > 0 {
		return &domain.ValidationError{Fields: p.Errors}
	}
	if p.Title == "" {
		p.Title = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Title: p.Title, Detail: p.Detail}
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}

// IsValidation reports whether err carries field-scoped validation messages.
func IsValidation(err error) bool {
	var ve *domain.ValidationError
	return errors.As(err, &ve)
}
