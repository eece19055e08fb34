// Package artifact fetches dataset snapshots from the pipeline's artifact
// store over HTTP. Snapshots are published as CSV with a header row; the
// client decodes them straight into an in-memory table.
package artifact

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"listing_gate/internal/dataset"
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("artifact store base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 60 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Fetch downloads the named snapshot and decodes it. Implements the
// DatasetSource port. Version "latest" is resolved by the store.
// Tries the versioned endpoint first, falls back to the legacy flat path.
func (c *Client) Fetch(ctx context.Context, name, version string) (*dataset.Table, error) {
	if version == "" {
		version = "latest"
	}
	candidates := []string{
		fmt.Sprintf("%s/v1/datasets/%s/versions/%s", c.base, name, version), // preferred
		fmt.Sprintf("%s/datasets/%s:%s", c.base, name, version),             // legacy
	}
	body, err := c.getFirst(ctx, candidates)
	if err != nil {
		return nil, err
	}
	return decodeCSV(body)
}

func decodeCSV(body []byte) (*dataset.Table, error) {
	r := csv.NewReader(strings.NewReader(string(body)))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("artifact: decode csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("artifact: empty csv payload")
	}
	return dataset.New(records[0], records[1:])
}

// ---- Internals ----

var (
	ErrNotFound     = errors.New("artifact: not found")
	ErrUnauthorized = errors.New("artifact: unauthorized")
	ErrForbidden    = errors.New("artifact: forbidden")
)

func (c *Client) getFirst(ctx context.Context, urls []string) ([]byte, error) {
	var last error
	for _, u := range urls {
		b, err := c.get(ctx, u)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				last = err
				continue // try next pattern
			}
			return nil, err // non-404: stop early
		}
		return b, nil
	}
	if last != nil {
		return nil, last
	}
	return nil, errors.New("no candidate URL succeeded")
}

// get performs a GET with client-side rate limiting and retries on 429
// and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if c.key != "" {
			req.Header.Set("X-API-Key", c.key)
		}
		req.Header.Set("Accept", "text/csv")
		req.Header.Set("User-Agent", "listing-gate/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			b, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			return b, err

		case http.StatusNotFound:
			resp.Body.Close()
			return nil, ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return nil, ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return nil, ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return nil, lastErr
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * 250 * time.Millisecond
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
