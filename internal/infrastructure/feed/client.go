package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/septicstore/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client fetches the remote XML catalog feed and turns it into a Snapshot
type Client struct {
	httpClient  *http.Client
	feedURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a feed client with a bounded request timeout.
// The limiter keeps retry loops from hammering the export endpoint:
// Bitrix catalog exports are regenerated on demand and are slow to serve.
func NewClient(feedURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Every(5*time.Second), 2)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		feedURL:     feedURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// FetchCatalog downloads the feed document and parses it into a Snapshot.
// Transient transport failures are retried; a document that downloads but
// fails to parse is not retried, the same bytes would fail again.
func (c *Client) FetchCatalog(ctx context.Context) (*domain.Snapshot, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := c.download(ctx)
		if err != nil {
			log.Printf("[FEED] Fetch error (attempt %d): %v", attempt, err)
			lastErr = err
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt)):
			}
			continue
		}

		if c.debug {
			log.Printf("[FEED] Downloaded %d bytes from %s", len(body), c.feedURL)
		}

		snapshot, err := ParseCatalog(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		return snapshot, nil
	}

	return nil, lastErr
}

// download performs a single GET of the feed document
func (c *Client) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "SepticStore/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", domain.ErrFeedUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}

	return body, nil
}

// exponentialBackoff returns the wait time before the given retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}
