package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrNoData marks a terminal "nothing there" response (404 and other 4xx).
// Callers surface it to their stage as missing data, never as a retryable
// failure.
var ErrNoData = errors.New("no data")

const defaultUserAgent = "Mozilla/5.0 (compatible; prop-sheet/1.0)"

// Client is the shared HTTP layer under every provider: bounded retry with
// exponential backoff for 429/5xx and transport errors, a politeness rate
// limiter serializing requests to the source, and a circuit breaker that
// turns a dead source into fast skips for the rest of the run.
type Client struct {
	httpClient  *http.Client
	logger      *logrus.Logger
	maxAttempts int
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
}

// NewClient creates a provider HTTP client. delay is the minimum spacing
// between consecutive requests to the source; attempts caps retries per
// fetch.
func NewClient(name string, timeout, delay time.Duration, attempts, breakerThreshold int, logger *logrus.Logger) *Client {
	if attempts <= 0 {
		attempts = 3
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(breakerThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:      logger,
		maxAttempts: attempts,
		limiter:     rate.NewLimiter(limit, 1),
		breaker:     breaker,
	}
}

// Get fetches a URL with the retry/backoff policy. 404 and other 4xx map to
// ErrNoData without retrying; 429 and 5xx retry with exponential backoff
// (1s base, doubled per attempt).
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("source unavailable: %w", err)
		}
		return nil, err
	}
	return body.([]byte), nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			waitTime := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			c.logger.Warnf("Request failed (attempt %d), waiting %v: %v", attempt, waitTime, lastErr)
			select {
			case <-time.After(waitTime):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("User-Agent", defaultUserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				lastErr = err
				continue
			}
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		default:
			// 404 and the rest of the 4xx range are terminal
			resp.Body.Close()
			return nil, fmt.Errorf("%w: status %d for %s", ErrNoData, resp.StatusCode, url)
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxAttempts, lastErr)
}

// GetDocument fetches a URL and parses it as HTML.
func (c *Client) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", url, err)
	}
	return doc, nil
}
