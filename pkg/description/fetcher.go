package description

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/portfwd/upnp-go/pkg/log"
)

// Fetch errors.
var (
	ErrHTTPStatus = errors.New("unexpected HTTP status")
)

// DefaultFetchTimeout bounds a single description retrieval. A single
// unreachable device must not hang the whole discovery pipeline.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher retrieves a description document from a URL.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	// Fetch performs a blocking retrieval of the document at url.
	// The call is bounded by ctx and the implementation's own timeout.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ClientConfig configures a description Client.
type ClientConfig struct {
	// Timeout bounds each retrieval. Zero means DefaultFetchTimeout.
	Timeout time.Duration

	// HTTPClient overrides the underlying HTTP client. When set, Timeout
	// is ignored and the provided client's settings apply.
	HTTPClient *http.Client

	// Logger receives fetch events. Nil disables logging.
	Logger log.Logger
}

// Client fetches description documents over HTTP.
type Client struct {
	http   *http.Client
	logger log.Logger
}

// NewClient creates a description client.
func NewClient(config ClientConfig) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = DefaultFetchTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		http:   httpClient,
		logger: log.OrNoop(config.Logger),
	}
}

// Fetch retrieves the document at url with a GET request.
// Any status other than 200 OK is an error.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	exchangeID := uuid.NewString()

	c.logger.Log(log.Event{
		Timestamp:  time.Now(),
		ExchangeID: exchangeID,
		Direction:  log.DirectionOut,
		Layer:      log.LayerDescription,
		Category:   log.CategoryFetch,
		Fetch:      &log.FetchEvent{URL: url},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logError(exchangeID, url, err)
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("fetch %s: %w: %s", url, ErrHTTPStatus, resp.Status)
		c.logError(exchangeID, url, err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(exchangeID, url, err)
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	c.logger.Log(log.Event{
		Timestamp:  time.Now(),
		ExchangeID: exchangeID,
		Direction:  log.DirectionIn,
		Layer:      log.LayerDescription,
		Category:   log.CategoryFetch,
		Fetch: &log.FetchEvent{
			URL:    url,
			Status: resp.StatusCode,
			Size:   len(body),
		},
	})

	return body, nil
}

func (c *Client) logError(exchangeID, url string, err error) {
	c.logger.Log(log.Event{
		Timestamp:  time.Now(),
		ExchangeID: exchangeID,
		Direction:  log.DirectionIn,
		Layer:      log.LayerDescription,
		Category:   log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerDescription,
			Message: err.Error(),
			Context: url,
		},
	})
}

// Compile-time interface satisfaction check.
var _ Fetcher = (*Client)(nil)
