package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 16 << 20
)

// Client performs GET requests with browser headers and retries.
type Client struct {
	HTTP     *http.Client
	Retry    RetryConfig
	Language string
	// MaxBody caps response bodies. Zero means maxBodyBytes.
	MaxBody int64
}

// NewClient returns a Client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		HTTP:  &http.Client{Timeout: timeout},
		Retry: DefaultRetryConfig,
	}
}

// Get fetches url and returns the body. Non-2xx responses become a
// *StatusError and bodies over maxBodyBytes fail with ErrBodyTooLarge.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := c.Retry.Do(ctx, func(int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header = RandomHeaders(c.Language)

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return newStatusError(resp)
		}
		body, err = readLimited(resp.Body, c.maxBody())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", redactQuery(url), err)
	}
	return body, nil
}

func (c *Client) maxBody() int64 {
	if c.MaxBody > 0 {
		return c.MaxBody
	}
	return maxBodyBytes
}

// readLimited reads at most limit bytes and fails if r holds more.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, limit)
	}
	return body, nil
}

// redactQuery drops signed query parameters from caption URLs in error messages.
func redactQuery(url string) string {
	base, _, _ := strings.Cut(url, "?")
	return base
}
