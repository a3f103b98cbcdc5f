package webhook

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// Client delivers raw event payloads to the household's webhook endpoint.
type Client interface {
	Deliver(ctx context.Context, payload []byte) error
}

// StatusError is a non-2xx answer from the endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned non-successful status code: %d", e.StatusCode)
}

// Permanent reports whether retrying cannot help. 408 and 429 are worth
// another try; any other 4xx is not.
func (e *StatusError) Permanent() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 &&
		e.StatusCode != http.StatusRequestTimeout && e.StatusCode != http.StatusTooManyRequests
}

// HTTPClient posts events as JSON.
type HTTPClient struct {
	client *http.Client
	url    string
}

func NewHTTPClient(url string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		url: url,
	}
}

func (c *HTTPClient) Deliver(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}
