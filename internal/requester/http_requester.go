package requester

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crosslink-labs/crm-oauth/internal/logger"
	"go.uber.org/zap"
)

// Response represents an HTTP response with the body fully read
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// HTTPRequester executes outbound requests against vendor endpoints
type HTTPRequester struct {
	client *http.Client
}

// NewHTTPRequester creates a new HTTPRequester with default configuration
func NewHTTPRequester() *HTTPRequester {
	return &HTTPRequester{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetTimeout sets the timeout for the HTTP client
func (r *HTTPRequester) SetTimeout(timeout time.Duration) {
	r.client.Timeout = timeout
}

// PostForm sends a form-encoded POST and reads the whole response body.
// Success is decided by the caller; any status code returns a Response.
func (r *HTTPRequester) PostForm(ctx context.Context, endpoint string, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Error("failed to close response body", zap.Error(closeErr))
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       bodyBytes,
		Headers:    resp.Header,
	}, nil
}
