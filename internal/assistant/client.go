package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// DescriptionRequest is the body of POST /api/generate-description
type DescriptionRequest struct {
	ProductName string `json:"productName"`
}

// DescriptionResponse is the body returned by the description endpoint.
// Text is set on success, Error otherwise.
type DescriptionResponse struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Client asks a remote description endpoint for text
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the given endpoint URL. A nil httpClient uses http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Describe implements Describer. Transport and decoding failures yield
// FallbackDescription; a response without text yields EmptyTextFallback.
func (c *Client) Describe(ctx context.Context, productName string) string {
	body, err := json.Marshal(DescriptionRequest{ProductName: productName})
	if err != nil {
		c.logger.Error("failed to encode description request", "error", err)
		return fallback("error")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("failed to create description request", "error", err)
		return fallback("error")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("description endpoint unreachable", "endpoint", c.endpoint, "error", err)
		return fallback("error")
	}
	defer resp.Body.Close()

	var out DescriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Error("failed to decode description response", "status", resp.StatusCode, "error", err)
		return fallback("error")
	}

	if out.Error != "" {
		c.logger.Warn("description endpoint returned an error", "status", resp.StatusCode, "error", out.Error)
	}
	return clean(out.Text)
}

var _ Describer = (*Client)(nil)
