package postgrest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
)

// HTTPClient is the interface for HTTP client.
type HTTPClient interface {
	// Do sends a request to the PostgREST server. body is nil for requests
	// without a payload.
	Do(ctx context.Context, method string, u *url.URL, header http.Header, body []byte) (*http.Response, error)
	// Close releases idle connections held by the client.
	Close()
}

type httpClient struct {
	client *http.Client
}

// NewHTTPClient creates a new internal HTTP client with its own connection pool.
func NewHTTPClient() HTTPClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &httpClient{
		client: &http.Client{Transport: transport},
	}
}

// WrapHTTPClient adapts an existing *http.Client, e.g. one carrying custom
// timeouts or TLS settings.
func WrapHTTPClient(c *http.Client) HTTPClient {
	return &httpClient{client: c}
}

// Ensure httpClient implements HTTPClient.
var _ HTTPClient = (*httpClient)(nil)

func (c *httpClient) Do(ctx context.Context, method string, u *url.URL, header http.Header, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, err
	}
	if header != nil {
		req.Header = header.Clone()
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.client.Do(req)
}

func (c *httpClient) Close() {
	c.client.CloseIdleConnections()
}
