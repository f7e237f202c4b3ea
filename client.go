/*
 * Copyright 2024 The postgrest-query-go Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package postgrest

import (
	"cmp"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/http/httpguts"
)

// Version is the version of this client library.
const Version = "0.3.0"

// DefaultUserAgent identifies this library on every outbound request.
const DefaultUserAgent = "postgrest-query-go/" + Version

// Client is the entry point for building requests against a PostgREST server.
//
// A Client is safe for concurrent use. Its endpoint and default headers are
// never modified after NewClient returns; every builder gets its own copy.
type Client struct {
	endpoint *url.URL
	header   http.Header
	schema   string

	http    HTTPClient
	logger  *zap.Logger
	metrics *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport used to send requests. The client is
// reused across requests, so connection pooling is under the caller's control.
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics enables request metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new client.
//
// An invalid endpoint or a header that is not valid HTTP header text is a
// programming error and makes NewClient panic. Use Config.Validate to check
// untrusted configuration first.
func NewClient(config *Config, opts ...Option) *Client {
	if err := config.Validate(); err != nil {
		panic(fmt.Sprintf("postgrest: %v", err))
	}
	endpoint, err := url.Parse(strings.TrimRight(config.Endpoint, "/"))
	if err != nil {
		panic(fmt.Sprintf("postgrest: %v", err))
	}

	header := make(http.Header, len(config.Headers)+1)
	for k, v := range config.Headers {
		if err := validateHeader(k, v); err != nil {
			panic(fmt.Sprintf("postgrest: %v", err))
		}
		header.Set(k, v)
	}
	header.Set("User-Agent", cmp.Or(config.UserAgent, DefaultUserAgent))

	c := &Client{
		endpoint: endpoint,
		header:   header,
		schema:   config.Schema,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = NewHTTPClient()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Close releases the idle connections of the underlying transport.
//
// You don't typically need to call this as the garbage collector will release
// the resources when the client is no longer referenced. However, it can be
// useful to call this if you want to release the resources immediately.
func (c *Client) Close() {
	c.http.Close()
}

// Endpoint returns a copy of the root URL.
func (c *Client) Endpoint() *url.URL {
	u := *c.endpoint
	return &u
}

// From starts a request against the named table or view.
func (c *Client) From(relation string) *QueryBuilder {
	return &QueryBuilder{
		c:      c,
		url:    c.endpoint.JoinPath(relation),
		header: c.header.Clone(),
		schema: c.schema,
	}
}

func validateHeader(key, value string) error {
	if !httpguts.ValidHeaderFieldName(key) {
		return fmt.Errorf("%w: invalid header name %q", ErrInvalidArgument, key)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("%w: invalid value for header %q", ErrInvalidArgument, key)
	}
	return nil
}
