package postgrest

import (
	"errors"
	"fmt"
	"net/url"
)

// Config defines the configuration for the client.
type Config struct {
	// Endpoint is the root URL of the PostgREST server, e.g. "http://localhost:3000".
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`
	// Schema selects a schema other than the server's default one.
	//
	// This is optional and may be empty.
	Schema string `json:"schema,omitempty" mapstructure:"schema"`
	// Headers are sent with every request, e.g. "Authorization" or "apikey".
	Headers map[string]string `json:"headers,omitempty" mapstructure:"headers"`
	// UserAgent overrides the default User-Agent.
	UserAgent string `json:"user_agent,omitempty" mapstructure:"user_agent"`
}

// Validate checks that the endpoint is an absolute http(s) URL.
func (c *Config) Validate() error {
	if c == nil || c.Endpoint == "" {
		return errors.New("endpoint must not be empty")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", c.Endpoint)
	}
	return nil
}
