package cli

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	postgrest "github.com/pgrst/postgrest-query-go"
	"go.uber.org/zap"
)

// retryingHTTPClient resends a request when no response was received. Any
// response, including a 5xx, is returned as is.
type retryingHTTPClient struct {
	next    postgrest.HTTPClient
	retries uint64
	logger  *zap.Logger

	newBackOff func() backoff.BackOff
}

var _ postgrest.HTTPClient = (*retryingHTTPClient)(nil)

func newRetryingHTTPClient(next postgrest.HTTPClient, retries uint64, logger *zap.Logger) *retryingHTTPClient {
	return &retryingHTTPClient{
		next:    next,
		retries: retries,
		logger:  logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
	}
}

func (c *retryingHTTPClient) Do(ctx context.Context, method string, u *url.URL, header http.Header, body []byte) (*http.Response, error) {
	var resp *http.Response
	operation := func() error {
		var err error
		resp, err = c.next.Do(ctx, method, u, header, body)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("retrying request",
			zap.String("method", method),
			zap.String("url", u.String()),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.retries), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *retryingHTTPClient) Close() {
	c.next.Close()
}
