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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Executable is a request ready to be executed: a *FilterBuilder or an
// *RPCBuilder.
type Executable interface {
	take() (*Client, *request, error)
}

var (
	_ Executable = (*FilterBuilder)(nil)
	_ Executable = (*RPCBuilder)(nil)
)

// Execute sends the request and decodes the result as T.
//
// Inserts are not decoded from the response: Insert yields 1 and InsertMany
// yields the number of rows sent, converted to T. Every other operation
// decodes the JSON response body into T.
//
// The returned error is either an *Error, when the server answered with a
// non-2xx status, or a *TransportError.
func Execute[T any](ctx context.Context, e Executable) (T, error) {
	var out T
	c, r, err := e.take()
	if err != nil {
		return out, err
	}
	if err := c.execute(ctx, r, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// ExecuteAsync is the non-blocking form of Execute. The request is consumed
// immediately; the returned channel yields exactly one Result and is then
// closed.
func ExecuteAsync[T any](ctx context.Context, e Executable) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	c, r, err := e.take()
	if err != nil {
		ch <- Result[T]{Err: err}
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		var out T
		if err := c.execute(ctx, r, &out); err != nil {
			ch <- Result[T]{Err: err}
			return
		}
		ch <- Result[T]{Value: out}
	}()
	return ch
}

// execute performs exactly one HTTP call for r and decodes the response into dst.
func (c *Client) execute(ctx context.Context, r *request, dst any) error {
	if r.err != nil {
		return transportError("build", r.err)
	}

	var body []byte
	if r.hasBody {
		var err error
		if body, err = json.Marshal(r.body); err != nil {
			return transportError("encode", err)
		}
	}

	u := r.URL()
	logger := c.logger.With(
		zap.String("req_id", uuid.NewString()),
		zap.String("operation", r.op.String()),
		zap.String("method", r.method),
		zap.String("url", u.String()),
	)

	start := time.Now()
	resp, err := c.http.Do(ctx, r.method, u, r.header, body)
	latency := time.Since(start)
	if err != nil {
		c.metrics.observe(r.op, r.method, "error", latency)
		logger.Debug("request failed", zap.Duration("latency", latency), zap.Error(err))
		return transportError("send", err)
	}
	defer sneakyBodyClose(resp.Body)

	c.metrics.observe(r.op, r.method, strconv.Itoa(resp.StatusCode), latency)
	logger.Debug("response", zap.Int("status", resp.StatusCode), zap.Duration("latency", latency))

	if err := checkStatusCode(resp); err != nil {
		logger.Debug("request rejected", zap.Error(err))
		return err
	}
	return decodeResponse(r.op, body, resp.Body, dst)
}

// decodeResponse turns a successful response into the result for op.
func decodeResponse(op Operation, sent []byte, body io.Reader, dst any) error {
	switch op {
	case OperationCreate:
		return decodeInto([]byte("1"), dst)
	case OperationCreateMany:
		n, err := countRows(sent)
		if err != nil {
			return transportError("decode", err)
		}
		return decodeInto(strconv.AppendInt(nil, int64(n), 10), dst)
	case OperationRead, OperationUpdate, OperationUpdateMany, OperationDelete, OperationUpsert, OperationRPC:
		data, err := io.ReadAll(body)
		if err != nil {
			return transportError("receive", err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		return decodeInto(data, dst)
	default:
		return transportError("decode", fmt.Errorf("unknown operation %d", int(op)))
	}
}

func decodeInto(data []byte, dst any) error {
	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return transportError("decode", err)
	}
	return nil
}

// countRows returns the number of top-level elements of a JSON array.
func countRows(data []byte) (int, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return 0, fmt.Errorf("bulk insert payload is not a JSON array: %w", err)
	}
	return len(rows), nil
}
