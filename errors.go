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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrConsumed is returned when a builder stage is executed more than once.
	ErrConsumed = errors.New("request already executed")
	// ErrInvalidArgument is returned when a request cannot be built from the
	// values the caller supplied.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error represents an error response from the PostgREST server.
//
// PostgREST may omit any of the fields, so each is optional.
type Error struct {
	Hint    *string `json:"hint"`
	Details *string `json:"details"`
	Code    *string `json:"code"`
	Message *string `json:"message"`

	// Status is the HTTP status code of the response.
	Status int `json:"-"`
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", e.Status)
	if e.Code != nil {
		fmt.Fprintf(&b, " (%s)", *e.Code)
	}
	if e.Message != nil {
		fmt.Fprintf(&b, ": %s", *e.Message)
	}
	if e.Details != nil {
		fmt.Fprintf(&b, "; details: %s", *e.Details)
	}
	if e.Hint != nil {
		fmt.Fprintf(&b, "; hint: %s", *e.Hint)
	}
	return b.String()
}

// UnmarshalJSON accepts details of any JSON type; non-string details are kept
// as their raw JSON text.
func (e *Error) UnmarshalJSON(data []byte) error {
	var raw struct {
		Hint    *string         `json:"hint"`
		Details json.RawMessage `json:"details"`
		Code    *string         `json:"code"`
		Message *string         `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Hint, e.Code, e.Message = raw.Hint, raw.Code, raw.Message
	e.Details = nil
	if len(raw.Details) > 0 && string(raw.Details) != "null" {
		var s string
		if err := json.Unmarshal(raw.Details, &s); err != nil {
			s = string(raw.Details)
		}
		e.Details = &s
	}
	return nil
}

// TransportError is returned when a request could not be sent, no response
// was received, or a successful response could not be decoded.
type TransportError struct {
	// Op is the step that failed, e.g. "send" or "decode".
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("postgrest %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func transportError(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// checkStatusCode returns nil for any 2xx response and an *Error otherwise.
func checkStatusCode(resp *http.Response) error {
	if isSuccess(resp.StatusCode) {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	msg := string(data)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: &msg}
	}
	var errResp Error
	if err := json.Unmarshal(data, &errResp); err != nil {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: &msg}
	}
	errResp.Status = resp.StatusCode
	return &errResp
}

// sneakyBodyClose closes the body and ignores the error.
// This is useful to close the HTTP response body when we don't care about the error.
func sneakyBodyClose(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}
