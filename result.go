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

import "errors"

// Result is the outcome of an asynchronous execution. Exactly one of Value
// and Err is meaningful: when Err is nil, Value holds the decoded result.
type Result[T any] struct {
	Value T
	Err   error
}

// Unwrap returns the value and the error, in the shape Execute returns them.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// APIError returns the server error carried by the result, if any.
func (r Result[T]) APIError() (*Error, bool) {
	var e *Error
	if errors.As(r.Err, &e) {
		return e, true
	}
	return nil, false
}
