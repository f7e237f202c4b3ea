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
	"net/http"
	"net/url"
)

// Operation identifies the kind of a pending request. It selects how a
// successful response is decoded.
type Operation int

const (
	// OperationRead is a GET against a relation.
	OperationRead Operation = iota
	// OperationCreate inserts a single row.
	OperationCreate
	// OperationCreateMany inserts a list of rows.
	OperationCreateMany
	// OperationUpdate updates or upserts rows.
	OperationUpdate
	// OperationUpdateMany updates a list of rows.
	OperationUpdateMany
	// OperationDelete deletes rows.
	OperationDelete
	// OperationUpsert is an insert that resolves conflicts.
	OperationUpsert
	// OperationRPC calls a stored function under /rpc.
	OperationRPC
)

// String returns the lowercase name of the operation.
func (op Operation) String() string {
	switch op {
	case OperationRead:
		return "read"
	case OperationCreate:
		return "create"
	case OperationCreateMany:
		return "create_many"
	case OperationUpdate:
		return "update"
	case OperationUpdateMany:
		return "update_many"
	case OperationDelete:
		return "delete"
	case OperationUpsert:
		return "upsert"
	case OperationRPC:
		return "rpc"
	default:
		return "unknown"
	}
}

// request describes one pending HTTP request. Values are never modified after
// construction; every builder step works on a clone.
type request struct {
	// base is the target URL without its query string.
	base   *url.URL
	query  queryPairs
	method string
	header http.Header
	op     Operation

	body    any
	hasBody bool

	// err is a build-time error reported when the request is executed.
	err error
}

func newRequest(base *url.URL, method string, header http.Header, op Operation) *request {
	u := *base
	q := parseQueryPairs(u.RawQuery)
	u.RawQuery = ""
	return &request{
		base:   &u,
		query:  q,
		method: method,
		header: header.Clone(),
		op:     op,
	}
}

func (r *request) clone() *request {
	c := *r
	c.header = r.header.Clone()
	return &c
}

func (r *request) withBody(body any) *request {
	c := r.clone()
	c.body = body
	c.hasBody = true
	return c
}

func (r *request) withQuery(key, value string) *request {
	c := r.clone()
	c.query = r.query.add(key, value)
	return c
}

func (r *request) withQuerySet(key, value string) *request {
	c := r.clone()
	c.query = r.query.set(key, value)
	return c
}

func (r *request) withError(err error) *request {
	if r.err != nil {
		return r
	}
	c := r.clone()
	c.err = err
	return c
}

// URL returns the full target URL including the query string.
func (r *request) URL() *url.URL {
	u := *r.base
	u.RawQuery = r.query.encode()
	return &u
}
