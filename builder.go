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
	"strings"
)

// QueryBuilder selects the operation to run against one relation.
//
// A QueryBuilder is a value: Header and Schema return modified copies and
// leave the receiver untouched.
type QueryBuilder struct {
	c *Client

	url    *url.URL
	header http.Header
	schema string
	err    error
}

// InsertOptions controls Insert and InsertMany.
type InsertOptions struct {
	// DefaultToNull, when explicitly false, makes PostgREST fill columns
	// missing from the payload with their default values instead of null.
	DefaultToNull *bool
	// Count requests a count of the inserted rows.
	Count Count
}

// UpdateOptions controls Update.
type UpdateOptions struct {
	// Count requests a count of the updated rows.
	Count Count
}

// UpsertOptions controls Upsert.
type UpsertOptions struct {
	// OnConflict is a comma-separated list of the columns with a unique
	// constraint used to detect duplicates.
	//
	// This is optional and may be empty, in which case the primary key is used.
	OnConflict string
	// IgnoreDuplicates keeps existing rows on conflict instead of merging.
	IgnoreDuplicates bool
	// DefaultToNull, when explicitly false, makes PostgREST fill columns
	// missing from the payload with their default values instead of null.
	DefaultToNull *bool
	// Count requests a count of the upserted rows.
	Count Count
}

// DeleteOptions controls Delete.
type DeleteOptions struct {
	// Count requests a count of the deleted rows.
	Count Count
}

// Header returns a copy of the builder that sends key: value with the request.
//
// A Prefer header set here is kept and merged with the directives the
// operation adds, e.g. Header("Prefer", "return=representation").
func (b *QueryBuilder) Header(key, value string) *QueryBuilder {
	nb := b.clone()
	if err := validateHeader(key, value); err != nil {
		if nb.err == nil {
			nb.err = err
		}
		return nb
	}
	nb.header.Set(key, value)
	return nb
}

// Schema returns a copy of the builder that targets the given schema.
func (b *QueryBuilder) Schema(name string) *QueryBuilder {
	nb := b.clone()
	nb.schema = name
	return nb
}

// Select reads rows. Without columns every column is returned.
func (b *QueryBuilder) Select(columns ...string) *FilterBuilder {
	r := b.newRequest(http.MethodGet, OperationRead)
	if len(columns) > 0 {
		r = r.withQuerySet("select", strings.Join(columns, ","))
	}
	return newFilterBuilder(b.c, r)
}

// Insert inserts a single row. The result of a successful execution is the
// number of rows inserted, i.e. 1.
func (b *QueryBuilder) Insert(values any, opts *InsertOptions) *FilterBuilder {
	if opts == nil {
		opts = &InsertOptions{}
	}
	r := b.newRequest(http.MethodPost, OperationCreate).withBody(values)
	setPrefer(r.header, r.header.Get(headerPrefer), missingDefault(opts.DefaultToNull), opts.Count.directive())
	return newFilterBuilder(b.c, withCount(r, opts.Count))
}

// InsertMany inserts a list of rows. values must encode to a JSON array. The
// result of a successful execution is the length of that array.
func (b *QueryBuilder) InsertMany(values any, opts *InsertOptions) *FilterBuilder {
	if opts == nil {
		opts = &InsertOptions{}
	}
	r := b.newRequest(http.MethodPost, OperationCreateMany).withBody(values)
	setPrefer(r.header, r.header.Get(headerPrefer), missingDefault(opts.DefaultToNull), opts.Count.directive())
	return newFilterBuilder(b.c, withCount(r, opts.Count))
}

// Update updates the rows matched by the filters chained afterwards.
func (b *QueryBuilder) Update(values any, opts *UpdateOptions) *FilterBuilder {
	if opts == nil {
		opts = &UpdateOptions{}
	}
	r := b.newRequest(http.MethodPatch, OperationUpdate).withBody(values)
	setPrefer(r.header, r.header.Get(headerPrefer), opts.Count.directive())
	return newFilterBuilder(b.c, withCount(r, opts.Count))
}

// Upsert inserts rows, resolving conflicts on OnConflict by merging or by
// ignoring the duplicates.
func (b *QueryBuilder) Upsert(values any, opts *UpsertOptions) *FilterBuilder {
	if opts == nil {
		opts = &UpsertOptions{}
	}
	r := b.newRequest(http.MethodPost, OperationUpdate).withBody(values)
	if opts.OnConflict != "" {
		r = r.withQuerySet("on_conflict", opts.OnConflict)
	}
	setPrefer(r.header,
		resolution(opts.IgnoreDuplicates),
		r.header.Get(headerPrefer),
		missingDefault(opts.DefaultToNull),
		opts.Count.directive(),
	)
	return newFilterBuilder(b.c, withCount(r, opts.Count))
}

// Delete deletes the rows matched by the filters chained afterwards.
func (b *QueryBuilder) Delete(opts *DeleteOptions) *FilterBuilder {
	if opts == nil {
		opts = &DeleteOptions{}
	}
	r := b.newRequest(http.MethodDelete, OperationDelete)
	// the caller's preset goes first, then the count
	setPrefer(r.header, r.header.Get(headerPrefer), opts.Count.directive())
	return newFilterBuilder(b.c, withCount(r, opts.Count))
}

func (b *QueryBuilder) clone() *QueryBuilder {
	nb := *b
	nb.header = b.header.Clone()
	return &nb
}

func (b *QueryBuilder) newRequest(method string, op Operation) *request {
	r := newRequest(b.url, method, b.header, op)
	setProfile(r.header, method, b.schema)
	if b.err != nil {
		r.err = b.err
	}
	return r
}

// setProfile selects the schema: Accept-Profile for reads, Content-Profile
// for writes.
func setProfile(h http.Header, method, schema string) {
	if schema == "" {
		return
	}
	switch method {
	case http.MethodGet, http.MethodHead:
		h.Set("Accept-Profile", schema)
	default:
		h.Set("Content-Profile", schema)
	}
}

func withCount(r *request, c Count) *request {
	if err := c.validate(); err != nil {
		return r.withError(err)
	}
	return r
}
