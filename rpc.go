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
	"net/http"
	"slices"
	"sync/atomic"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

// Param is a named argument of a stored function.
type Param struct {
	Name  string
	Value any
}

// Params is an ordered list of function arguments.
type Params []Param

// ParamsFromMap returns the entries of m ordered by name.
func ParamsFromMap(m map[string]any) Params {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	p := make(Params, 0, len(names))
	for _, name := range names {
		p = append(p, Param{Name: name, Value: m[name]})
	}
	return p
}

// Map returns the arguments as a map. A repeated name keeps its last value.
func (p Params) Map() map[string]any {
	m := make(map[string]any, len(p))
	for _, param := range p {
		m[param.Name] = param.Value
	}
	return m
}

// MarshalJSON encodes the arguments as a JSON object in their list order.
func (p Params) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, param := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		name, err := json.Marshal(param.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(param.Value)
		if err != nil {
			return nil, err
		}
		b.Write(name)
		b.WriteByte(':')
		b.Write(value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// RPCOptions controls RPC.
type RPCOptions struct {
	// Head calls the function with HEAD instead of POST. Each argument is then
	// sent as a query parameter and must be representable as a plain string.
	Head bool
	// Count requests a count of the rows returned by the function.
	Count Count
	// Body, if not nil, is a pointer to the typed request body. The arguments
	// are decoded into it by their json tags and it is sent instead of the
	// plain argument object. Ignored when Head is set.
	Body any
}

// RPCBuilder is a pending call of a stored function. It can be executed once.
type RPCBuilder struct {
	c   *Client
	req *request

	consumed atomic.Bool
}

// RPC prepares a call of the stored function fn, exposed at /rpc/<fn>.
func (c *Client) RPC(fn string, args Params, opts *RPCOptions) *RPCBuilder {
	if opts == nil {
		opts = &RPCOptions{}
	}
	u := c.endpoint.JoinPath("rpc", fn)

	var r *request
	if opts.Head {
		r = newRequest(u, http.MethodHead, c.header, OperationRPC)
		for _, param := range args {
			v, err := cast.ToStringE(param.Value)
			if err != nil {
				r = r.withError(fmt.Errorf("%w: argument %q: %v", ErrInvalidArgument, param.Name, err))
				break
			}
			r = r.withQuery(param.Name, v)
		}
	} else {
		r = newRequest(u, http.MethodPost, c.header, OperationRPC)
		if opts.Body != nil {
			if err := decodeParams(args, opts.Body); err != nil {
				r = r.withError(err)
			}
			r = r.withBody(opts.Body)
		} else {
			if args == nil {
				args = Params{}
			}
			r = r.withBody(args)
		}
	}

	setProfile(r.header, r.method, c.schema)
	setPrefer(r.header, r.header.Get(headerPrefer), opts.Count.directive())
	return &RPCBuilder{c: c, req: withCount(r, opts.Count)}
}

// decodeParams re-shapes the arguments into the typed body dst.
func decodeParams(args Params, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      dst,
		ErrorUnused: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := dec.Decode(args.Map()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

// ExecuteTo executes the call and decodes the result into dst, which must be
// a pointer. A nil dst discards the result.
func (b *RPCBuilder) ExecuteTo(ctx context.Context, dst any) error {
	c, r, err := b.take()
	if err != nil {
		return err
	}
	return c.execute(ctx, r, dst)
}

func (b *RPCBuilder) take() (*Client, *request, error) {
	if !b.consumed.CompareAndSwap(false, true) {
		return nil, nil, transportError("build", ErrConsumed)
	}
	return b.c, b.req, nil
}
