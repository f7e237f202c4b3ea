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

/*
Package postgrest provides a query builder and client for a PostgREST API.

# Client

Use NewClient to create a client struct. This is the major entrance to construct requests:

	client := postgrest.NewClient(&postgrest.Config{
		Endpoint: "http://<postgrest-host>:<postgrest-port:-3000>",
		Headers:  map[string]string{"Authorization": "Bearer " + jwt},
	})
	defer client.Close()

# Read Rows

Pick a relation with From, an operation, chain filters and execute. The result
type is given at execution:

	users, err := postgrest.Execute[[]User](ctx, client.From("users").
		Select("id", "name").
		Gte("age", "18").
		Order("name", nil).
		Limit(10))

# Write Rows

Inserts report the number of rows sent rather than decoding the response:

	n, err := postgrest.Execute[int](ctx, client.From("users").InsertMany(rows, &postgrest.InsertOptions{
		Count: postgrest.CountExact,
	}))

Updates and deletes take filters like reads:

	_, err := postgrest.Execute[json.RawMessage](ctx, client.From("users").
		Delete(nil).
		Eq("id", "42"))

# Call Functions

	sum, err := postgrest.Execute[int](ctx, client.RPC("add_them", postgrest.Params{
		{Name: "a", Value: 2},
		{Name: "b", Value: 2},
	}, nil))

# Errors

A failed execution returns either an *Error, carrying the server's hint,
details, code and message, or a *TransportError when no usable response was
received.

# Asynchronous Execution

ExecuteAsync runs the same request on a new goroutine and delivers a single
Result on the returned channel:

	res := <-postgrest.ExecuteAsync[[]User](ctx, client.From("users").Select())
	if res.Err != nil {
		return res.Err
	}

# Bulk Inserts

An InsertCable collects rows from any number of goroutines and writes them in
batches:

	cable := client.From("events").InsertCable(nil)
	cable.Start(ctx)
	defer cable.Close()

	if err := <-cable.Send(event); err != nil {
		return err
	}
*/
package postgrest
