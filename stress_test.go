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

package postgrest_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	postgrest "github.com/pgrst/postgrest-query-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoServer answers reads with the id filter it received and counts writes.
func echoServer(t *testing.T, writes *atomic.Int64) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			id := r.URL.Query().Get("id")
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprintf(w, `[{"id":%s,"name":%q}]`, id[len("eq."):], r.Header.Get("X-Worker"))
		case http.MethodPost:
			var rows []json.RawMessage
			data, _ := io.ReadAll(r.Body)
			if json.Unmarshal(data, &rows) == nil {
				writes.Add(int64(len(rows)))
			} else {
				writes.Add(1)
			}
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStressConcurrentRequests(t *testing.T) {
	const (
		workers = 8
		jobs    = 50
	)

	var writes atomic.Int64
	srv := echoServer(t, &writes)

	reg := prometheus.NewRegistry()
	metrics := postgrest.NewMetrics(reg)
	c := postgrest.NewClient(&postgrest.Config{Endpoint: srv.URL},
		postgrest.WithHTTPClient(postgrest.WrapHTTPClient(srv.Client())),
		postgrest.WithMetrics(metrics))
	defer c.Close()

	// One shared base builder; every job derives its own chain from it.
	base := c.From("logs")

	var inserted atomic.Int64
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := context.Background()
			worker := strconv.Itoa(w)
			qb := base.Header("X-Worker", worker)

			for i := range jobs {
				id := strconv.Itoa(w*jobs + i)
				switch i % 3 {
				case 0:
					rows, err := postgrest.Execute[[]user](ctx, qb.Select("id", "name").Eq("id", id))
					if assert.NoError(t, err) && assert.Len(t, rows, 1) {
						assert.Equal(t, w*jobs+i, rows[0].ID)
						assert.Equal(t, worker, rows[0].Name)
					}
				case 1:
					n, err := postgrest.Execute[int](ctx, qb.Insert(user{ID: w*jobs + i, Name: gofakeit.Name()}, nil))
					if assert.NoError(t, err) {
						assert.Equal(t, 1, n)
						inserted.Add(1)
					}
				case 2:
					batch := make([]user, 1+i%4)
					for j := range batch {
						batch[j] = user{ID: j, Name: gofakeit.FirstName()}
					}
					res := <-postgrest.ExecuteAsync[int](ctx, qb.InsertMany(batch, nil))
					if assert.NoError(t, res.Err) {
						assert.Equal(t, len(batch), res.Value)
						inserted.Add(int64(res.Value))
					}
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, inserted.Load(), writes.Load())
	assert.InDelta(t, float64(workers*jobs), testutil.ToFloat64(metrics.Requests.WithLabelValues("read", "GET", "200"))+
		testutil.ToFloat64(metrics.Requests.WithLabelValues("create", "POST", "201"))+
		testutil.ToFloat64(metrics.Requests.WithLabelValues("create_many", "POST", "201")), 0)
}
