package postgrest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	postgrest "github.com/pgrst/postgrest-query-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertCableImmediateFlush(t *testing.T) {
	h := &fakeHTTP{Status: http.StatusCreated}
	c := NewTestClient(t, h)

	cable := c.From("events").InsertCable(nil)
	// immediately flush
	cable.BatchSize = 0
	cable.Start(context.Background())

	require.NoError(t, <-cable.Send(user{ID: 1, Name: "a"}))
	require.NoError(t, <-cable.Send(user{ID: 2, Name: "b"}))
	cable.Close()

	reqs := h.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/events", reqs[0].URL.Path)
	assert.JSONEq(t, `[{"id":1,"name":"a"}]`, string(reqs[0].Body))
	assert.JSONEq(t, `[{"id":2,"name":"b"}]`, string(reqs[1].Body))
}

func TestInsertCableBatchesUntilClose(t *testing.T) {
	h := &fakeHTTP{Status: http.StatusCreated}
	c := NewTestClient(t, h)

	cable := c.From("events").Header("Prefer", "return=minimal").InsertCable(&postgrest.InsertOptions{Count: postgrest.CountExact})
	cable.BatchInterval = time.Hour
	cable.Start(context.Background())

	var wg sync.WaitGroup
	results := make([]<-chan error, 10)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = cable.Send(user{ID: i})
		}()
	}
	wg.Wait()
	cable.Close()

	for _, ch := range results {
		require.NoError(t, <-ch)
	}

	req := h.Last(t)
	var rows []user
	require.NoError(t, json.Unmarshal(req.Body, &rows))
	assert.Len(t, rows, 10)
	assert.Equal(t, "return=minimal,count=exact", req.Header.Get("Prefer"))
}

func TestInsertCableReportsBatchError(t *testing.T) {
	h := &fakeHTTP{Status: http.StatusConflict, Body: `{"code":"23505","message":"duplicate key"}`}
	c := NewTestClient(t, h)

	cable := c.From("events").InsertCable(nil)
	cable.BatchSize = 0
	cable.Start(context.Background())
	defer cable.Close()

	err := <-cable.Send(user{ID: 1})
	var apiErr *postgrest.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestInsertCableRejectsUnencodableRow(t *testing.T) {
	h := &fakeHTTP{Status: http.StatusCreated}
	c := NewTestClient(t, h)

	cable := c.From("events").InsertCable(nil)
	cable.Start(context.Background())

	err := <-cable.Send(make(chan int))
	var te *postgrest.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "encode", te.Op)

	cable.Close()
	assert.Empty(t, h.Requests())
}
