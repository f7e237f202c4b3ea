package postgrest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	postgrest "github.com/pgrst/postgrest-query-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorDecode(t *testing.T) {
	var e postgrest.Error
	require.NoError(t, json.Unmarshal([]byte(`{
		"code": "23505",
		"message": "duplicate key value violates unique constraint",
		"details": "Key (id)=(1) already exists.",
		"hint": null
	}`), &e))

	require.NotNil(t, e.Code)
	assert.Equal(t, "23505", *e.Code)
	require.NotNil(t, e.Details)
	assert.Equal(t, "Key (id)=(1) already exists.", *e.Details)
	assert.Nil(t, e.Hint)
}

func TestErrorDecodeStructuredDetails(t *testing.T) {
	var e postgrest.Error
	require.NoError(t, json.Unmarshal([]byte(`{"message":"m","details":{"column":"id"}}`), &e))

	require.NotNil(t, e.Details)
	assert.JSONEq(t, `{"column":"id"}`, *e.Details)
}

func TestErrorString(t *testing.T) {
	code, msg, details, hint := "PGRST116", "no rows", "0 rows", "use limit"
	e := &postgrest.Error{Status: 406, Code: &code, Message: &msg, Details: &details, Hint: &hint}
	assert.Equal(t, "406 (PGRST116): no rows; details: 0 rows; hint: use limit", e.Error())

	assert.Equal(t, "500", (&postgrest.Error{Status: 500}).Error())
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMessage string
		wantCode    string
	}{
		{
			name:        "json",
			status:      http.StatusConflict,
			contentType: "application/json",
			body:        `{"code":"23505","message":"duplicate key"}`,
			wantMessage: "duplicate key",
			wantCode:    "23505",
		},
		{
			name:        "plain text",
			status:      http.StatusBadGateway,
			contentType: "text/plain",
			body:        "upstream unavailable\n",
			wantMessage: "upstream unavailable",
		},
		{
			name:        "empty",
			status:      http.StatusServiceUnavailable,
			wantMessage: http.StatusText(http.StatusServiceUnavailable),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := postgrest.NewClient(&postgrest.Config{Endpoint: srv.URL}, postgrest.WithHTTPClient(postgrest.WrapHTTPClient(srv.Client())))
			defer c.Close()

			_, err := postgrest.Execute[[]user](context.Background(), c.From("users").Select())
			require.Error(t, err)

			var apiErr *postgrest.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			require.NotNil(t, apiErr.Message)
			assert.Equal(t, tt.wantMessage, *apiErr.Message)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr.Code)
				assert.Equal(t, tt.wantCode, *apiErr.Code)
			}
		})
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	c := postgrest.NewClient(&postgrest.Config{Endpoint: srv.URL}, postgrest.WithHTTPClient(postgrest.WrapHTTPClient(srv.Client())))
	defer c.Close()
	srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := postgrest.Execute[[]user](ctx, c.From("users").Select())
	var te *postgrest.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "send", te.Op)
	assert.ErrorIs(t, err, context.Canceled)
}
