package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoSuccess(t *testing.T) {
	var gotBody request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"version": "1.0"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHeader("Authorization", "secret"))
	data, err := c.Do(context.Background(), "query { version }", map[string]any{"search": "ann"})
	require.NoError(t, err)
	require.JSONEq(t, `{"version": "1.0"}`, string(data))
	require.Equal(t, "query { version }", gotBody.Query)
	require.Equal(t, map[string]any{"search": "ann"}, gotBody.Variables)
}

func TestDoGraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": null, "errors": [{"message": "boom"}, {"message": "bust"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Do(context.Background(), "query { version }", nil)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, []string{"boom", "bust"}, fetchErr.Messages)
	// The message embeds both the joined errors and the query text.
	require.Contains(t, err.Error(), "boom; bust")
	require.Contains(t, err.Error(), "query { version }")
}

func TestDoMissingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Do(context.Background(), "query { version }", nil)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Contains(t, err.Error(), "no data")
}

func TestDoHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Do(context.Background(), "query { version }", nil)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Contains(t, err.Error(), "status 502")
}

func TestDoTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL)
	_, err := c.Do(context.Background(), "query { version }", nil)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.NotNil(t, errors.Unwrap(fetchErr))
}

func TestIntrospect(t *testing.T) {
	fixture, err := os.ReadFile("../introspection/testdata/patients.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Contains(t, req.Query, "__schema")
		w.Write(fixture)
	}))
	defer srv.Close()

	c := New(srv.URL)
	sch, err := c.Introspect(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Query", sch.QueryType)
	require.Len(t, sch.Types, 8)
}
