package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Options{BaseURL: server.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return client
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "api.restful-api.dev", u.Host)

	u, err = parseBaseURL("example.com:1234/path?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com:1234", u.String())

	u, err = parseBaseURL("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", u.String())

	_, err = parseBaseURL("http://")
	assert.Error(t, err)
}

func TestClient_ListObjectsDecodesAttributesInOrder(t *testing.T) {
	t.Parallel()

	var gotAccept, gotUserAgent, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		assert.Equal(t, "/objects", r.URL.Path)
		_, _ = io.WriteString(w, `[
			{"id":"1","name":"Google Pixel 6 Pro","data":{"color":"Cloudy White","capacity":"128 GB"}},
			{"id":"2","name":"Apple iPhone 12 Mini, 256GB, Blue","data":null},
			{"id":"3","name":"Apple AirPods","data":{"price":120,"in stock":true,"generation":"3rd"}}
		]`)
	})

	objects, err := client.ListObjects(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 3)

	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, defaultUserAgent, gotUserAgent)
	assert.NotEmpty(t, gotRequestID)

	assert.Equal(t, []string{"color", "capacity"}, objects[0].Data.Keys())
	assert.Nil(t, objects[1].Data)

	price, ok := objects[2].Data.Get("price")
	require.True(t, ok)
	f, ok := price.Float()
	require.True(t, ok)
	assert.Equal(t, 120.0, f)
	stock, _ := objects[2].Data.Get("in stock")
	b, ok := stock.Boolean()
	assert.True(t, ok)
	assert.True(t, b)
}

func TestClient_ListObjectsNonArrayIsEmpty(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"null", `{"items":[]}`, ""} {
		body := body
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})
		objects, err := client.ListObjects(context.Background())
		require.NoError(t, err, "body %q", body)
		assert.NotNil(t, objects)
		assert.Empty(t, objects)
	}
}

func TestClient_ListObjectsToleratesOddData(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"id":"1","name":"Widget","data":{"price":1}},
			{"id":"2","name":"Gadget","data":"n/a"},
			{"id":"3","name":"Gizmo","data":[1,2]}
		]`)
	})

	objects, err := client.ListObjects(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 3)
	assert.Equal(t, []string{"price"}, objects[0].Data.Keys())
	assert.Nil(t, objects[1].Data)
	assert.Equal(t, "Gadget", objects[1].Name)
	assert.Nil(t, objects[2].Data)
}

func TestClient_GetObjectsByIDsJoinsIDs(t *testing.T) {
	t.Parallel()

	var rawQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `[{"id":"3","name":"a"},{"id":"5","name":"b"},{"id":"10","name":"c"}]`)
	})

	objects, err := client.GetObjectsByIDs(context.Background(), []string{"3", " 5 ", "", "10"})
	require.NoError(t, err)
	assert.Equal(t, "id=3,5,10", rawQuery)
	assert.Len(t, objects, 3)

	objects, err = client.GetObjectsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestClient_MutationsSendJSONBodies(t *testing.T) {
	t.Parallel()

	type seen struct {
		method      string
		path        string
		contentType string
		body        map[string]any
	}
	var calls []seen
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		s := seen{method: r.Method, path: r.URL.Path, contentType: r.Header.Get("Content-Type")}
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				assert.NoError(t, json.Unmarshal(data, &s.body))
			}
		}
		calls = append(calls, s)
		switch r.Method {
		case http.MethodDelete:
			_, _ = io.WriteString(w, `{"message":"Object with id = 7 has been deleted."}`)
		default:
			_, _ = io.WriteString(w, `{"id":"7","name":"Phone X","data":{"price":99.5},"createdAt":"2024-05-01T10:00:00.000+00:00"}`)
		}
	})
	ctx := context.Background()
	input := Input{Name: "Phone X", Data: Attributes{}.Set("price", Number(99.5))}

	created, err := client.CreateObject(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "7", created.ID)
	assert.False(t, created.ParsedCreatedAt().IsZero())

	_, err = client.ReplaceObject(ctx, "7", input)
	require.NoError(t, err)

	name := "Phone Y"
	_, err = client.PatchObject(ctx, "7", Patch{Name: &name})
	require.NoError(t, err)

	require.NoError(t, client.DeleteObject(ctx, "7"))

	require.Len(t, calls, 4)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, "/objects", calls[0].path)
	assert.Equal(t, "application/json", calls[0].contentType)
	assert.Equal(t, map[string]any{"name": "Phone X", "data": map[string]any{"price": 99.5}}, calls[0].body)

	assert.Equal(t, http.MethodPut, calls[1].method)
	assert.Equal(t, "/objects/7", calls[1].path)

	assert.Equal(t, http.MethodPatch, calls[2].method)
	assert.Equal(t, map[string]any{"name": "Phone Y"}, calls[2].body)

	assert.Equal(t, http.MethodDelete, calls[3].method)
	assert.Empty(t, calls[3].contentType)
}

func TestClient_ClassifiesFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status  int
		body    string
		kind    Kind
		message string
	}{
		{http.StatusNotFound, `{"error":"Oject with id=9 was not found."}`, KindNotFound, MessageNotFound},
		{http.StatusTooManyRequests, "", KindRateLimited, MessageRateLimited},
		{http.StatusMethodNotAllowed, `{"error":"You reached your limit"}`, KindRateLimited, MessageRateLimited},
		{http.StatusBadRequest, `{"error":"name is required"}`, KindGeneric, "name is required"},
		{http.StatusInternalServerError, "oops", KindGeneric, "api returned status 500"},
	}
	for _, tc := range cases {
		tc := tc
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, tc.body)
		})
		_, err := client.GetObject(context.Background(), "9")
		require.Error(t, err)

		var apiErr *Error
		require.True(t, errors.As(err, &apiErr), "status %d", tc.status)
		assert.Equal(t, tc.status, apiErr.StatusCode)
		assert.Equal(t, tc.kind, apiErr.Kind, "status %d", tc.status)
		assert.Equal(t, tc.message, Message(err), "status %d", tc.status)
	}
}

func TestClient_ConnectivityFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.ListObjects(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindConnectivity, KindOf(err))
	assert.Equal(t, MessageConnectivity, Message(err))
}

func TestClient_TimeoutIsConnectivity(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client, err := NewClient(Options{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	_, err = client.ListObjects(context.Background())
	assert.Equal(t, KindConnectivity, KindOf(err))
}

func TestClient_PacingRespectsContext(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[]")
	})
	paced, err := NewClient(Options{BaseURL: client.BaseURL(), RequestsPerSecond: 0.001})
	require.NoError(t, err)

	_, err = paced.ListObjects(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = paced.ListObjects(ctx)
	require.Error(t, err)
	assert.Equal(t, KindConnectivity, KindOf(err))
}

func TestClient_RejectsEmptyID(t *testing.T) {
	client, err := NewClient(Options{})
	require.NoError(t, err)
	_, err = client.GetObject(context.Background(), "  ")
	assert.EqualError(t, err, "object id required")

	var nilClient *Client
	_, err = nilClient.ListObjects(context.Background())
	assert.EqualError(t, err, "client is nil")
}

func TestObjectURLEscapesID(t *testing.T) {
	rel, err := objectURL("ff80/81")
	require.NoError(t, err)
	assert.Equal(t, "/objects/ff80%2F81", rel.EscapedPath())
}
