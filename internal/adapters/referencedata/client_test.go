package referencedata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// upstream serves the sample snapshot over the provider's four endpoints.
func upstream(t *testing.T, failFirst map[string]int) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var s snapshot
	require.NoError(t, yaml.Unmarshal([]byte(sampleYAML), &s))

	bodies := map[string]any{
		"/drones":                    s.Drones,
		"/service-points":            s.ServicePoints,
		"/restricted-areas":          s.RestrictedAreas,
		"/drones-for-service-points": s.Availability,
	}

	var hits atomic.Int32
	remaining := make(map[string]*atomic.Int32, len(failFirst))
	for path, n := range failFirst {
		c := &atomic.Int32{}
		c.Store(int32(n))
		remaining[path] = c
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		if c, ok := remaining[r.URL.Path]; ok && c.Add(-1) >= 0 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}

		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	c, err := NewClient(baseURL, nil)
	require.NoError(t, err)
	c.backoff = time.Millisecond
	return c
}

func TestClientLoad(t *testing.T) {
	srv, hits := upstream(t, nil)

	ref, err := newTestClient(t, srv.URL+"/").Load(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 4, hits.Load())
	assert.Len(t, ref.Drones, 3)
	assert.Len(t, ref.ServicePoints, 2)
	assert.Len(t, ref.RestrictedAreas, 1)
	assert.False(t, ref.LoadedAt.IsZero())

	d, ok := ref.Drone("2")
	require.True(t, ok)
	assert.Equal(t, 1, d.ServicePointID)
}

func TestClientRetriesTransientFailures(t *testing.T) {
	srv, hits := upstream(t, map[string]int{"/drones": 2})

	ref, err := newTestClient(t, srv.URL).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ref.Drones, 3)
	assert.EqualValues(t, 6, hits.Load())
}

func TestClientGivesUpAfterMaxAttempts(t *testing.T) {
	srv, _ := upstream(t, map[string]int{"/restricted-areas": 10})

	_, err := newTestClient(t, srv.URL).Load(context.Background())
	require.Error(t, err)

	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusServiceUnavailable, he.Code)
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(t, srv.URL).Load(context.Background())
	require.Error(t, err)

	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
	// At most one request per endpoint; the group may cancel the rest early.
	assert.LessOrEqual(t, hits.Load(), int32(4))
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ", nil)
	require.Error(t, err)
}
