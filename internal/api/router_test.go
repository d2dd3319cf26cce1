package api

import (
	"bytes"
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"drone-dispatch-service/internal/services"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type staticRef struct {
	ref *domain.ReferenceData
	err error
}

func (s staticRef) Snapshot(ctx context.Context) (*domain.ReferenceData, error) {
	return s.ref, s.err
}

var appletonTower = domain.Position{Lng: -3.186874, Lat: 55.944494}

func testReference() *domain.ReferenceData {
	return &domain.ReferenceData{
		ServicePoints: []domain.ServicePoint{{ID: 1, Name: "Appleton Tower", Location: appletonTower}},
		Drones: []domain.Drone{
			{
				ID: "1", Name: "Drone 1", ServicePointID: 1,
				Capability: domain.Capability{Cooling: true, Capacity: 4, MaxMoves: 2000, CostPerMove: 0.01, CostInitial: 4.3, CostFinal: 6.5},
			},
			{
				ID: "2", Name: "Drone 2", ServicePointID: 1,
				Capability: domain.Capability{Heating: true, Capacity: 8, MaxMoves: 1000, CostPerMove: 0.03, CostInitial: 2.6, CostFinal: 5.4},
			},
		},
		RestrictedAreas: []domain.RestrictedArea{{
			ID:   1,
			Name: "Block",
			Vertices: domain.Polygon{
				{Lng: -3.1850, Lat: 55.9440},
				{Lng: -3.1840, Lat: 55.9440},
				{Lng: -3.1840, Lat: 55.9450},
				{Lng: -3.1850, Lat: 55.9450},
				{Lng: -3.1850, Lat: 55.9440},
			},
		}},
	}
}

func newTestServer(t *testing.T, ref staticRef) *httptest.Server {
	cfg := geo.DefaultConfig()
	finder := geo.NewPathfinder(cfg)
	log := zaptest.NewLogger(t)

	h := NewRouter(Deps{
		Ref:            ref,
		Planner:        services.NewPlanner(finder, cfg, services.WithLogger(log)),
		Finder:         finder,
		Geo:            cfg,
		AllowedOrigins: []string{"http://localhost:3000"},
		Log:            log,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, srv.URL+"/api/v1"+path, nil)
	} else {
		req, err = http.NewRequest(method, srv.URL+"/api/v1"+path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	require.NoError(t, err)

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	return res, []byte(buf.String())
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

func TestHealthSetsRequestID(t *testing.T) {
	srv := newTestServer(t, staticRef{ref: testReference()})

	res, body := do(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
	assert.Equal(t, "ok", decode[map[string]string](t, body)["status"])

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	echoed, err := srv.Client().Do(req)
	require.NoError(t, err)
	echoed.Body.Close()
	assert.Equal(t, "abc-123", echoed.Header.Get("X-Request-ID"))
}

func TestGeometryEndpoints(t *testing.T) {
	srv := newTestServer(t, staticRef{ref: testReference()})

	res, body := do(t, srv, http.MethodPost, "/distanceTo",
		`{"position1":{"lng":0,"lat":0},"position2":{"lng":0.0003,"lat":0.0004}}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.InDelta(t, 0.0005, decode[float64](t, body), 1e-12)

	res, body = do(t, srv, http.MethodPost, "/isCloseTo",
		`{"position1":{"lng":0,"lat":0},"position2":{"lng":0.0001,"lat":0}}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, decode[bool](t, body))

	res, body = do(t, srv, http.MethodPost, "/nextPosition",
		`{"start":{"lng":1,"lat":2},"angle":0}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	next := decode[map[string]float64](t, body)
	assert.InDelta(t, 1.00015, next["lng"], 1e-12)
	assert.InDelta(t, 2.0, next["lat"], 1e-12)

	res, body = do(t, srv, http.MethodPost, "/isInRegion",
		`{"position":{"lng":0.5,"lat":0.5},"region":{"name":"sq","vertices":[
			{"lng":0,"lat":0},{"lng":1,"lat":0},{"lng":1,"lat":1},{"lng":0,"lat":1},{"lng":0,"lat":0}]}}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, decode[bool](t, body))
}

func TestGeometryRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, staticRef{ref: testReference()})

	tests := []struct {
		name string
		path string
		body string
	}{
		{"missing position", "/distanceTo", `{"position1":{"lng":0,"lat":0}}`},
		{"missing latitude", "/isCloseTo", `{"position1":{"lng":0},"position2":{"lng":0,"lat":0}}`},
		{"latitude out of range", "/distanceTo", `{"position1":{"lng":0,"lat":91},"position2":{"lng":0,"lat":0}}`},
		{"unknown field", "/distanceTo", `{"position1":{"lng":0,"lat":0},"position2":{"lng":0,"lat":0},"x":1}`},
		{"two values", "/distanceTo", `{"position1":{"lng":0,"lat":0},"position2":{"lng":0,"lat":0}} {}`},
		{"malformed json", "/distanceTo", `{"position1":`},
		{"not a heading", "/nextPosition", `{"start":{"lng":0,"lat":0},"angle":45.5}`},
		{"missing angle", "/nextPosition", `{"start":{"lng":0,"lat":0}}`},
		{"open region", "/isInRegion", `{"position":{"lng":0.5,"lat":0.5},"region":{"name":"sq","vertices":[
			{"lng":0,"lat":0},{"lng":1,"lat":0},{"lng":1,"lat":1},{"lng":0,"lat":1}]}}`},
		{"too few vertices", "/isInRegion", `{"position":{"lng":0.5,"lat":0.5},"region":{"name":"sq","vertices":[
			{"lng":0,"lat":0},{"lng":1,"lat":0},{"lng":0,"lat":0}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, body := do(t, srv, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			assert.NotEmpty(t, decode[map[string]any](t, body)["error"])
		})
	}
}

func TestDroneLookups(t *testing.T) {
	srv := newTestServer(t, staticRef{ref: testReference()})

	res, body := do(t, srv, http.MethodGet, "/dronesWithCooling/true", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []string{"1"}, decode[[]string](t, body))

	res, _ = do(t, srv, http.MethodGet, "/dronesWithCooling/maybe", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body = do(t, srv, http.MethodGet, "/droneDetails/2", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	drone := decode[map[string]any](t, body)
	assert.Equal(t, "2", drone["id"])
	assert.EqualValues(t, 1, drone["servicePointId"])

	res, _ = do(t, srv, http.MethodGet, "/droneDetails/99", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = do(t, srv, http.MethodGet, "/queryAsPath/capacity/8", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []string{"2"}, decode[[]string](t, body))

	res, _ = do(t, srv, http.MethodGet, "/queryAsPath/colour/red", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestQuery(t *testing.T) {
	srv := newTestServer(t, staticRef{ref: testReference()})

	res, body := do(t, srv, http.MethodPost, "/query",
		`[{"attribute":"capacity","operator":">","value":"5"},{"attribute":"heating","operator":"=","value":"true"}]`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []string{"2"}, decode[[]string](t, body))

	res, body = do(t, srv, http.MethodPost, "/query", `[{"attribute":"capacity","operator":">","value":"100"}]`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "[]\n", string(body))

	res, _ = do(t, srv, http.MethodPost, "/query", `[{"attribute":"capacity","operator":"~","value":"1"}]`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = do(t, srv, http.MethodPost, "/query", `[{"operator":"=","value":"1"}]`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestQueryAvailableDrones(t *testing.T) {
	srv := newTestServer(t, staticRef{ref: testReference()})

	res, body := do(t, srv, http.MethodPost, "/queryAvailableDrones", `[{
		"id": 1,
		"requirements": {"capacity": 1, "cooling": true},
		"delivery": {"lng": -3.186574, "lat": 55.944494}
	}]`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []string{"1"}, decode[[]string](t, body))

	res, _ = do(t, srv, http.MethodPost, "/queryAvailableDrones", `[{
		"id": 1,
		"time": "10:00",
		"requirements": {"capacity": 1},
		"delivery": {"lng": -3.186574, "lat": 55.944494}
	}]`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "time without date")
}

func TestCalcPath(t *testing.T) {
	srv := newTestServer(t, staticRef{ref: testReference()})

	res, body := do(t, srv, http.MethodPost, "/calcPath",
		`{"start":{"lng":-3.186874,"lat":55.944494},"goal":{"lng":-3.186874,"lat":55.945094}}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	route := decode[[]map[string]float64](t, body)
	require.NotEmpty(t, route)
	assert.Equal(t, appletonTower.Lng, route[0]["lng"])
	assert.Equal(t, appletonTower.Lat, route[0]["lat"])

	res, _ = do(t, srv, http.MethodPost, "/calcPath",
		`{"start":{"lng":-3.186874,"lat":55.944494},"goal":{"lng":-3.1845,"lat":55.9445}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

const twoDeliveries = `[
	{"id": 1, "requirements": {"capacity": 1}, "delivery": {"lng": -3.186574, "lat": 55.944494}},
	{"id": 2, "requirements": {"capacity": 1}, "delivery": {"lng": -3.186874, "lat": 55.944794}}
]`

func TestCalcDeliveryPath(t *testing.T) {
	srv := newTestServer(t, staticRef{ref: testReference()})

	res, body := do(t, srv, http.MethodPost, "/calcDeliveryPath", twoDeliveries)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var plan struct {
		TotalCost  float64 `json:"totalCost"`
		TotalMoves int     `json:"totalMoves"`
		DronePaths []struct {
			DroneID        string `json:"droneId"`
			ServicePointID int    `json:"servicePointId"`
			Deliveries     []struct {
				DeliveryID int              `json:"deliveryId"`
				FlightPath []map[string]any `json:"flightPath"`
			} `json:"deliveries"`
			Moves int `json:"moves"`
		} `json:"dronePaths"`
	}
	require.NoError(t, json.Unmarshal(body, &plan))

	require.Len(t, plan.DronePaths, 1)
	assert.Equal(t, 1, plan.DronePaths[0].ServicePointID)
	assert.Len(t, plan.DronePaths[0].Deliveries, 2)
	assert.Equal(t, plan.DronePaths[0].Moves, plan.TotalMoves)
	assert.Positive(t, plan.TotalCost)
}

func TestCalcDeliveryPathUndeliverable(t *testing.T) {
	srv := newTestServer(t, staticRef{ref: testReference()})

	res, body := do(t, srv, http.MethodPost, "/calcDeliveryPath", `[
		{"id": 1, "requirements": {"capacity": 1}, "delivery": {"lng": -3.186574, "lat": 55.944494}},
		{"id": 7, "requirements": {"capacity": 100}, "delivery": {"lng": -3.186874, "lat": 55.944794}}
	]`)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	out := decode[map[string]any](t, body)
	assert.Equal(t, []any{float64(7)}, out["deliveryIds"])
}

func TestCalcDeliveryPathRejectsDuplicateIDs(t *testing.T) {
	srv := newTestServer(t, staticRef{ref: testReference()})

	res, _ := do(t, srv, http.MethodPost, "/calcDeliveryPath", `[
		{"id": 1, "requirements": {"capacity": 1}, "delivery": {"lng": -3.186574, "lat": 55.944494}},
		{"id": 1, "requirements": {"capacity": 1}, "delivery": {"lng": -3.186874, "lat": 55.944794}}
	]`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCalcDeliveryPathAsGeoJSON(t *testing.T) {
	srv := newTestServer(t, staticRef{ref: testReference()})

	res, body := do(t, srv, http.MethodPost, "/calcDeliveryPathAsGeoJson", twoDeliveries)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string      `json:"type"`
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(body, &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	f := fc.Features[0]
	assert.Equal(t, "LineString", f.Geometry.Type)
	assert.Equal(t, []float64{appletonTower.Lng, appletonTower.Lat}, f.Geometry.Coordinates[0])
	assert.ElementsMatch(t, []any{float64(1), float64(2)}, f.Properties["deliveryIds"])
	assert.NotEmpty(t, f.Properties["droneId"])

	for i := 1; i < len(f.Geometry.Coordinates); i++ {
		assert.NotEqual(t, f.Geometry.Coordinates[i-1], f.Geometry.Coordinates[i], "consecutive duplicate at %d", i)
	}
}

func TestReferenceUnavailable(t *testing.T) {
	srv := newTestServer(t, staticRef{err: errors.New("upstream down")})

	res, _ := do(t, srv, http.MethodGet, "/droneDetails/1", "")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	res, _ = do(t, srv, http.MethodPost, "/calcDeliveryPath", twoDeliveries)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	res, body := do(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "unavailable", decode[map[string]string](t, body)["reference"])
}

func TestPanicRecovered(t *testing.T) {
	h := NewRouter(Deps{Ref: staticRef{ref: testReference()}, Log: zaptest.NewLogger(t)})

	// A nil planner panics inside the handler.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calcDeliveryPath", strings.NewReader(twoDeliveries))
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
