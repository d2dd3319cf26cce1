package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"APP_PORT", "ENVIRONMENT", "REFERENCE_SOURCE", "REFERENCE_TTL",
		"PLANNER_WORKERS", "MOVE_DISTANCE", "CLOSE_DISTANCE", "MAX_EXPANSIONS", "ALLOWED_ORIGINS", "ROUTE_CACHE",
	} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SourceHTTP, cfg.ReferenceSource)
	assert.Equal(t, 5*time.Minute, cfg.ReferenceTTL)
	assert.Equal(t, 4, cfg.PlannerWorkers)
	assert.Equal(t, 0.00015, cfg.MoveDistance)
	assert.Equal(t, 50000, cfg.MaxExpansions)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.RouteCache)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("REFERENCE_SOURCE", "FILE")
	t.Setenv("REFERENCE_TTL", "90s")
	t.Setenv("PLANNER_WORKERS", "8")
	t.Setenv("MOVE_DISTANCE", "1")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ROUTE_CACHE", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, SourceFile, cfg.ReferenceSource)
	assert.Equal(t, 90*time.Second, cfg.ReferenceTTL)
	assert.Equal(t, 8, cfg.PlannerWorkers)
	assert.Equal(t, 1.0, cfg.MoveDistance)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.RouteCache)
}

func TestFromEnvReportsEveryInvalidValue(t *testing.T) {
	t.Setenv("REFERENCE_SOURCE", "ftp")
	t.Setenv("REFERENCE_TTL", "soon")
	t.Setenv("PLANNER_WORKERS", "0")
	t.Setenv("ROUTE_CACHE", "sometimes")

	_, err := FromEnv()
	require.Error(t, err)
	assert.ErrorContains(t, err, "REFERENCE_SOURCE")
	assert.ErrorContains(t, err, "REFERENCE_TTL")
	assert.ErrorContains(t, err, "PLANNER_WORKERS")
	assert.ErrorContains(t, err, "ROUTE_CACHE")
}

func TestGet(t *testing.T) {
	t.Setenv("DRONE_TEST_KEY", "  value ")
	assert.Equal(t, "value", Get("DRONE_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("DRONE_TEST_MISSING", "fallback"))
}

func TestGeoCarriesOverrides(t *testing.T) {
	t.Setenv("MOVE_DISTANCE", "0.5")
	t.Setenv("CLOSE_DISTANCE", "0.25")
	t.Setenv("MAX_EXPANSIONS", "100")

	cfg, err := FromEnv()
	require.NoError(t, err)

	g := cfg.Geo()
	assert.Equal(t, 0.5, g.MoveDistance)
	assert.Equal(t, 0.25, g.CloseDistance)
	assert.Equal(t, 100, g.MaxExpansions)
	assert.Len(t, g.Headings, 16)
}
