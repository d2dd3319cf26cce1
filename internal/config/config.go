package config

import (
	"drone-dispatch-service/internal/geo"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Reference data sources.
const (
	SourceHTTP = "http"
	SourceSQL  = "sql"
	SourceFile = "file"
)

type Config struct {
	Port        string
	Environment string

	// Reference data
	ReferenceSource string
	ILPEndpoint     string
	ReferenceFile   string
	ReferenceTTL    time.Duration

	// SQL store
	DBDriver    string
	DatabaseURL string
	RouteCache  bool

	// Planning
	PlannerWorkers int
	MoveDistance   float64
	CloseDistance  float64
	MaxExpansions  int

	AllowedOrigins []string
}

// Load reads an optional .env file and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var errs []error

	cfg := &Config{
		Port:            Get("APP_PORT", "8080"),
		Environment:     Get("ENVIRONMENT", "development"),
		ReferenceSource: strings.ToLower(Get("REFERENCE_SOURCE", SourceHTTP)),
		ILPEndpoint:     Get("ILP_ENDPOINT", "https://ilp-rest-2025-bvh6e9hschfagrgy.ukwest-01.azurewebsites.net"),
		ReferenceFile:   Get("REFERENCE_FILE", "data/fleet.yaml"),
		DBDriver:        Get("DB_DRIVER", "sqlite"),
		DatabaseURL:     Get("DATABASE_URL", "data/app.db"),
		AllowedOrigins:  splitList(Get("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	cfg.RouteCache = getBool("ROUTE_CACHE", false, &errs)
	cfg.ReferenceTTL = getDuration("REFERENCE_TTL", 5*time.Minute, &errs)
	cfg.PlannerWorkers = getInt("PLANNER_WORKERS", 4, &errs)
	cfg.MoveDistance = getFloat("MOVE_DISTANCE", 0.00015, &errs)
	cfg.CloseDistance = getFloat("CLOSE_DISTANCE", 0.00015, &errs)
	cfg.MaxExpansions = getInt("MAX_EXPANSIONS", 50000, &errs)

	switch cfg.ReferenceSource {
	case SourceHTTP, SourceSQL, SourceFile:
	default:
		errs = append(errs, fmt.Errorf("REFERENCE_SOURCE: unknown source %q", cfg.ReferenceSource))
	}
	if cfg.PlannerWorkers <= 0 {
		errs = append(errs, errors.New("PLANNER_WORKERS: must be positive"))
	}
	if cfg.MoveDistance <= 0 || cfg.CloseDistance <= 0 {
		errs = append(errs, errors.New("MOVE_DISTANCE and CLOSE_DISTANCE: must be positive"))
	}
	if cfg.MaxExpansions <= 0 {
		errs = append(errs, errors.New("MAX_EXPANSIONS: must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Geo returns the flight model scale configured for planning.
func (c *Config) Geo() geo.Config {
	g := geo.DefaultConfig()
	g.MoveDistance = c.MoveDistance
	g.CloseDistance = c.CloseDistance
	g.MaxExpansions = c.MaxExpansions
	return g
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return fallback
	}
	return v
}

func getBool(key string, fallback bool, errs *[]error) bool {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid boolean %q", key, raw))
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64, errs *[]error) float64 {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid number %q", key, raw))
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
