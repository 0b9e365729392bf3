package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	LLM       LLMConfig
	Genie     GenieConfig
	Warehouse WarehouseConfig

	// Query settings
	MaxQueryResults int
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Per-call timeout bounds
	SQLGenTimeout        time.Duration
	QueryTimeout         time.Duration
	AnalysisTimeout      time.Duration
	VisualizationTimeout time.Duration
	ChatTimeout          time.Duration

	// Feature flags
	EnableQueryCaching      bool
	EnableProactiveInsights bool

	// Malformed values found while reading the environment; surfaced by
	// Validate so a bad setting fails startup instead of silently using
	// the default.
	parseProblems []string
}

type LLMConfig struct {
	APIURL    string
	APIKey    string
	ModelName string
}

type GenieConfig struct {
	BaseURL  string
	APIToken string
	SpaceID  string
}

type WarehouseConfig struct {
	Server   string
	Port     string
	Database string
	UserID   string
	Password string
	Encrypt  bool
}

// Load reads configuration from the environment. A .env.local file, if
// present, is loaded first without overriding variables already set.
// Malformed numeric or duration values are recorded and rejected by
// Validate.
func Load() Config {
	_ = godotenv.Load(".env.local")

	r := &envReader{}
	cfg := Config{
		Port:     getEnv("PORT", "9090"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LLM: LLMConfig{
			APIURL:    getEnv("LLM_API_URL", "https://api.openai.com/v1/chat/completions"),
			APIKey:    getEnv("LLM_API_KEY", ""),
			ModelName: getEnv("LLM_MODEL", "gpt-4o-mini"),
		},
		Genie: GenieConfig{
			BaseURL:  getEnv("GENIE_BASE_URL", ""),
			APIToken: getEnv("GENIE_API_TOKEN", ""),
			SpaceID:  getEnv("GENIE_SPACE_ID", ""),
		},
		Warehouse: WarehouseConfig{
			Server:   getEnv("SQL_SERVER", ""),
			Port:     getEnv("SQL_PORT", "1433"),
			Database: getEnv("SQL_DATABASE", ""),
			UserID:   getEnv("SQL_USER", ""),
			Password: getEnv("SQL_PASSWORD", ""),
			Encrypt:  getEnv("SQL_ENCRYPT", "true") == "true",
		},
		MaxQueryResults:         r.intVal("MAX_QUERY_RESULTS", 1000),
		CacheTTL:                r.duration("QUERY_CACHE_TTL", 5*time.Minute),
		CacheMaxEntries:         r.intVal("QUERY_CACHE_MAX_ENTRIES", 100),
		SQLGenTimeout:           r.duration("SQL_GEN_TIMEOUT", 60*time.Second),
		QueryTimeout:            r.duration("QUERY_TIMEOUT", 30*time.Second),
		AnalysisTimeout:         r.duration("ANALYSIS_TIMEOUT", 30*time.Second),
		VisualizationTimeout:    r.duration("VISUALIZATION_TIMEOUT", 12*time.Second),
		ChatTimeout:             r.duration("CHAT_TIMEOUT", 20*time.Second),
		EnableQueryCaching:      getEnv("ENABLE_QUERY_CACHING", "true") == "true",
		EnableProactiveInsights: getEnv("ENABLE_PROACTIVE_INSIGHTS", "true") == "true",
	}
	cfg.parseProblems = r.problems
	return cfg
}

// Validate checks every required setting and returns a single error
// enumerating all problems, so a misconfigured deployment fails fast with
// the full list instead of one missing variable at a time.
func (c Config) Validate() error {
	problems := append([]string(nil), c.parseProblems...)

	if c.LLM.APIKey == "" {
		problems = append(problems, "LLM_API_KEY is required")
	}
	if c.Genie.BaseURL == "" {
		problems = append(problems, "GENIE_BASE_URL is required")
	}
	if c.Genie.SpaceID == "" {
		problems = append(problems, "GENIE_SPACE_ID is required")
	}
	if c.Warehouse.Server == "" {
		problems = append(problems, "SQL_SERVER is required")
	}
	if c.Warehouse.Database == "" {
		problems = append(problems, "SQL_DATABASE is required")
	}
	if c.MaxQueryResults <= 0 {
		problems = append(problems, "MAX_QUERY_RESULTS must be positive")
	}
	if c.CacheMaxEntries <= 0 {
		problems = append(problems, "QUERY_CACHE_MAX_ENTRIES must be positive")
	}
	if c.CacheTTL <= 0 {
		problems = append(problems, "QUERY_CACHE_TTL must be positive")
	}
	for name, d := range map[string]time.Duration{
		"SQL_GEN_TIMEOUT":       c.SQLGenTimeout,
		"QUERY_TIMEOUT":         c.QueryTimeout,
		"ANALYSIS_TIMEOUT":      c.AnalysisTimeout,
		"VISUALIZATION_TIMEOUT": c.VisualizationTimeout,
		"CHAT_TIMEOUT":          c.ChatTimeout,
	} {
		if d <= 0 {
			problems = append(problems, name+" must be positive")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader reads typed settings and records every malformed value so
// Validate can fail startup with the full list.
type envReader struct {
	problems []string
}

func (r *envReader) intVal(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		r.problems = append(r.problems, fmt.Sprintf("%s is not a valid integer: %q", key, value))
		return defaultValue
	}
	return n
}

// duration accepts either a Go duration string ("30s") or a bare number of
// seconds, matching how the setting was historically expressed.
func (r *envReader) duration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	r.problems = append(r.problems, fmt.Sprintf("%s is not a valid duration: %q", key, value))
	return defaultValue
}
