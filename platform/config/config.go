// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides settings for the asynq job queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// CacheConfig provides settings for the Redis-backed quote snapshot cache.
type CacheConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetQuoteSnapshotTTL() time.Duration
}

// SimulationConfig provides the timings that drive the request simulation.
type SimulationConfig interface {
	GetSubmitDelay() time.Duration
	GetQuoteDelayRange() (time.Duration, time.Duration)
	GetRevisionDelay() time.Duration
	GetReassignDelay() time.Duration
	GetTickInterval() time.Duration
	GetMaxTravel() time.Duration
	GetArrivalDelay() time.Duration
	GetRetainFinished() time.Duration
	GetTravelSpeedKmh() float64
}

// HistoryConfig provides history retention settings.
type HistoryConfig interface {
	GetHistoryKeep() int
	GetHistoryCleanupInterval() time.Duration
}

// I18nConfig provides translation settings.
type I18nConfig interface {
	GetDefaultLanguage() string
	GetFallbackLanguage() string
	GetI18nDebug() bool
}

// EmployeeConfig provides settings for the employee pool.
type EmployeeConfig interface {
	GetEmployeeBlacklist() []string
	GetPhoneRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int
	QuoteSnapshotTTL time.Duration

	SubmitDelay    time.Duration
	QuoteDelayMin  time.Duration
	QuoteDelayMax  time.Duration
	RevisionDelay  time.Duration
	ReassignDelay  time.Duration
	TickInterval   time.Duration
	MaxTravel      time.Duration
	ArrivalDelay   time.Duration
	RetainFinished time.Duration
	TravelSpeedKmh float64

	HistoryKeep            int
	HistoryCleanupInterval time.Duration

	DefaultLanguage  string
	FallbackLanguage string
	I18nDebug        bool

	EmployeeBlacklist []string
	PhoneRegion       string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SchedulerConfig / CacheConfig implementation
func (c *Config) GetRedisURL() string                { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool          { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string          { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int           { return c.AsynqConcurrency }
func (c *Config) GetQuoteSnapshotTTL() time.Duration { return c.QuoteSnapshotTTL }

// SimulationConfig implementation
func (c *Config) GetSubmitDelay() time.Duration { return c.SubmitDelay }
func (c *Config) GetQuoteDelayRange() (time.Duration, time.Duration) {
	return c.QuoteDelayMin, c.QuoteDelayMax
}
func (c *Config) GetRevisionDelay() time.Duration  { return c.RevisionDelay }
func (c *Config) GetReassignDelay() time.Duration  { return c.ReassignDelay }
func (c *Config) GetTickInterval() time.Duration   { return c.TickInterval }
func (c *Config) GetMaxTravel() time.Duration      { return c.MaxTravel }
func (c *Config) GetArrivalDelay() time.Duration   { return c.ArrivalDelay }
func (c *Config) GetRetainFinished() time.Duration { return c.RetainFinished }
func (c *Config) GetTravelSpeedKmh() float64       { return c.TravelSpeedKmh }

// HistoryConfig implementation
func (c *Config) GetHistoryKeep() int                      { return c.HistoryKeep }
func (c *Config) GetHistoryCleanupInterval() time.Duration { return c.HistoryCleanupInterval }

// I18nConfig implementation
func (c *Config) GetDefaultLanguage() string  { return c.DefaultLanguage }
func (c *Config) GetFallbackLanguage() string { return c.FallbackLanguage }
func (c *Config) GetI18nDebug() bool          { return c.I18nDebug }

// EmployeeConfig implementation
func (c *Config) GetEmployeeBlacklist() []string { return c.EmployeeBlacklist }
func (c *Config) GetPhoneRegion() string         { return c.PhoneRegion }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		CORSAllowCreds:   strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		QuoteSnapshotTTL: mustDuration(getEnv("QUOTE_SNAPSHOT_TTL", "2h")),

		SubmitDelay:    mustDuration(getEnv("SIM_SUBMIT_DELAY", "1500ms")),
		QuoteDelayMin:  mustDuration(getEnv("SIM_QUOTE_DELAY_MIN", "1s")),
		QuoteDelayMax:  mustDuration(getEnv("SIM_QUOTE_DELAY_MAX", "3s")),
		RevisionDelay:  mustDuration(getEnv("SIM_REVISION_DELAY", "2s")),
		ReassignDelay:  mustDuration(getEnv("SIM_REASSIGN_DELAY", "1500ms")),
		TickInterval:   mustDuration(getEnv("SIM_TICK", "1s")),
		MaxTravel:      mustDuration(getEnv("SIM_MAX_TRAVEL", "15s")),
		ArrivalDelay:   mustDuration(getEnv("SIM_ARRIVAL_DELAY", "5s")),
		RetainFinished: mustDuration(getEnv("SIM_RETAIN_FINISHED", "2m")),
		TravelSpeedKmh: mustFloat(getEnv("SIM_SPEED_KMH", "40")),

		HistoryKeep:            mustInt(getEnv("HISTORY_KEEP", "20")),
		HistoryCleanupInterval: mustDuration(getEnv("HISTORY_CLEANUP_INTERVAL", "1h")),

		DefaultLanguage:  strings.ToLower(getEnv("I18N_DEFAULT_LANGUAGE", "en")),
		FallbackLanguage: strings.ToLower(getEnv("I18N_FALLBACK_LANGUAGE", "en")),
		I18nDebug:        strings.EqualFold(getEnv("I18N_DEBUG", "false"), "true"),

		EmployeeBlacklist: splitCSV(getEnv("SIM_EMPLOYEE_BLACKLIST", "")),
		PhoneRegion:       strings.ToUpper(getEnv("PHONE_REGION", "BG")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if c.QuoteDelayMax < c.QuoteDelayMin {
		return fmt.Errorf("SIM_QUOTE_DELAY_MAX must not be smaller than SIM_QUOTE_DELAY_MIN")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("SIM_TICK must be positive")
	}
	if c.TravelSpeedKmh <= 0 {
		return fmt.Errorf("SIM_SPEED_KMH must be positive")
	}
	if c.HistoryKeep < 1 {
		return fmt.Errorf("HISTORY_KEEP must be at least 1")
	}
	if !isSupportedLanguage(c.DefaultLanguage) || !isSupportedLanguage(c.FallbackLanguage) {
		return fmt.Errorf("I18N languages must be one of en, bg")
	}
	return nil
}

func isSupportedLanguage(lang string) bool {
	return lang == "en" || lang == "bg"
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
