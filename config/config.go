package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Redis      RedisConfig
	OpenAI     OpenAIConfig
	Generation GenerationConfig
	App        AppConfig

	// Warnings lists non-fatal problems met while loading (missing dotenv
	// file, unparsable values replaced by defaults). Load runs before the
	// logger exists, so the caller logs them.
	Warnings []string
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

type StoreConfig struct {
	Backend string
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	RateLimit   float64 // requests per second across the whole process
	Burst       int
}

type GenerationConfig struct {
	Total      int
	BatchSize  int
	BatchDelay time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

// Load reads configuration from the environment. envFile, when non-empty,
// replaces the default ".env" lookup.
func Load(envFile ...string) (*Config, error) {
	var env envReader
	if err := godotenv.Load(envFile...); err != nil {
		env.warn("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               env.String("PORT", "5001"),
			CORSAllowedOrigins: env.List("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(env.String("STORE_BACKEND", StoreMemory)),
		},
		Redis: RedisConfig{
			Addr:      env.String("REDIS_ADDR", "localhost:6379"),
			Password:  env.String("REDIS_PASSWORD", ""),
			DB:        env.Int("REDIS_DB", 0),
			KeyPrefix: env.String("REDIS_KEY_PREFIX", "persona:"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      env.String("OPENAI_API_KEY", ""),
			BaseURL:     env.String("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       env.String("OPENAI_MODEL", "gpt-3.5-turbo-1106"),
			Temperature: env.Float("OPENAI_TEMPERATURE", 0.8),
			MaxTokens:   env.Int("OPENAI_MAX_TOKENS", 2000),
			Timeout:     env.Duration("OPENAI_TIMEOUT", 60*time.Second),
			RateLimit:   env.Float("OPENAI_RATE_LIMIT", 1),
			Burst:       env.Int("OPENAI_BURST", 2),
		},
		Generation: GenerationConfig{
			Total:      env.Int("GENERATION_TOTAL", 10),
			BatchSize:  env.Int("GENERATION_BATCH_SIZE", 2),
			BatchDelay: env.Duration("GENERATION_BATCH_DELAY", 2*time.Second),
		},
		App: AppConfig{
			Environment: env.String("APP_ENV", "development"),
			LogLevel:    env.String("LOG_LEVEL", "info"),
			Version:     env.String("APP_VERSION", "1.0.0"),
		},
	}

	cfg.Warnings = env.warnings

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	if c.Generation.Total <= 0 {
		return fmt.Errorf("GENERATION_TOTAL must be positive")
	}
	if c.Generation.BatchSize <= 0 {
		return fmt.Errorf("GENERATION_BATCH_SIZE must be positive")
	}
	if c.Generation.BatchDelay < 0 {
		return fmt.Errorf("GENERATION_BATCH_DELAY must not be negative")
	}

	return nil
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

// envReader reads typed values from the environment and collects a warning
// for every value that had to fall back to its default.
type envReader struct {
	warnings []string
}

func (r *envReader) warn(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *envReader) String(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (r *envReader) Int(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		r.warn("Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func (r *envReader) Float(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		r.warn("Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func (r *envReader) Duration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		r.warn("Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func (r *envReader) List(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
