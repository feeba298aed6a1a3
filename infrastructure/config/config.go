// Package config loads engine configuration from the environment, with an
// optional YAML overlay for values that are awkward as env vars.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment names
const (
	Development = "development"
	Production  = "production"
)

// Config holds all engine configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"serverAddress"`
	Environment   string `yaml:"environment"`

	// Supabase storage
	SupabaseURL    string `yaml:"supabaseUrl"`
	SupabaseKey    string `yaml:"supabaseKey"`
	StorageBucket  string `yaml:"storageBucket"`

	// Study-platform API
	PlatformBaseURL string        `yaml:"platformBaseUrl"`
	PlatformTimeout time.Duration `yaml:"platformTimeout"`

	// Review sessions
	SessionTTL time.Duration `yaml:"sessionTtl"`

	// Authentication
	JWTSecret string `yaml:"jwtSecret"`
	JWTIssuer string `yaml:"jwtIssuer"`

	// Logging and features
	LogLevel      string   `yaml:"logLevel"`
	EnableMetrics bool     `yaml:"enableMetrics"`
	EnableCORS    bool     `yaml:"enableCors"`
	CORSOrigins   []string `yaml:"corsOrigins"`

	// Rate limiting
	RateLimitPerMinute int `yaml:"rateLimitPerMinute"`
}

// LoadConfig loads configuration from environment variables, then applies
// the YAML overlay named by CONFIG_FILE when present.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", Development),

		SupabaseURL:   getEnv("SUPABASE_URL", ""),
		SupabaseKey:   getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		StorageBucket: getEnv("STORAGE_BUCKET", "materials"),

		PlatformBaseURL: getEnv("PLATFORM_BASE_URL", "http://localhost:5000/api"),
		PlatformTimeout: getEnvDuration("PLATFORM_TIMEOUT", 5*time.Minute),

		SessionTTL: getEnvDuration("SESSION_TTL", 30*time.Minute),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "study-platform"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
		CORSOrigins:   []string{"*"},

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	}

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		if err := cfg.applyOverlay(file); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// applyOverlay merges a YAML file over the env-derived values
func (c *Config) applyOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config overlay %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config overlay %s: %w", path, err)
	}
	return nil
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	if c.PlatformBaseURL == "" {
		return fmt.Errorf("PLATFORM_BASE_URL is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Environment == Production {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required in production")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
