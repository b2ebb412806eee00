package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Session SessionConfig
	Keys    APIKeys
	Search  SearchConfig
	Ai      AIConfig
	Tracing TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	AccessPassword     string
}

type SessionConfig struct {
	Store      string // "memory" or "redis"
	RedisURL   string
	TTL        time.Duration
	SigningKey string // random per process when empty
	SecureOnly bool
}

type APIKeys struct {
	GoogleSearch string
	GoogleCSEID  string
	OpenAI       string
}

type SearchConfig struct {
	BaseURL string
	Timeout time.Duration
}

type AIConfig struct {
	BaseURL         string
	Model           string
	Timeout         time.Duration
	IncludeSnippets bool
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/askgov.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			AccessPassword:     getEnv("ACCESS_PASSWORD", ""),
		},
		Session: SessionConfig{
			Store:      strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379"),
			TTL:        getEnvAsDuration("SESSION_TTL", 12*time.Hour),
			SigningKey: getEnv("SESSION_SIGNING_KEY", ""),
			SecureOnly: getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Keys: APIKeys{
			GoogleSearch: getEnv("GOOGLE_API_KEY", ""),
			GoogleCSEID:  getEnv("GOOGLE_CSE_ID", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
		},
		Search: SearchConfig{
			BaseURL: getEnv("GOOGLE_CSE_BASE_URL", "https://www.googleapis.com/customsearch/v1"),
			Timeout: getEnvAsDuration("SEARCH_TIMEOUT", 15*time.Second),
		},
		Ai: AIConfig{
			BaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:           getEnv("LLM_MODEL", "gpt-4o"),
			Timeout:         getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			IncludeSnippets: getEnvAsBool("ASKGOV_INCLUDE_SNIPPETS", false),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

// Validate reports every required secret that is missing. Callers treat a
// non-nil result as fatal.
func (c *Config) Validate() error {
	missing := c.missingProviderKeys()
	if c.App.AccessPassword == "" {
		missing = append(missing, "ACCESS_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.Session.Store)
	}

	// the session cookie needs credentialed CORS, which forbids a wildcard origin
	for _, origin := range strings.Split(c.App.CorsAllowedOrigins, ",") {
		if strings.TrimSpace(origin) == "*" {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS must list explicit origins; \"*\" is not allowed with session cookies")
		}
	}
	return nil
}

// ValidateProviderKeys checks only the search and chat-completion credentials,
// for tools that never serve the access gate.
func (c *Config) ValidateProviderKeys() error {
	if missing := c.missingProviderKeys(); len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) missingProviderKeys() []string {
	var missing []string
	if c.Keys.GoogleSearch == "" {
		missing = append(missing, "GOOGLE_API_KEY")
	}
	if c.Keys.GoogleCSEID == "" {
		missing = append(missing, "GOOGLE_CSE_ID")
	}
	if c.Keys.OpenAI == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	return missing
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
