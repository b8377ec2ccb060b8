package common

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Fetch    FetchConfig
	Extract  ExtractConfig
	Clause   StageConfig
	Risk     StageConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr    string
	WorkDir string // parent directory for per-request transient files
}

// FetchConfig governs source-document download.
type FetchConfig struct {
	Timeout      time.Duration
	MaxSizeBytes int64
}

// ExtractConfig holds text-extraction configuration.
type ExtractConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
}

// StageConfig configures one AI analysis pass.
type StageConfig struct {
	Provider    string // "openai" | "anthropic"
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
	TextLimit   int // clause stage only: character budget for document text
}

// StorageConfig holds durable report storage configuration.
type StorageConfig struct {
	Bucket        string
	Region        string
	KeyPrefix     string
	PresignExpiry time.Duration
	UploadTimeout time.Duration
}

// CacheConfig holds the optional idempotency cache configuration.
type CacheConfig struct {
	RedisAddr string // empty disables the cache
	TTL       time.Duration
}

// DatabaseConfig holds the optional analysis-audit store configuration.
type DatabaseConfig struct {
	DSN             string // empty disables the audit store
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    getEnv("HTTP_ADDR", ":8080"),
			WorkDir: getEnv("WORK_DIR", os.TempDir()),
		},
		Fetch: FetchConfig{
			Timeout:      getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second),
			MaxSizeBytes: int64(getEnvAsInt("FETCH_MAX_MB", 50)) * 1024 * 1024,
		},
		Extract: ExtractConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		Clause: StageConfig{
			Provider:    getEnv("CLAUSE_PROVIDER", "openai"),
			Model:       getEnv("CLAUSE_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("CLAUSE_API_KEY", os.Getenv("OPENAI_API_KEY")),
			BaseURL:     getEnv("CLAUSE_BASE_URL", ""),
			Temperature: getEnvAsFloat32("CLAUSE_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("CLAUSE_TIMEOUT", 2*time.Minute),
			TextLimit:   getEnvAsInt("CLAUSE_TEXT_LIMIT", 150000),
		},
		Risk: StageConfig{
			Provider:    getEnv("RISK_PROVIDER", "anthropic"),
			Model:       getEnv("RISK_MODEL", "claude-3-5-sonnet-latest"),
			APIKey:      getEnv("RISK_API_KEY", os.Getenv("ANTHROPIC_API_KEY")),
			BaseURL:     getEnv("RISK_BASE_URL", ""),
			Temperature: getEnvAsFloat32("RISK_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("RISK_TIMEOUT", 2*time.Minute),
		},
		Storage: StorageConfig{
			Bucket:        getEnv("REPORTS_BUCKET", ""),
			Region:        getEnv("AWS_REGION", "us-east-1"),
			KeyPrefix:     getEnv("REPORTS_PREFIX", "reports"),
			PresignExpiry: getEnvAsDuration("REPORT_URL_TTL", 24*time.Hour),
			UploadTimeout: getEnvAsDuration("UPLOAD_TIMEOUT", 60*time.Second),
		},
		Cache: CacheConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
			TTL:       getEnvAsDuration("CACHE_TTL", 24*time.Hour),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
	}
}

// Validate checks the settings the pipeline cannot run without.
func (c *Config) Validate() error {
	if c.Storage.Bucket == "" {
		return fmt.Errorf("REPORTS_BUCKET is required")
	}
	if c.Clause.APIKey == "" {
		return fmt.Errorf("CLAUSE_API_KEY (or OPENAI_API_KEY) is required")
	}
	if c.Risk.APIKey == "" {
		return fmt.Errorf("RISK_API_KEY (or ANTHROPIC_API_KEY) is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
