package config

import (
	"log/slog"
	"os"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Store backends selectable via STORE_BACKEND
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Storage
	StoreBackend string
	StorePath    string // directory for "file", database file for "sqlite"
	DatabaseURL  string
	TablePrefix  string
	KeyPrefix    string
	S3           S3Config
	// Sharing and ingestion
	ShareBaseURL           string
	InlinePayloadThreshold int64
	UploadConcurrency      int
	MaxUploadBytes         int64
	SeedDemoData           bool
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool
}

type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	port := getEnv("PORT", "8080")

	return &Config{
		Port:         port,
		Environment:  env,
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		StoreBackend: getEnv("STORE_BACKEND", BackendFile),
		StorePath:    getEnv("STORE_PATH", "./data"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		TablePrefix:  getTablePrefix(env),
		KeyPrefix:    getEnv("KEY_PREFIX", ""),
		S3: S3Config{
			Bucket:    getEnv("S3_BUCKET", ""),
			Prefix:    getEnv("S3_PREFIX", "cloudshare"),
			Region:    getEnv("S3_REGION", "auto"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		},
		ShareBaseURL:           getEnv("SHARE_BASE_URL", "http://localhost:"+port+"/"),
		InlinePayloadThreshold: getEnvInt64("INLINE_PAYLOAD_THRESHOLD", DefaultInlinePayloadThreshold),
		UploadConcurrency:      int(getEnvInt64("UPLOAD_CONCURRENCY", DefaultUploadConcurrency)),
		MaxUploadBytes:         getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		SeedDemoData:           getEnv("SEED_DEMO_DATA", "true") == "true",
		LogDir:                 getEnv("LOG_DIR", ""),
		LogMaxFiles:            int(getEnvInt64("LOG_MAX_FILES", 10)),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Validate checks the settings needed by the selected backend
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.StoreBackend, validation.Required,
			validation.In(BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendS3)),
		validation.Field(&c.StorePath,
			validation.When(c.StoreBackend == BackendFile || c.StoreBackend == BackendSQLite, validation.Required)),
		validation.Field(&c.DatabaseURL,
			validation.When(c.StoreBackend == BackendPostgres, validation.Required)),
		validation.Field(&c.S3, validation.When(c.StoreBackend == BackendS3, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&c.S3,
				validation.Field(&c.S3.Bucket, validation.Required),
				validation.Field(&c.S3.Endpoint, is.URL),
			)
		}))),
		validation.Field(&c.ShareBaseURL, validation.Required, is.URL),
		validation.Field(&c.InlinePayloadThreshold, validation.Min(int64(0))),
		validation.Field(&c.UploadConcurrency, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxUploadBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.LogMaxFiles, validation.Required, validation.Min(1)),
	)
}

// LogLevel returns the slog level for the environment
func (c *Config) LogLevel() slog.Level {
	if c.Environment == "dev" || c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		slog.Warn("ignoring non-numeric setting", "key", key, "value", value)
		return defaultValue
	}
	return n
}
