package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr          string
	DatabaseURL   string // empty = in-memory persistence
	MigrationsDir string
	CORSOrigin    string

	MeiliURL       string
	MeiliMasterKey string

	// Redis - rate limiting disabled if not configured
	RedisURL        string
	RateLimitWindow time.Duration
	RateLimitMax    int

	// MinIO - export archival disabled if not configured
	ArchiveEndpoint  string
	ArchiveAccessKey string
	ArchiveSecretKey string
	ArchiveBucket    string
	ArchiveUseSSL    bool

	ExternalSheetURL string
}

func Load() Config {
	return Config{
		Addr:          getenv("API_ADDR", ":8787"),
		DatabaseURL:   getenv("DATABASE_URL", ""),
		MigrationsDir: getenv("QS_MIGRATIONS_DIR", "./db/migrations"),
		CORSOrigin:    getenv("QS_CORS_ORIGIN", "*"),

		MeiliURL:       getenv("MEILI_URL", ""),
		MeiliMasterKey: getenv("MEILI_MASTER_KEY", ""),

		RedisURL:        getenv("REDIS_URL", ""),
		RateLimitWindow: time.Duration(getenvInt("QS_RATE_LIMIT_WINDOW_SECONDS", 900)) * time.Second,
		RateLimitMax:    getenvInt("QS_RATE_LIMIT_MAX", 100),

		ArchiveEndpoint:  getenv("EXPORT_ARCHIVE_ENDPOINT", ""),
		ArchiveAccessKey: getenv("EXPORT_ARCHIVE_ACCESS_KEY", ""),
		ArchiveSecretKey: getenv("EXPORT_ARCHIVE_SECRET_KEY", ""),
		ArchiveBucket:    getenv("EXPORT_ARCHIVE_BUCKET", "questsheet-exports"),
		ArchiveUseSSL:    getenvBool("EXPORT_ARCHIVE_USE_SSL", false),

		ExternalSheetURL: getenv("EXTERNAL_SHEET_URL", ""),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
