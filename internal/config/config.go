package config

import (
	"os"
	"time"

	"github.com/spf13/cast"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// SyncConfig tunes the synchronization with the remote notification service.
// Credentials and endpoints are not here: they live in the active configuration record in the database.
type SyncConfig struct {
	FetchWindowDays   int
	ReceiptURLExpiry  time.Duration
	RemoteCallTimeout time.Duration
}

// AppConfig is the process configuration, read from the environment.
type AppConfig struct {
	Env      string
	Port     string
	Timezone string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Sync     SyncConfig
}

// Load reads configuration from environment variables. cmd/api imports godotenv/autoload,
// so a .env file fills in whatever the real environment leaves unset.
func Load() *AppConfig {
	return &AppConfig{
		Env:      getEnv("APP_ENV", "production"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "Local"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Sync: SyncConfig{
			FetchWindowDays:  getEnvInt("DEHU_FETCH_WINDOW_DAYS", 30),
			ReceiptURLExpiry: getEnvDuration("RECEIPT_URL_EXPIRY", 15*time.Minute),
			// Zero keeps the transport defaults.
			RemoteCallTimeout: getEnvDuration("DEHU_REMOTE_TIMEOUT", 0),
		},
	}
}

// Location resolves the configured time zone, falling back to the process local zone.
func (c *AppConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envAs converts a variable with conv. Unset or unparseable values yield def.
func envAs[T any](key string, def T, conv func(any) (T, error)) T {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	out, err := conv(v)
	if err != nil {
		return def
	}
	return out
}

func getEnvBool(key string, def bool) bool { return envAs(key, def, cast.ToBoolE) }

func getEnvInt(key string, def int) int { return envAs(key, def, cast.ToIntE) }

// getEnvDuration accepts Go duration strings; bare integers are nanoseconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	return envAs(key, def, cast.ToDurationE)
}
