// backend-go/internal/config/config.go
package config

import (
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Insights InsightsConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// SourceKind selects where the inventory dataset is loaded from.
type SourceKind string

const (
	SourceFile     SourceKind = "file"
	SourceS3       SourceKind = "s3"
	SourceDrive    SourceKind = "drive"
	SourcePostgres SourceKind = "postgres"
)

type DatasetConfig struct {
	Source SourceKind
	Path   string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string
	S3Key       string
	S3UseSSL    bool

	DriveFileID          string
	DriveCredentialsJSON string

	PostgresTable string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
	WarmWorkers         int
}

type InsightsConfig struct {
	SampleSize         int
	OverviewExpiryDays int
	ExplorerExpiryDays int
	RandomSeed         uint64 // 0 seeds from the clock
}

var (
	once     sync.Once
	instance *Config
)

// Load reads configuration from the environment (and .env) once per process.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		instance = FromViper(newViper())
	})

	return instance
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("DATASET_SOURCE", string(SourceFile))
	v.SetDefault("DATASET_PATH", "./data/days_of_inventory_sample.csv")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_KEY", "")
	v.SetDefault("S3_USE_SSL", true)
	v.SetDefault("DRIVE_FILE_ID", "")
	v.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
	v.SetDefault("DATASET_PG_TABLE", "inventory_items")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "inventory")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
	v.SetDefault("CACHE_WARM_WORKERS", 4)
	v.SetDefault("INSIGHT_SAMPLE_SIZE", 2)
	v.SetDefault("OVERVIEW_EXPIRY_DAYS", 30)
	v.SetDefault("EXPLORER_EXPIRY_DAYS", 90)
	v.SetDefault("INSIGHT_RANDOM_SEED", 0)

	// Read from environment variables
	v.AutomaticEnv()

	return v
}

// FromViper builds a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) *Config {
	logLevel := v.GetString("LOG_LEVEL")
	if logLevel == "" {
		logLevel = v.GetString("SERVER_MODE")
	}

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogLevel:       logLevel,
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Dataset: DatasetConfig{
			Source:               SourceKind(strings.ToLower(strings.TrimSpace(v.GetString("DATASET_SOURCE")))),
			Path:                 v.GetString("DATASET_PATH"),
			S3Endpoint:           v.GetString("S3_ENDPOINT"),
			S3AccessKey:          v.GetString("S3_ACCESS_KEY"),
			S3SecretKey:          v.GetString("S3_SECRET_KEY"),
			S3Bucket:             v.GetString("S3_BUCKET"),
			S3Region:             v.GetString("S3_REGION"),
			S3Key:                v.GetString("S3_KEY"),
			S3UseSSL:             v.GetBool("S3_USE_SSL"),
			DriveFileID:          v.GetString("DRIVE_FILE_ID"),
			DriveCredentialsJSON: v.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			PostgresTable:        v.GetString("DATASET_PG_TABLE"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:             v.GetBool("CACHE_ENABLED"),
			RedisURL:            v.GetString("REDIS_URL"),
			RedisHost:           v.GetString("REDIS_HOST"),
			RedisPort:           v.GetString("REDIS_PORT"),
			RedisPassword:       v.GetString("REDIS_PASSWORD"),
			RedisDB:             v.GetInt("REDIS_DB"),
			DashboardTTLSeconds: v.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
			WarmWorkers:         v.GetInt("CACHE_WARM_WORKERS"),
		},
		Insights: InsightsConfig{
			SampleSize:         v.GetInt("INSIGHT_SAMPLE_SIZE"),
			OverviewExpiryDays: v.GetInt("OVERVIEW_EXPIRY_DAYS"),
			ExplorerExpiryDays: v.GetInt("EXPLORER_EXPIRY_DAYS"),
			RandomSeed:         v.GetUint64("INSIGHT_RANDOM_SEED"),
		},
	}
}
