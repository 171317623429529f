package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                 string
	AppEnv                  string
	AppPort                 string
	DatabaseDriver          string
	DatabaseURL             string
	RedisURL                string
	NATSURL                 string
	JWTSecret               string
	DirectoryCacheTTL       time.Duration
	SummaryCacheTTL         time.Duration
	BulkConcurrency         int
	SMTPHost                string
	SMTPPort                int
	SMTPUser                string
	SMTPPass                string
	SMTPFrom                string
	SMTPSkipTLSVerify       bool
	CloudinaryCloudName     string
	CloudinaryAPIKey        string
	CloudinaryAPISecret     string
	CloudinaryUploadFolder  string
	UploadMaxSizeMB         int
	SeedEnabled             bool
	SeedToken               string
	NotificationChannelBase string
	CORSAllowedOrigins      string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// UploadMaxBytes returns the evidence upload limit in bytes.
func (c Config) UploadMaxBytes() int64 {
	return int64(c.UploadMaxSizeMB) * 1024 * 1024
}

// EmailEnabled reports whether an SMTP relay has been configured.
func (c Config) EmailEnabled() bool {
	return strings.TrimSpace(c.SMTPHost) != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HRIS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "HRIS API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("directory.cache_ttl", "5m")
	v.SetDefault("appraisal.summary_cache_ttl", "30s")
	v.SetDefault("appraisal.bulk_concurrency", 4)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.skip_tls_verify", false)
	v.SetDefault("cloudinary.folder", "hris/evidence")
	v.SetDefault("upload.max_size_mb", 10)
	v.SetDefault("seed.enabled", false)
	v.SetDefault("notification.channel", "hris")
	v.SetDefault("cors.allowed_origins", "*")

	directoryTTL, err := parseDuration(v.GetString("directory.cache_ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid directory cache ttl: %w", err)
	}

	summaryTTL, err := parseDuration(v.GetString("appraisal.summary_cache_ttl"), 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid summary cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                 v.GetString("app.name"),
		AppEnv:                  v.GetString("app.env"),
		AppPort:                 v.GetString("app.port"),
		DatabaseDriver:          strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
		DatabaseURL:             v.GetString("database.url"),
		RedisURL:                v.GetString("redis.url"),
		NATSURL:                 v.GetString("nats.url"),
		JWTSecret:               v.GetString("jwt.secret"),
		DirectoryCacheTTL:       directoryTTL,
		SummaryCacheTTL:         summaryTTL,
		BulkConcurrency:         v.GetInt("appraisal.bulk_concurrency"),
		SMTPHost:                v.GetString("smtp.host"),
		SMTPPort:                v.GetInt("smtp.port"),
		SMTPUser:                v.GetString("smtp.user"),
		SMTPPass:                v.GetString("smtp.pass"),
		SMTPFrom:                v.GetString("smtp.from"),
		SMTPSkipTLSVerify:       v.GetBool("smtp.skip_tls_verify"),
		CloudinaryCloudName:     v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:        v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:     v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder:  v.GetString("cloudinary.folder"),
		UploadMaxSizeMB:         v.GetInt("upload.max_size_mb"),
		SeedEnabled:             v.GetBool("seed.enabled"),
		SeedToken:               v.GetString("seed.token"),
		NotificationChannelBase: v.GetString("notification.channel"),
		CORSAllowedOrigins:      v.GetString("cors.allowed_origins"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.BulkConcurrency <= 0 {
		cfg.BulkConcurrency = 4
	}

	if cfg.UploadMaxSizeMB <= 0 {
		cfg.UploadMaxSizeMB = 10
	}

	if cfg.SMTPPort <= 0 {
		cfg.SMTPPort = 587
	}

	if cfg.NotificationChannelBase == "" {
		cfg.NotificationChannelBase = "hris"
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}

	return time.ParseDuration(value)
}
