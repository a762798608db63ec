package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds everything cmd/main.go needs to wire the service.
type Config struct {
	HTTPAddr    string
	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string
	DatabaseDSN string
	AutoMigrate bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// FeedBackend selects the realtime change feed: "redis", "postgres" or
	// "memory" (single process only).
	FeedBackend     string
	RefreshInterval time.Duration

	JWTSecret string

	WebhookURL     string
	WebhookTimeout time.Duration

	LogLevel    string
	LogPretty   bool
	DefaultLang string

	S3 S3Config
}

type S3Config struct {
	AccessKey  string
	SecretKey  string
	Region     string
	BucketName string
	ServiceURL string
	BucketURL  string
}

// Enabled reports whether attachments should be uploaded instead of kept inline.
func (c S3Config) Enabled() bool {
	return c.BucketName != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DATABASE_DSN", "host=localhost user=user password=password dbname=conversa port=5432 sslmode=disable")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("FEED_BACKEND", "redis")
	v.SetDefault("REFRESH_INTERVAL", DefaultRefreshInterval)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("WEBHOOK_URL", "")
	v.SetDefault("WEBHOOK_TIMEOUT", DefaultWebhookTimeout)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("DEFAULT_LANG", "pt")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_SERVICE_URL", "https://s3.amazonaws.com")
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		AutoMigrate:     v.GetBool("AUTO_MIGRATE"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		FeedBackend:     strings.ToLower(strings.TrimSpace(v.GetString("FEED_BACKEND"))),
		RefreshInterval: v.GetDuration("REFRESH_INTERVAL"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		WebhookURL:      strings.TrimSpace(v.GetString("WEBHOOK_URL")),
		WebhookTimeout:  v.GetDuration("WEBHOOK_TIMEOUT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogPretty:       v.GetBool("LOG_PRETTY"),
		DefaultLang:     v.GetString("DEFAULT_LANG"),
		S3: S3Config{
			AccessKey:  v.GetString("S3_ACCESS_KEY"),
			SecretKey:  v.GetString("S3_SECRET_KEY"),
			Region:     v.GetString("S3_REGION"),
			BucketName: v.GetString("S3_BUCKET"),
			ServiceURL: v.GetString("S3_SERVICE_URL"),
			BucketURL:  v.GetString("S3_BUCKET_URL"),
		},
	}

	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.WebhookTimeout <= 0 {
		cfg.WebhookTimeout = DefaultWebhookTimeout
	}
	switch cfg.FeedBackend {
	case "postgres", "memory":
	default:
		cfg.FeedBackend = "redis"
	}
	if !SupportedLanguages[cfg.DefaultLang] {
		cfg.DefaultLang = "pt"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	return cfg
}

// splitList reads a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
