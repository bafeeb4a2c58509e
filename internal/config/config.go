package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/random"
	"github.com/spf13/viper"
)

// Config holds every setting the API reads at start-up.
type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Storage StorageConfig
	Auth    AuthConfig
	HTTP    HTTPConfig
	Log     LogConfig
	Jobs    JobsConfig
}

type AppConfig struct {
	Name string
	Env  string
}

// IsProduction reports whether cookies must be marked Secure.
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

type DBConfig struct {
	URL      string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig points at an S3-compatible bucket (MinIO, or GCS through its
// interoperability endpoint).
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Region        string
	Bucket        string
	PublicBaseURL string
}

type AuthConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	JWKSURL         string
	GeneratedSecret bool
}

type HTTPConfig struct {
	Port           int
	AllowedOrigins []string
	StaticDir      string
}

// Addr returns the listen address.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

type LogConfig struct {
	Level string
}

type JobsConfig struct {
	SweepInterval time.Duration
}

// Load reads configuration from the environment, with an optional .env file in
// the working directory. Environment variables win over the file.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("APP_NAME"),
			Env:  v.GetString("APP_ENV"),
		},
		DB: DBConfig{
			URL:      v.GetString("DATABASE_URL"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			Endpoint:      v.GetString("STORAGE_ENDPOINT"),
			AccessKey:     v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:     v.GetString("STORAGE_SECRET_KEY"),
			UseSSL:        v.GetBool("STORAGE_USE_SSL"),
			Region:        v.GetString("STORAGE_REGION"),
			Bucket:        v.GetString("BUCKET_NAME"),
			PublicBaseURL: strings.TrimRight(v.GetString("STORAGE_PUBLIC_BASE_URL"), "/"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("JWT_TTL"),
			JWKSURL:   v.GetString("JWKS_URL"),
		},
		HTTP: HTTPConfig{
			Port:           v.GetInt("PORT"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
			StaticDir:      v.GetString("STATIC_DIR"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Jobs: JobsConfig{
			SweepInterval: v.GetDuration("SWEEP_INTERVAL"),
		},
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("BUCKET_NAME environment variable is required")
	}
	if cfg.Auth.JWTSecret == "" {
		if cfg.App.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in production")
		}
		cfg.Auth.JWTSecret = random.String(32)
		cfg.Auth.GeneratedSecret = true
	}
	if cfg.Storage.PublicBaseURL == "" {
		scheme := "http"
		if cfg.Storage.UseSSL {
			scheme = "https"
		}
		cfg.Storage.PublicBaseURL = fmt.Sprintf("%s://%s", scheme, cfg.Storage.Endpoint)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "catena")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_ACCESS_KEY", "minioadmin")
	v.SetDefault("STORAGE_SECRET_KEY", "minioadmin")
	v.SetDefault("STORAGE_USE_SSL", false)
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("PORT", 3000)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SWEEP_INTERVAL", 15*time.Minute)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
