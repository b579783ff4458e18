package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "supersecretjwtkey"

type Config struct {
	Port                    string `mapstructure:"PORT"`
	Env                     string `mapstructure:"ENV"`
	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	FirebaseCheckRevoked    bool   `mapstructure:"FIREBASE_CHECK_REVOKED"`
	PostgresURL             string `mapstructure:"POSTGRES_CONN_STR"`
	MongoURI                string `mapstructure:"MONGO_URI"`
	MongoDB                 string `mapstructure:"MONGO_DB"`
	RedisURL                string `mapstructure:"REDIS_URL"`
	JWTSecret               string `mapstructure:"JWT_SECRET"`
	JWTTTLHours             int    `mapstructure:"JWT_TTL_HOURS"`
	MetricsPort             string `mapstructure:"METRICS_PORT"`
	MaxUploadMB             int64  `mapstructure:"MAX_UPLOAD_MB"`
}

// Load reads .env when present, then the process environment, applies defaults and validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	v.SetDefault("FIREBASE_CHECK_REVOKED", false)
	v.SetDefault("POSTGRES_CONN_STR", "")
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DB", "pixora")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL_HOURS", 72)
	v.SetDefault("METRICS_PORT", "9090")
	v.SetDefault("MAX_UPLOAD_MB", 10)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate ensures that required values are present
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.PostgresURL == "" {
		return errors.New("POSTGRES_CONN_STR is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTLHours <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("MAX_UPLOAD_MB must be positive")
	}
	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be a non-default secret of at least 32 characters in production")
		}
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required in production")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
