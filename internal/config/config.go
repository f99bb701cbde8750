package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	minSecretKeyLength = 32

	developmentSecretKey = "vitalink-development-only-secret-key"
)

var (
	ErrSecretKeyRequired = errors.New("SECRET_KEY is required outside development")
	ErrSecretKeyInsecure = errors.New("SECRET_KEY uses an insecure placeholder value")
	ErrSecretKeyTooShort = fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
	"secret":                                     {},
}

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	DBPath         string        `mapstructure:"DB_PATH"`
	SecretKey      string        `mapstructure:"SECRET_KEY"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`
	TimeZone       string        `mapstructure:"TZ"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	UploadDir      string        `mapstructure:"UPLOAD_DIR"`
	MaxUploadBytes int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	DigestAt       string        `mapstructure:"DIGEST_AT"`
	DigestEnabled  bool          `mapstructure:"DIGEST_ENABLED"`
	LoginRate      float64       `mapstructure:"LOGIN_RATE"`
	LoginBurst     int64         `mapstructure:"LOGIN_BURST"`
}

var configKeys = []string{
	"PORT",
	"ENV",
	"DB_PATH",
	"SECRET_KEY",
	"TOKEN_TTL",
	"TZ",
	"LOG_LEVEL",
	"UPLOAD_DIR",
	"MAX_UPLOAD_BYTES",
	"DIGEST_AT",
	"DIGEST_ENABLED",
	"LOGIN_RATE",
	"LOGIN_BURST",
}

// Load reads an optional .env file into the process environment and then
// resolves every key from the environment with defaults applied.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("DB_PATH", "data/vitalink.db")
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("TZ", "UTC")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("UPLOAD_DIR", "data/uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", 10*1024*1024)
	v.SetDefault("DIGEST_AT", "07:00")
	v.SetDefault("DIGEST_ENABLED", true)
	// Login attempts refill at LOGIN_RATE tokens per second up to LOGIN_BURST.
	v.SetDefault("LOGIN_RATE", 5.0/60.0)
	v.SetDefault("LOGIN_BURST", 5)

	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)
	if cfg.SecretKey == "" && cfg.IsDev() {
		cfg.SecretKey = developmentSecretKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("ENV must be %q, %q or %q, got %q", EnvDevelopment, EnvProduction, EnvTest, c.Env)
	}

	port, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %q", c.Port)
	}

	if err := validateSecretKey(c.SecretKey, c.IsDev()); err != nil {
		return err
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("TZ %q is not a known time zone: %w", c.TimeZone, err)
	}

	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.LogLevel)
	}

	if _, err := time.Parse("15:04", strings.TrimSpace(c.DigestAt)); err != nil {
		return fmt.Errorf("DIGEST_AT must be HH:MM, got %q", c.DigestAt)
	}

	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("DB_PATH is required")
	}
	if strings.TrimSpace(c.UploadDir) == "" {
		return errors.New("UPLOAD_DIR is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.LoginRate <= 0 || c.LoginBurst <= 0 {
		return errors.New("LOGIN_RATE and LOGIN_BURST must be positive")
	}

	return nil
}

// Location returns the zone that defines "today" for every dose computation.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return location
}

func validateSecretKey(secret string, development bool) error {
	if development && secret == developmentSecretKey {
		return nil
	}
	if secret == "" {
		return ErrSecretKeyRequired
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return ErrSecretKeyInsecure
	}
	if len(secret) < minSecretKeyLength {
		return ErrSecretKeyTooShort
	}
	return nil
}
