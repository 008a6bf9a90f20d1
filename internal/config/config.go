// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	// Load .env file to environments
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// Database drivers understood by the database package.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds every setting the API and the command line tools read.
type Config struct {
	Port int

	DB DBSettings

	SecretKey string
	TokenTTL  time.Duration

	AllowOrigins       []string
	RateLimitPerSecond uint
	StatusTransitions  string

	LogLevel  string
	LogPretty bool

	RedisAddr     string
	RedisPassword string

	GCSBucket      string
	UploadDir      string
	MaxUploadBytes int64

	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string

	AdminEmail    string
	AdminPassword string
}

// DBSettings describe how to reach the database.
type DBSettings struct {
	Driver        string
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	UseConnString bool
	ConnString    string
	SQLitePath    string
}

var errMissingSecret = errors.New("SECRET_KEY must be set")

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("USE_CONNECTION_STR", false)
	v.SetDefault("SQLITE_PATH", "ats.db")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("ALLOW_ORIGIN", "http://localhost:4200")
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 5)
	v.SetDefault("STATUS_TRANSITIONS", "strict")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
}

// Load reads the configuration from environment variables, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := fromViper(v)
	if cfg.SecretKey == "" {
		return nil, errMissingSecret
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase reads only the database settings. Command line tools use it
// when they never issue tokens.
func LoadDatabase() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := fromViper(v)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	rate := v.GetInt("RATE_LIMIT_REQUESTS_PER_SECOND")
	if rate <= 0 {
		rate = 5
	}

	ttl := v.GetDuration("TOKEN_TTL")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Config{
		Port: v.GetInt("PORT"),
		DB: DBSettings{
			Driver:        strings.ToLower(v.GetString("DB_DRIVER")),
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetString("DB_PORT"),
			User:          v.GetString("DB_USERNAME"),
			Password:      v.GetString("DB_PASSWORD"),
			Name:          v.GetString("DB_DATABASE"),
			UseConnString: v.GetBool("USE_CONNECTION_STR"),
			ConnString:    v.GetString("DB_CONNECTION_STR"),
			SQLitePath:    v.GetString("SQLITE_PATH"),
		},
		SecretKey:          v.GetString("SECRET_KEY"),
		TokenTTL:           ttl,
		AllowOrigins:       splitList(v.GetString("ALLOW_ORIGIN")),
		RateLimitPerSecond: uint(rate),
		StatusTransitions:  strings.ToLower(v.GetString("STATUS_TRANSITIONS")),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogPretty:          v.GetBool("LOG_PRETTY"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		GCSBucket:          v.GetString("GCS_BUCKET"),
		UploadDir:          v.GetString("UPLOAD_DIR"),
		MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_BYTES"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		OAuthRedirectURL:   v.GetString("OAUTH_REDIRECT_URL"),
		AdminEmail:         v.GetString("ADMIN_EMAIL"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
	}
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	switch c.StatusTransitions {
	case "strict", "open":
	default:
		return fmt.Errorf("STATUS_TRANSITIONS must be strict or open, got %q", c.StatusTransitions)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
