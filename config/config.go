package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	DefaultEnv                    = "development"
	DefaultPort                   = "4000"
	DefaultJWTExpiryHours         = 8
	DefaultSessionSecret          = "default_secret"
	DefaultSessionMaxAgeMinutes   = 60
	DefaultSessionCookieName      = "sid"
	DefaultRateLimitMax           = 10
	DefaultRateLimitWindowSeconds = 60
	DefaultBcryptCost             = 10
	DefaultLogLevel               = "info"
	DefaultCORSOrigins            = "*"
)

// requiredKeys must be present after file and environment are merged.
var requiredKeys = []string{"DB_URL"}

type Config struct {
	Env                    string `koanf:"env"`
	Port                   string `koanf:"port"`
	DBURL                  string `koanf:"db_url"`
	RedisURL               string `koanf:"redis_url"`
	JWTSecret              string `koanf:"jwt_secret"`
	JWTExpiryHours         int    `koanf:"jwt_expiry_hours"`
	SessionSecret          string `koanf:"session_secret"`
	SessionMaxAgeMinutes   int    `koanf:"session_max_age_minutes"`
	SessionCookieName      string `koanf:"session_cookie_name"`
	CookieSecure           bool   `koanf:"cookie_secure"`
	RateLimitMax           int    `koanf:"rate_limit_max"`
	RateLimitWindowSeconds int    `koanf:"rate_limit_window_seconds"`
	BcryptCost             int    `koanf:"bcrypt_cost"`
	LogLevel               string `koanf:"log_level"`
	LogPretty              bool   `koanf:"log_pretty"`
	CORSOrigins            string `koanf:"cors_origins"`
}

// Load reads config/config.<env>.yaml (if present) and lets environment
// variables override it. Missing required keys are fatal.
func Load() *Config {
	cfg, err := load(getEnv("ENV", DefaultEnv))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	for _, key := range requiredKeys {
		if cfg.lookup(key) == "" {
			log.Fatalf("Missing required config: %s", key)
		}
	}

	// Without a signing secret the server still starts; token issuance and
	// verification then fail per request with a configuration error.
	if cfg.JWTSecret == "" {
		log.Printf("JWT_SECRET not set, signup, login and authenticated routes will fail")
	}

	if cfg.SessionSecret == DefaultSessionSecret {
		log.Printf("SESSION_SECRET not set, using insecure development default")
	}

	return cfg
}

func load(envName string) (*Config, error) {
	k := koanf.New(".")

	path := filepath.Join("config", "config."+fileSuffix(envName)+".yaml")
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			if !knownKey(key) {
				return "", nil
			}
			return strings.ToLower(key), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables")
	}

	cfg := defaults()
	cfg.Env = envName
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Env:                    DefaultEnv,
		Port:                   DefaultPort,
		JWTExpiryHours:         DefaultJWTExpiryHours,
		SessionSecret:          DefaultSessionSecret,
		SessionMaxAgeMinutes:   DefaultSessionMaxAgeMinutes,
		SessionCookieName:      DefaultSessionCookieName,
		RateLimitMax:           DefaultRateLimitMax,
		RateLimitWindowSeconds: DefaultRateLimitWindowSeconds,
		BcryptCost:             DefaultBcryptCost,
		LogLevel:               DefaultLogLevel,
		CORSOrigins:            DefaultCORSOrigins,
	}
}

func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.SessionMaxAgeMinutes) * time.Minute
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func (c *Config) lookup(key string) string {
	switch key {
	case "DB_URL":
		return c.DBURL
	}
	return ""
}

func fileSuffix(envName string) string {
	switch envName {
	case "development":
		return "dev"
	case "production":
		return "prod"
	}
	return envName
}

func knownKey(key string) bool {
	switch key {
	case "PORT", "DB_URL", "REDIS_URL", "JWT_SECRET", "JWT_EXPIRY_HOURS",
		"SESSION_SECRET", "SESSION_MAX_AGE_MINUTES", "SESSION_COOKIE_NAME", "COOKIE_SECURE",
		"RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW_SECONDS", "BCRYPT_COST",
		"LOG_LEVEL", "LOG_PRETTY", "CORS_ORIGINS":
		return true
	}
	return false
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
