// Package config handles configuration loading for the library service.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the library service.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	OTPTTL      time.Duration
	OTPEchoCode bool

	PasswordPepper  string
	JWTSecret       string
	JWTAccessExpiry time.Duration
	AuthEnforce     bool

	LoanPeriod time.Duration

	AllowedOrigins []string
	CookieSecure   bool
	CookieDomain   string
}

// Load reads configuration from environment variables and, when CONFIG_FILE
// is set, from that file. Environment values win over file values.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),
		DBPath:     v.GetString("DB_PATH"),

		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetInt("SMTP_PORT"),
		SMTPUsername: v.GetString("SMTP_USERNAME"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		MailFrom:     v.GetString("MAIL_FROM"),

		OTPTTL:      parseDuration(v.GetString("OTP_TTL"), 10*time.Minute),
		OTPEchoCode: v.GetBool("OTP_ECHO_CODE"),

		PasswordPepper:  v.GetString("PASSWORD_PEPPER"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTAccessExpiry: parseDuration(v.GetString("JWT_ACCESS_EXPIRY"), 15*time.Minute),
		AuthEnforce:     v.GetBool("AUTH_ENFORCE"),

		LoanPeriod: parseDuration(v.GetString("LOAN_PERIOD"), 14*24*time.Hour),

		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		CookieSecure:   v.GetBool("COOKIE_SECURE"),
		CookieDomain:   v.GetString("COOKIE_DOMAIN"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every required setting that is missing for the selected
// database driver and feature set.
func (c *Config) Validate() error {
	var missing []string
	require := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	switch c.DBDriver {
	case DriverPostgres:
		require("DB_HOST", c.DBHost)
		require("DB_PORT", c.DBPort)
		require("DB_USER", c.DBUser)
		require("DB_PASSWORD", c.DBPassword)
		require("DB_NAME", c.DBName)
	case DriverSQLite:
		require("DB_PATH", c.DBPath)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	require("REDIS_HOST", c.RedisHost)
	require("REDIS_PORT", c.RedisPort)
	require("SMTP_HOST", c.SMTPHost)
	require("MAIL_FROM", c.MailFrom)
	require("PASSWORD_PEPPER", c.PasswordPepper)
	require("JWT_SECRET", c.JWTSecret)

	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "library.db")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("OTP_ECHO_CODE", false)
	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("AUTH_ENFORCE", false)
	v.SetDefault("LOAN_PERIOD", "336h")
	v.SetDefault("COOKIE_SECURE", false)
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
