package config

import (
	"log/slog"
	"time"
)

type LogLeveler string

func (l LogLeveler) Level() slog.Level {
	var level slog.Level

	_ = level.UnmarshalText([]byte(l))

	return level
}

// Config holds the server configuration.
type Config struct {
	LogLevel   LogLeveler `mapstructure:"LOG_LEVEL"`
	HTTP       HTTP       `mapstructure:",squash"`
	Redis      Redis      `mapstructure:",squash"`
	Skyscanner Skyscanner `mapstructure:",squash"`
}

type HTTP struct {
	Port    int           `mapstructure:"HTTP_PORT"`
	Timeout time.Duration `mapstructure:"HTTP_TIMEOUT"`
}

type Redis struct {
	Addr     string        `mapstructure:"REDIS_ADDR"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	Timeout  time.Duration `mapstructure:"REDIS_TIMEOUT"`
}

// Skyscanner holds the upstream client configuration. PXAuthorization is the
// pre-provisioned PerimeterX token sent with every request.
type Skyscanner struct {
	Locale             string        `mapstructure:"SKYSCANNER_LOCALE"`
	Currency           string        `mapstructure:"SKYSCANNER_CURRENCY"`
	Market             string        `mapstructure:"SKYSCANNER_MARKET"`
	RetryDelay         time.Duration `mapstructure:"SKYSCANNER_RETRY_DELAY"`
	MaxRetries         int           `mapstructure:"SKYSCANNER_MAX_RETRIES"`
	Proxy              string        `mapstructure:"SKYSCANNER_PROXY"`
	PXAuthorization    string        `mapstructure:"SKYSCANNER_PX_AUTHORIZATION"`
	InsecureSkipVerify bool          `mapstructure:"SKYSCANNER_INSECURE_SKIP_VERIFY"`
	RateLimitRPS       int           `mapstructure:"SKYSCANNER_RATE_LIMIT"`
	ResultExpiration   time.Duration `mapstructure:"SKYSCANNER_RESULT_EXPIRATION"`
	LockTimeout        time.Duration `mapstructure:"SKYSCANNER_LOCK_TIMEOUT"`
}
