package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

const (
	EnvAccessSecret    = "ACCESS_TOKEN_SECRET"
	EnvRefreshSecret   = "REFRESH_TOKEN_SECRET"
	EnvAccessLifespan  = "ACCESS_TOKEN_LIFESPAN_MINUTES"
	EnvRefreshLifespan = "REFRESH_TOKEN_LIFESPAN_MINUTES"
)

// Tokens holds the secrets and lifespans of both token families. It is built
// once at startup and passed by value to whoever signs or verifies tokens.
type Tokens struct {
	AccessSecret    []byte
	RefreshSecret   []byte
	AccessLifespan  time.Duration
	RefreshLifespan time.Duration
}

func (t Tokens) Validate() error {
	if len(t.AccessSecret) == 0 {
		return fmt.Errorf("%s is empty: %w", EnvAccessSecret, ErrInvalidConfiguration)
	}
	if len(t.RefreshSecret) == 0 {
		return fmt.Errorf("%s is empty: %w", EnvRefreshSecret, ErrInvalidConfiguration)
	}
	if t.AccessLifespan <= 0 {
		return fmt.Errorf("%s must be positive: %w", EnvAccessLifespan, ErrInvalidConfiguration)
	}
	if t.RefreshLifespan <= 0 {
		return fmt.Errorf("%s must be positive: %w", EnvRefreshLifespan, ErrInvalidConfiguration)
	}
	return nil
}

type Config struct {
	ServiceName string

	ServerPort int

	DatabaseURL string

	LogLevel string

	Tokens Tokens

	KafkaBrokers []string
	EventsTopic  string

	CookieSecure     bool
	AllowMissingPost bool
}

// Load reads the environment. Token settings are validated here so a missing
// secret or lifespan stops the process before anything is served.
func Load() (Config, error) {
	tokens, err := LoadTokens()
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "auth"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		LogLevel: os.Getenv("LOG_LEVEL"),

		Tokens: tokens,

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:  EnvDefault("SESSION_EVENTS_TOPIC", "session_events"),

		CookieSecure:     EnvBoolDefault("COOKIE_SECURE", true),
		AllowMissingPost: EnvBoolDefault("ALLOW_MISSING_POST", true),
	}, nil
}

func LoadTokens() (Tokens, error) {
	accessMin, err := envMinutes(EnvAccessLifespan)
	if err != nil {
		return Tokens{}, err
	}
	refreshMin, err := envMinutes(EnvRefreshLifespan)
	if err != nil {
		return Tokens{}, err
	}

	t := Tokens{
		AccessSecret:    []byte(os.Getenv(EnvAccessSecret)),
		RefreshSecret:   []byte(os.Getenv(EnvRefreshSecret)),
		AccessLifespan:  accessMin,
		RefreshLifespan: refreshMin,
	}
	if err := t.Validate(); err != nil {
		return Tokens{}, err
	}
	return t, nil
}

func envMinutes(key string) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is missing: %w", key, ErrInvalidConfiguration)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q: %w", key, v, ErrInvalidConfiguration)
	}
	return time.Duration(n) * time.Minute, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
