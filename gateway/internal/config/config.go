package config

import (
	"log"
	"os"

	pkgconfig "github.com/Skotchmaster/internhub/pkg/config"
)

type Config struct {
	ListenAddr string
	AuthURL    string
	APIURL     string
	LogLevel   string
	Tokens     pkgconfig.Tokens
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

// Load needs both token secrets: the gateway verifies access tokens itself and
// checks refresh cookies before asking the auth service for a new token.
func Load() *Config {
	tokens, err := pkgconfig.LoadTokens()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return &Config{
		ListenAddr: pkgconfig.EnvDefault("GATEWAY_ADDR", ":8080"),
		AuthURL:    must(os.Getenv("AUTH_URL"), "AUTH_URL"),
		APIURL:     must(os.Getenv("API_URL"), "API_URL"),
		LogLevel:   os.Getenv("LOG_LEVEL"),
		Tokens:     tokens,
	}
}
