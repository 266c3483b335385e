package config

import (
	"log"

	pkgconfig "github.com/Skotchmaster/internhub/pkg/config"
)

// Load reads .env (when present) and the environment for the auth service.
// Any configuration error stops the process.
func Load(dotenv ...string) pkgconfig.Config {
	pkgconfig.LoadDotEnv(dotenv...)

	cfg, err := pkgconfig.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	return cfg
}
