package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads the given .env files if present. A missing file is only a
// notice; real deployments pass the environment directly.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Printf("notice: .env not loaded: %v. Using system environment variables", err)
	}
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
