package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads .env.local and then .env. godotenv never overwrites a
// variable that is already set, so OS-level environment always wins and
// .env.local takes precedence over .env. The files found on disk are
// returned for startup logging.
func LoadDotEnv() []string {
	var found []string
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			found = append(found, name)
		}
	}
	if len(found) > 0 {
		_ = godotenv.Load(found...)
	}
	return found
}
