package utils

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// LoadEnv loads .env from the working directory, then overlays .env.<env>
// when an environment name is given. Missing files are reported so callers
// can decide whether defaults are acceptable.
func LoadEnv(env string) error {
	files := []string{".env"}
	if env != "" {
		files = append(files, ".env."+env)
	}

	loaded := 0
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Overload(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
		loaded++
	}
	if loaded == 0 {
		return fmt.Errorf("no .env file found")
	}
	return nil
}

// GetEnv returns the raw environment value for key.
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetIntEnv parses the environment value for key as int64, 0 when unset.
func GetIntEnv(key string) int64 {
	return cast.ToInt64(os.Getenv(key))
}

// GetBoolEnv parses the environment value for key as bool, false when unset.
func GetBoolEnv(key string) bool {
	return cast.ToBool(os.Getenv(key))
}
