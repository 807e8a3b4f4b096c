package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads dir/.env and then dir/.env.$APP_ENV into the process
// environment. Values from .env never replace variables that are already
// set; the APP_ENV file overrides both. Missing files are skipped. The
// loaded file paths are returned.
func LoadEnv(dir string) ([]string, error) {
	var loaded []string

	base := filepath.Join(dir, ".env")
	if err := godotenv.Load(base); err == nil {
		loaded = append(loaded, base)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return loaded, fmt.Errorf("failed to load %s: %w", base, err)
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		return loaded, nil
	}

	envFile := filepath.Join(dir, ".env."+appEnv)
	if err := godotenv.Overload(envFile); err == nil {
		loaded = append(loaded, envFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return loaded, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	return loaded, nil
}
