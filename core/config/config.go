package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	envFileOnce sync.Once

	cacheMu sync.RWMutex
	cache   = map[reflect.Type]any{}
)

// loadEnvFile loads a .env file from the working directory, once per
// process. A missing .env file is not an error — environment variables
// set outside the file are still honored by env.Parse.
func loadEnvFile() {
	envFileOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Load populates cfg from environment variables using caarlos0/env struct
// tags, caching the result per type so repeated calls for the same T
// return the first-loaded value instead of re-reading the environment.
func Load[T any](cfg *T) error {
	loadEnvFile()

	t := reflect.TypeOf(*cfg)

	cacheMu.RLock()
	if v, ok := cache[t]; ok {
		cacheMu.RUnlock()
		*cfg = v.(T)
		return nil
	}
	cacheMu.RUnlock()

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: failed to load %s: %w", t, err)
	}

	cacheMu.Lock()
	cache[t] = *cfg
	cacheMu.Unlock()

	return nil
}

// MustLoad is Load, panicking on failure. Intended for startup where a
// missing required variable should stop the process immediately.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Environment identifies the deployment tier the process is running in,
// read from the GOENV variable.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Env returns the current Environment, defaulting to Development when
// GOENV is unset or unrecognized.
func Env() Environment {
	loadEnvFile()

	switch strings.ToLower(os.Getenv("GOENV")) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	default:
		return Development
	}
}

// IsProduction reports whether Env() is Production.
func IsProduction() bool {
	return Env() == Production
}
