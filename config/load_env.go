package config

import (
	"log/slog"
	"os"

	"github.com/subosito/gotenv"
)

const ENV_DIR = "config/envs"

// LoadEnv loads config/envs/.env.<env> into the process environment. Values
// already present in the environment win.
func LoadEnv(env string) {
	envFile := ENV_DIR + "/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}

// AppEnv returns APP_ENV, defaulting to dev.
func AppEnv() string {
	return GetEnv("APP_ENV", "dev")
}

func GetEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}
