// Package config loads solver tuning knobs from .env/environment
// variables, following noah-isme-sma-adp-api/pkg/config's
// godotenv-then-viper pattern. cobra flags in cmd/timetable take
// precedence over whatever this package resolves — this only
// supplies the defaults a flag wasn't explicitly set for.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every tunable the solver and CLI read at startup.
type Config struct {
	Workers    int
	TimeBudget time.Duration
	Seed       int64
	BestEffort bool
	LogEnv     string
	LogLevel   string
}

// Load reads a .env file if present (a missing file is not an error —
// godotenv.Load's error is ignored exactly as
// noah-isme-sma-adp-api/pkg/config does), then layers environment
// variables over a set of defaults via viper.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TIMETABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Workers:    v.GetInt("workers"),
		TimeBudget: parseDuration(v.GetString("time_budget"), 60*time.Second),
		Seed:       v.GetInt64("seed"),
		BestEffort: v.GetBool("best_effort"),
		LogEnv:     v.GetString("log_env"),
		LogLevel:   v.GetString("log_level"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("workers", 0) // 0 means "let timesolver pick runtime.NumCPU()"
	v.SetDefault("time_budget", "60s")
	v.SetDefault("seed", 42)
	v.SetDefault("best_effort", false)
	v.SetDefault("log_env", "development")
	v.SetDefault("log_level", "info")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
