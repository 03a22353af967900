package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

func Load() App {
	cfg := App{
		Port:           getenv("APP_PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      getenv("JWT_SECRET", "local_dev_secret"),
		Env:            getenv("APP_ENV", "dev"),
		LoanPeriodDays: getint("LOAN_PERIOD_DAYS", 14),
		SweepInterval:  getdur("SWEEP_INTERVAL", 10*time.Minute),
		CoverEndpoint:  os.Getenv("COVER_ENDPOINT"),
		CoverBucket:    getenv("COVER_BUCKET", "covers"),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring bad int env", "key", k, "value", v)
		return def
	}
	return n
}

func getdur(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("ignoring bad duration env", "key", k, "value", v)
		return def
	}
	return d
}
