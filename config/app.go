package config

import "time"

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	// Borrowing defaults; callers may shorten or extend per request.
	LoanPeriodDays int           `env:"LOAN_PERIOD_DAYS" default:"14"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" default:"10m"`

	// Cover-image object store, addressed by URL convention.
	CoverEndpoint string `env:"COVER_ENDPOINT"`
	CoverBucket   string `env:"COVER_BUCKET" default:"covers"`
}
