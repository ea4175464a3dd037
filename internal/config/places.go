package config

import "time"

// Places configures the upstream maps API client.
type Places struct {
	APIKey   string        `env:"PLACES_API_KEY,required" json:"-"`
	BaseURL  string        `env:"PLACES_BASE_URL" envDefault:"https://api.app.outscraper.com"`
	Language string        `env:"PLACES_LANGUAGE" envDefault:"en"`
	Region   string        `env:"PLACES_REGION"`
	Timeout  time.Duration `env:"PLACES_TIMEOUT" envDefault:"60s"`

	// DailyBudget caps upstream calls per UTC day, 0 means unlimited.
	DailyBudget int `env:"PLACES_DAILY_BUDGET" envDefault:"0"`

	LogFieldMaxLen int `env:"PLACES_LOG_FIELD_MAX_LEN" envDefault:"2048"`
}
