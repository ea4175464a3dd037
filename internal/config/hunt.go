package config

// Hunt holds default query limits and fan-out settings.
type Hunt struct {
	DefaultLimit           int `env:"HUNT_DEFAULT_LIMIT" envDefault:"20"`
	DefaultReviewsPerPlace int `env:"HUNT_DEFAULT_REVIEWS_PER_PLACE" envDefault:"20"`

	// Concurrency bounds the parallel review fetches per hunt.
	Concurrency int `env:"HUNT_CONCURRENCY" envDefault:"4"`
}
