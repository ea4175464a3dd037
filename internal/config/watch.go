package config

import (
	"fmt"
	"strings"
	"time"
)

// Watch configures the optional background re-hunting of saved queries.
// Targets use the form "industry@city", e.g. "dentist@Bochum".
type Watch struct {
	Enabled  bool          `env:"WATCH_ENABLED" envDefault:"false"`
	Targets  []string      `env:"WATCH_TARGETS" envSeparator:","`
	Interval time.Duration `env:"WATCH_INTERVAL" envDefault:"6h"`

	// Pace is the pause between consecutive hunts within one cycle.
	Pace time.Duration `env:"WATCH_PACE" envDefault:"30s"`

	// AlertTTL suppresses repeat alerts for the same place.
	AlertTTL time.Duration `env:"WATCH_ALERT_TTL" envDefault:"168h"`
}

// Target is one parsed watch entry.
type Target struct {
	Industry string
	City     string
}

func (w Watch) ParseTargets() ([]Target, error) {
	targets := make([]Target, 0, len(w.Targets))

	for _, raw := range w.Targets {
		industry, city, ok := strings.Cut(raw, "@")
		if !ok || industry == "" || city == "" {
			return nil, fmt.Errorf("invalid watch target %q, want industry@city", raw)
		}

		targets = append(targets, Target{
			Industry: strings.TrimSpace(industry),
			City:     strings.TrimSpace(city),
		})
	}

	return targets, nil
}
