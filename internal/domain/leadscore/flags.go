package leadscore

import (
	"strings"

	"reviewhunter/internal/domain/entity"
)

// highValueIndustries are the verticals where review management sells best.
//
//nolint:gochecknoglobals
var highValueIndustries = map[string]struct{}{
	"dentist":       {},
	"zahnarzt":      {},
	"doctor":        {},
	"arzt":          {},
	"lawyer":        {},
	"anwalt":        {},
	"tax advisor":   {},
	"steuerberater": {},
}

// Flags derives the pain flags for a business. Flags are informational and do
// not feed into the score.
func Flags(b entity.Business) []entity.Flag {
	var flags []entity.Flag

	if b.Rating != nil && *b.Rating < 4.0 {
		flags = append(flags, entity.FlagLowRating)
	}

	if b.UnansweredShare() > 0.5 {
		flags = append(flags, entity.FlagUnresponsive)
	}

	if b.ReviewCount >= 50 {
		flags = append(flags, entity.FlagHighVolume)
	}

	if _, ok := highValueIndustries[strings.ToLower(strings.TrimSpace(b.Industry))]; ok {
		flags = append(flags, entity.FlagHighValue)
	}

	return flags
}
