// Package leadscore computes the lead score: an integer 0-100 estimating how
// much a business would benefit from better review management. The score is a
// pure function of (rating, review count, unanswered count); it never fails.
package leadscore

import "reviewhunter/internal/domain/entity"

// Config holds the tunable scoring parameters. Zero value is not usable,
// construct with DefaultConfig and override fields as needed.
type Config struct {
	// HotThreshold and WarmThreshold split scores into tiers:
	// score >= HotThreshold is HOT, >= WarmThreshold is WARM, below is LOW.
	HotThreshold  int
	WarmThreshold int

	// RatingNeutralPoints is awarded when a business has no rating at all.
	// Absence is neither evidence of mismanagement nor against it.
	RatingNeutralPoints int

	// LowEvidenceReviews halves the rating factor below this review count:
	// a bad rating over a handful of reviews is weak evidence.
	LowEvidenceReviews int
}

func DefaultConfig() Config {
	return Config{
		HotThreshold:        70,
		WarmThreshold:       40,
		RatingNeutralPoints: 17,
		LowEvidenceReviews:  10,
	}
}

// Breakdown exposes the per-factor points behind a score.
type Breakdown struct {
	Response int `json:"response"`
	Rating   int `json:"rating"`
	Volume   int `json:"volume"`
	Total    int `json:"total"`
}

// Score computes the lead score for a business. Malformed counts are
// normalized instead of rejected: the function is total.
//
// Three factors, summing to at most 100:
//   - response (max 40): share of unanswered reviews, banded;
//   - rating (max 35): the lower the rating the more points, 4.0+ scores zero;
//   - volume (max 25): review count with diminishing returns.
func (c Config) Score(b entity.Business) (int, Breakdown) {
	count := b.ReviewCount
	if count < 0 {
		count = 0
	}

	unanswered := b.UnansweredCount
	if unanswered < 0 {
		unanswered = 0
	}
	if unanswered > count {
		unanswered = count
	}

	var share float64
	if count > 0 {
		share = float64(unanswered) / float64(count)
	}

	response := responsePoints(share)

	rating := c.ratingPoints(b.Rating)
	if count < c.LowEvidenceReviews {
		rating /= 2
	}

	volume := volumePoints(count)

	total := response + rating + volume
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return total, Breakdown{
		Response: response,
		Rating:   rating,
		Volume:   volume,
		Total:    total,
	}
}

// TierFor buckets a score. Pure threshold lookup, no hysteresis.
func (c Config) TierFor(score int) entity.Tier {
	switch {
	case score >= c.HotThreshold:
		return entity.TierHot
	case score >= c.WarmThreshold:
		return entity.TierWarm
	default:
		return entity.TierLow
	}
}

func responsePoints(share float64) int {
	switch {
	case share <= 0:
		return 0
	case share <= 0.25:
		return 12
	case share <= 0.50:
		return 24
	case share <= 0.75:
		return 33
	default:
		return 40
	}
}

func (c Config) ratingPoints(rating *float64) int {
	if rating == nil {
		return c.RatingNeutralPoints
	}

	switch r := *rating; {
	case r < 2.0:
		return 35
	case r < 2.5:
		return 30
	case r < 3.0:
		return 25
	case r < 3.5:
		return 18
	case r < 4.0:
		return 10
	default:
		return 0
	}
}

func volumePoints(count int) int {
	switch {
	case count >= 100:
		return 25
	case count >= 31:
		return 19
	case count >= 10:
		return 12
	case count >= 5:
		return 6
	default:
		return 0
	}
}
