package entity

import "time"

type HuntStatus string

const (
	HuntStatusPending HuntStatus = "pending"
	HuntStatusRunning HuntStatus = "running"
	HuntStatusDone    HuntStatus = "done"
	HuntStatusFailed  HuntStatus = "failed"
)

// Hunt is one stored lead search: the query, its lifecycle status and, once
// finished, the scored leads ordered by score descending.
type Hunt struct {
	ID              string     `json:"id"`
	Industry        string     `json:"industry"`
	City            string     `json:"city"`
	Limit           int        `json:"limit"`
	ReviewsPerPlace int        `json:"reviews_per_place"`
	Status          HuntStatus `json:"status"`
	PartialCount    int        `json:"partial_count"`
	Error           string     `json:"error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Leads []Lead `json:"leads,omitempty"`
}

// HuntSummary aggregates a finished hunt for display.
type HuntSummary struct {
	Businesses    int     `json:"businesses"`
	AverageRating float64 `json:"average_rating"`
	AverageScore  float64 `json:"average_score"`
	HotLeads      int     `json:"hot_leads"`
}

// Summarize computes the summary over a set of leads.
func Summarize(leads []Lead) HuntSummary {
	summary := HuntSummary{Businesses: len(leads)}

	if len(leads) == 0 {
		return summary
	}

	var ratingSum float64
	var rated int
	var scoreSum int

	for _, lead := range leads {
		if lead.Business.Rating != nil {
			ratingSum += *lead.Business.Rating
			rated++
		}

		scoreSum += lead.Score

		if lead.Tier == TierHot {
			summary.HotLeads++
		}
	}

	if rated > 0 {
		summary.AverageRating = ratingSum / float64(rated)
	}

	summary.AverageScore = float64(scoreSum) / float64(len(leads))

	return summary
}
