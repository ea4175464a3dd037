package entity

// Tier buckets a lead score into a sales category.
type Tier string

const (
	TierHot  Tier = "HOT"
	TierWarm Tier = "WARM"
	TierLow  Tier = "LOW"
)

// Flag marks a specific pain point of a business, independent of the score.
type Flag string

const (
	FlagLowRating    Flag = "LOW_RATING"   // rating present and below 4.0
	FlagUnresponsive Flag = "UNRESPONSIVE" // more than half of reviews unanswered
	FlagHighVolume   Flag = "HIGH_VOLUME"  // 50 or more reviews
	FlagHighValue    Flag = "HIGH_VALUE"   // high-value industry
)

// Lead is a scored business.
type Lead struct {
	Business Business `json:"business"`
	Score    int      `json:"score"`
	Tier     Tier     `json:"tier"`
	Flags    []Flag   `json:"flags,omitempty"`

	// Partial is set when the review fetch for this business failed and the
	// lead was scored from the search summary alone.
	Partial bool `json:"partial,omitempty"`
}
