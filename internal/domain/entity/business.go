package entity

// Business is a normalized place record built from one upstream search result
// plus its fetched reviews. It is immutable once the hunt pipeline has
// finished constructing it.
type Business struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Address  string `json:"address"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
	MapsURL  string `json:"maps_url,omitempty"`

	// Rating is nil when the business has no ratings at all.
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount int      `json:"review_count"`

	// UnansweredCount is the number of reviews with no owner reply,
	// extrapolated to ReviewCount when only a sample of reviews was
	// inspected. Always <= ReviewCount.
	UnansweredCount int `json:"unanswered_count"`

	// ReviewsSampled is how many reviews were actually fetched and inspected.
	ReviewsSampled int `json:"reviews_sampled"`
}

// UnansweredShare returns the proportion of unanswered reviews, 0 when the
// business has no reviews.
func (b Business) UnansweredShare() float64 {
	if b.ReviewCount <= 0 {
		return 0
	}

	return float64(b.UnansweredCount) / float64(b.ReviewCount)
}
