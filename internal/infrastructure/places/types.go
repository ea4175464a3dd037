package places

// Wire types for the Outscraper-compatible maps API. Field sets follow the
// upstream JSON, which is loose about naming: several fields have two spellings
// depending on endpoint version, both are kept and merged during normalization.

type searchPlace struct {
	PlaceID       string  `json:"place_id"`
	Name          string  `json:"name"`
	FullAddress   string  `json:"full_address"`
	Address       string  `json:"address"`
	Phone         string  `json:"phone"`
	Site          string  `json:"site"`
	Website       string  `json:"website"`
	GoogleMapsURL string  `json:"google_maps_url"`
	Link          string  `json:"link"`
	Rating        float64 `json:"rating"`
	Reviews       *int    `json:"reviews"`
	ReviewsCount  *int    `json:"reviews_count"`
}

type reviewsPlace struct {
	PlaceID     string       `json:"place_id"`
	ReviewsData []reviewData `json:"reviews_data"`
}

type reviewData struct {
	AuthorTitle       string  `json:"author_title"`
	ReviewRating      float64 `json:"review_rating"`
	ReviewText        string  `json:"review_text"`
	ReviewDatetimeUTC string  `json:"review_datetime_utc"`
	ReviewDate        string  `json:"review_date"`
	OwnerResponse     string  `json:"owner_response"`
	ResponseText      string  `json:"response_text"`
}

func (p searchPlace) address() string {
	if p.FullAddress != "" {
		return p.FullAddress
	}
	return p.Address
}

func (p searchPlace) website() string {
	if p.Site != "" {
		return p.Site
	}
	return p.Website
}

func (p searchPlace) mapsURL() string {
	if p.GoogleMapsURL != "" {
		return p.GoogleMapsURL
	}
	return p.Link
}

func (p searchPlace) reviewCount() int {
	if p.Reviews != nil {
		return *p.Reviews
	}
	if p.ReviewsCount != nil {
		return *p.ReviewsCount
	}
	return 0
}

func (r reviewData) ownerReply() string {
	if r.OwnerResponse != "" {
		return r.OwnerResponse
	}
	return r.ResponseText
}
