package rest

import "time"

// HuntRequest starts a lead hunt for one industry in one city.
type HuntRequest struct {
	Industry        string `json:"industry" validate:"required"`
	City            string `json:"city" validate:"required"`
	Limit           int    `json:"limit" validate:"omitempty,min=1,max=100"`
	ReviewsPerPlace int    `json:"reviewsPerPlace" validate:"omitempty,min=1,max=50"`
	Async           bool   `json:"async"`
}

type Hunt struct {
	ID           string       `json:"id"`
	Industry     string       `json:"industry"`
	City         string       `json:"city"`
	Status       string       `json:"status"`
	PartialCount int          `json:"partialCount"`
	Error        string       `json:"error,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	Summary      *HuntSummary `json:"summary,omitempty"`
	Leads        []Lead       `json:"leads,omitempty"`
}

type HuntSummary struct {
	Businesses    int     `json:"businesses"`
	AverageRating float64 `json:"averageRating"`
	AverageScore  float64 `json:"averageScore"`
	HotLeads      int     `json:"hotLeads"`
}

type Lead struct {
	PlaceID         string   `json:"placeId"`
	Name            string   `json:"name"`
	Address         string   `json:"address,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Website         string   `json:"website,omitempty"`
	MapsURL         string   `json:"mapsUrl,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	ReviewCount     int      `json:"reviewCount"`
	UnansweredCount int      `json:"unansweredCount"`
	Score           int      `json:"score"`
	Tier            string   `json:"tier"`
	Flags           []string `json:"flags,omitempty"`
	Partial         bool     `json:"partial,omitempty"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
