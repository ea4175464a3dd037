package entity

import "time"

// Review is a single customer review as reported by the places API.
type Review struct {
	Author     string    `json:"author,omitempty"`
	Rating     int       `json:"rating"`
	Text       string    `json:"text,omitempty"`
	PostedAt   time.Time `json:"posted_at"`
	OwnerReply string    `json:"owner_reply,omitempty"`
}

// Answered reports whether the business owner replied to the review.
func (r Review) Answered() bool {
	return r.OwnerReply != ""
}
