package persistence

import (
	"database/sql"
	"encoding/json"
	"time"

	"reviewhunter/internal/domain/entity"
)

// huntSchema maps a row of the hunts table.
type huntSchema struct {
	ID              string    `db:"id"`
	Industry        string    `db:"industry"`
	City            string    `db:"city"`
	LimitPlaces     int       `db:"limit_places"`
	ReviewsPerPlace int       `db:"reviews_per_place"`
	Status          string    `db:"status"`
	PartialCount    int       `db:"partial_count"`
	Error           string    `db:"error"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (s *huntSchema) toDomain() *entity.Hunt {
	return &entity.Hunt{
		ID:              s.ID,
		Industry:        s.Industry,
		City:            s.City,
		Limit:           s.LimitPlaces,
		ReviewsPerPlace: s.ReviewsPerPlace,
		Status:          entity.HuntStatus(s.Status),
		PartialCount:    s.PartialCount,
		Error:           s.Error,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// leadSchema maps a row of the leads table. Position preserves the score
// ordering computed by the hunt.
type leadSchema struct {
	HuntID          string          `db:"hunt_id"`
	Position        int             `db:"position"`
	PlaceID         string          `db:"place_id"`
	Name            string          `db:"name"`
	Industry        string          `db:"industry"`
	Address         string          `db:"address"`
	Phone           string          `db:"phone"`
	Website         string          `db:"website"`
	MapsURL         string          `db:"maps_url"`
	Rating          sql.NullFloat64 `db:"rating"`
	ReviewCount     int             `db:"review_count"`
	UnansweredCount int             `db:"unanswered_count"`
	ReviewsSampled  int             `db:"reviews_sampled"`
	Score           int             `db:"score"`
	Tier            string          `db:"tier"`
	Flags           []byte          `db:"flags"`
	Partial         bool            `db:"partial"`
}

func fromLead(huntID string, position int, lead entity.Lead) (*leadSchema, error) {
	flags, err := json.Marshal(lead.Flags)
	if err != nil {
		return nil, err
	}

	schema := &leadSchema{
		HuntID:          huntID,
		Position:        position,
		PlaceID:         lead.Business.PlaceID,
		Name:            lead.Business.Name,
		Industry:        lead.Business.Industry,
		Address:         lead.Business.Address,
		Phone:           lead.Business.Phone,
		Website:         lead.Business.Website,
		MapsURL:         lead.Business.MapsURL,
		ReviewCount:     lead.Business.ReviewCount,
		UnansweredCount: lead.Business.UnansweredCount,
		ReviewsSampled:  lead.Business.ReviewsSampled,
		Score:           lead.Score,
		Tier:            string(lead.Tier),
		Flags:           flags,
		Partial:         lead.Partial,
	}

	if lead.Business.Rating != nil {
		schema.Rating = sql.NullFloat64{Float64: *lead.Business.Rating, Valid: true}
	}

	return schema, nil
}

func (s *leadSchema) toDomain() (entity.Lead, error) {
	var flags []entity.Flag
	if len(s.Flags) > 0 {
		if err := json.Unmarshal(s.Flags, &flags); err != nil {
			return entity.Lead{}, err
		}
	}

	lead := entity.Lead{
		Business: entity.Business{
			PlaceID:         s.PlaceID,
			Name:            s.Name,
			Industry:        s.Industry,
			Address:         s.Address,
			Phone:           s.Phone,
			Website:         s.Website,
			MapsURL:         s.MapsURL,
			ReviewCount:     s.ReviewCount,
			UnansweredCount: s.UnansweredCount,
			ReviewsSampled:  s.ReviewsSampled,
		},
		Score:   s.Score,
		Tier:    entity.Tier(s.Tier),
		Flags:   flags,
		Partial: s.Partial,
	}

	if s.Rating.Valid {
		rating := s.Rating.Float64
		lead.Business.Rating = &rating
	}

	return lead, nil
}
