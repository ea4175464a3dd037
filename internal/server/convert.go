package server

import (
	"reviewhunter/internal/domain/entity"
	"reviewhunter/pkg/lox"
	"reviewhunter/pkg/rest"
)

func newRESTLead(lead entity.Lead) rest.Lead {
	return rest.Lead{
		PlaceID:         lead.Business.PlaceID,
		Name:            lead.Business.Name,
		Address:         lead.Business.Address,
		Phone:           lead.Business.Phone,
		Website:         lead.Business.Website,
		MapsURL:         lead.Business.MapsURL,
		Rating:          lead.Business.Rating,
		ReviewCount:     lead.Business.ReviewCount,
		UnansweredCount: lead.Business.UnansweredCount,
		Score:           lead.Score,
		Tier:            string(lead.Tier),
		Flags: lox.Map(lead.Flags, func(flag entity.Flag) string {
			return string(flag)
		}),
		Partial: lead.Partial,
	}
}

func newRESTHunt(hunt *entity.Hunt) rest.Hunt {
	out := rest.Hunt{
		ID:           hunt.ID,
		Industry:     hunt.Industry,
		City:         hunt.City,
		Status:       string(hunt.Status),
		PartialCount: hunt.PartialCount,
		Error:        hunt.Error,
		CreatedAt:    hunt.CreatedAt,
	}

	if hunt.Status == entity.HuntStatusDone {
		summary := entity.Summarize(hunt.Leads)
		out.Summary = &rest.HuntSummary{
			Businesses:    summary.Businesses,
			AverageRating: summary.AverageRating,
			AverageScore:  summary.AverageScore,
			HotLeads:      summary.HotLeads,
		}
		out.Leads = lox.Map(hunt.Leads, newRESTLead)
	}

	return out
}
