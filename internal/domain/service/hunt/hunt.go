// Package hunt runs one lead search end to end: places text search, bounded
// fan-out over per-place review fetches, normalization and scoring.
package hunt

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"reviewhunter/internal/domain"
	"reviewhunter/internal/domain/entity"
	"reviewhunter/internal/domain/leadscore"
	"reviewhunter/pkg/contextx"
	"reviewhunter/pkg/errcodes"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type PlacesClient interface {
	Search(ctx context.Context, industry, city string, limit int) ([]entity.Business, error)
	Reviews(ctx context.Context, placeID string, limit int) ([]entity.Review, error)
}

type Query struct {
	Industry        string
	City            string
	Limit           int
	ReviewsPerPlace int
}

type Result struct {
	// Leads ordered by score descending; upstream order breaks ties.
	Leads []entity.Lead

	// PartialCount is how many leads were scored without review data because
	// their review fetch failed.
	PartialCount int

	Summary entity.HuntSummary
}

type Service struct {
	client         PlacesClient
	scoring        leadscore.Config
	concurrency    int
	defaultLimit   int
	defaultReviews int
}

func NewService(client PlacesClient) *Service {
	return &Service{
		client:         client,
		scoring:        leadscore.DefaultConfig(),
		concurrency:    4,
		defaultLimit:   20,
		defaultReviews: 20,
	}
}

func (s *Service) WithScoring(cfg leadscore.Config) *Service {
	s.scoring = cfg
	return s
}

func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

func (s *Service) WithDefaults(limit, reviewsPerPlace int) *Service {
	if limit > 0 {
		s.defaultLimit = limit
	}
	if reviewsPerPlace > 0 {
		s.defaultReviews = reviewsPerPlace
	}
	return s
}

// Hunt performs the search and scores every business found.
//
// Partial-failure policy: when the review fetch for one place fails with a
// transient error, the record is kept and scored from the search summary alone
// (rating retained, unanswered counts unknown and left zero) and marked
// Partial. Fatal upstream errors (AuthRejected, QuotaExceeded) abort the whole
// hunt instead.
func (s *Service) Hunt(ctx context.Context, query Query) (Result, error) {
	if query.Industry == "" {
		return Result{}, domain.NewError(errcodes.InvalidIndustry, "industry must not be empty")
	}
	if query.City == "" {
		return Result{}, domain.NewError(errcodes.InvalidCity, "city must not be empty")
	}

	if query.Limit <= 0 {
		query.Limit = s.defaultLimit
	}
	if query.ReviewsPerPlace <= 0 {
		query.ReviewsPerPlace = s.defaultReviews
	}

	businesses, err := s.client.Search(ctx, query.Industry, query.City, query.Limit)
	if err != nil {
		return Result{}, fmt.Errorf("client.Search: %w", err)
	}

	logger(ctx).Info("search completed",
		"industry", query.Industry,
		"city", query.City,
		"businesses", len(businesses),
	)

	leads := make([]entity.Lead, len(businesses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, business := range businesses {
		g.Go(func() error {
			lead, err := s.buildLead(gctx, business, query.ReviewsPerPlace)
			if err != nil {
				return err
			}

			leads[i] = lead

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].Score > leads[j].Score
	})

	result := Result{
		Leads:   leads,
		Summary: entity.Summarize(leads),
	}

	for _, lead := range leads {
		if lead.Partial {
			result.PartialCount++
		}
	}

	return result, nil
}

func (s *Service) buildLead(ctx context.Context, business entity.Business, reviewsLimit int) (entity.Lead, error) {
	partial := false

	if business.PlaceID != "" && business.ReviewCount > 0 {
		reviews, err := s.client.Reviews(ctx, business.PlaceID, reviewsLimit)
		switch {
		case err == nil:
			applyReviews(&business, reviews)
		case fatal(err):
			return entity.Lead{}, fmt.Errorf("client.Reviews: %w", err)
		default:
			logger(ctx).Warn("review fetch failed, keeping record without review data",
				"place-id", business.PlaceID,
				"error", err,
			)
			partial = true
		}
	}

	score, _ := s.scoring.Score(business)

	return entity.Lead{
		Business: business,
		Score:    score,
		Tier:     s.scoring.TierFor(score),
		Flags:    leadscore.Flags(business),
		Partial:  partial,
	}, nil
}

// fatal reports errors that invalidate the whole hunt rather than one record.
func fatal(err error) bool {
	return domain.HasCode(err, errcodes.AuthRejected) ||
		domain.HasCode(err, errcodes.QuotaExceeded)
}

// applyReviews fills the review-derived fields. Only a sample of the newest
// reviews is inspected, so the unanswered count is extrapolated from the
// sample share to the full review count.
func applyReviews(business *entity.Business, reviews []entity.Review) {
	business.ReviewsSampled = len(reviews)

	if len(reviews) == 0 || business.ReviewCount <= 0 {
		return
	}

	var unanswered int
	for _, review := range reviews {
		if !review.Answered() {
			unanswered++
		}
	}

	share := float64(unanswered) / float64(len(reviews))
	estimated := int(math.Round(share * float64(business.ReviewCount)))

	if estimated > business.ReviewCount {
		estimated = business.ReviewCount
	}

	business.UnansweredCount = estimated
}
