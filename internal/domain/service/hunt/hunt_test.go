package hunt_test

import (
	"context"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"reviewhunter/internal/domain"
	"reviewhunter/internal/domain/entity"
	"reviewhunter/internal/domain/service/hunt"
	"reviewhunter/pkg/errcodes"
)

type fakeClient struct {
	mu sync.Mutex

	businesses []entity.Business
	searchErr  error

	reviews    map[string][]entity.Review
	reviewsErr map[string]error

	reviewCalls []string
}

func (f *fakeClient) Search(_ context.Context, _, _ string, _ int) ([]entity.Business, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	return f.businesses, nil
}

func (f *fakeClient) Reviews(_ context.Context, placeID string, _ int) ([]entity.Review, error) {
	f.mu.Lock()
	f.reviewCalls = append(f.reviewCalls, placeID)
	f.mu.Unlock()

	if err, ok := f.reviewsErr[placeID]; ok {
		return nil, err
	}

	return f.reviews[placeID], nil
}

func answered() entity.Review   { return entity.Review{Rating: 4, OwnerReply: "thanks!"} }
func unanswered() entity.Review { return entity.Review{Rating: 1} }

func TestHunt_ScoresAndSorts(t *testing.T) {
	client := &fakeClient{
		businesses: []entity.Business{
			{PlaceID: "good", Name: "Good Dental", Rating: lo.ToPtr(4.8), ReviewCount: 120},
			{PlaceID: "bad", Name: "Bad Dental", Rating: lo.ToPtr(2.9), ReviewCount: 120},
		},
		reviews: map[string][]entity.Review{
			"good": {answered(), answered(), answered(), answered()},
			"bad":  {unanswered(), unanswered(), unanswered(), answered()},
		},
	}

	result, err := hunt.NewService(client).Hunt(context.Background(), hunt.Query{
		Industry: "dentist",
		City:     "Berlin",
	})
	require.NoError(t, err)
	require.Len(t, result.Leads, 2)

	require.Equal(t, "Bad Dental", result.Leads[0].Business.Name)
	require.Greater(t, result.Leads[0].Score, result.Leads[1].Score)
	require.Equal(t, entity.TierHot, result.Leads[0].Tier)

	require.Zero(t, result.PartialCount)
	require.Equal(t, 2, result.Summary.Businesses)
	require.Equal(t, 1, result.Summary.HotLeads)
}

func TestHunt_ExtrapolatesUnansweredCount(t *testing.T) {
	client := &fakeClient{
		businesses: []entity.Business{
			{PlaceID: "p1", Name: "Cafe", Rating: lo.ToPtr(3.9), ReviewCount: 100},
		},
		reviews: map[string][]entity.Review{
			"p1": {unanswered(), unanswered(), answered(), answered()},
		},
	}

	result, err := hunt.NewService(client).Hunt(context.Background(), hunt.Query{
		Industry: "cafe",
		City:     "Berlin",
	})
	require.NoError(t, err)
	require.Len(t, result.Leads, 1)

	business := result.Leads[0].Business
	require.Equal(t, 4, business.ReviewsSampled)
	require.Equal(t, 50, business.UnansweredCount)
}

func TestHunt_KeepsPartialLeadOnTransientReviewFailure(t *testing.T) {
	client := &fakeClient{
		businesses: []entity.Business{
			{PlaceID: "ok", Name: "Ok", Rating: lo.ToPtr(3.0), ReviewCount: 50},
			{PlaceID: "broken", Name: "Broken", Rating: lo.ToPtr(3.0), ReviewCount: 50},
		},
		reviews: map[string][]entity.Review{
			"ok": {unanswered()},
		},
		reviewsErr: map[string]error{
			"broken": domain.NewError(errcodes.UpstreamUnavailable, "bad gateway"),
		},
	}

	result, err := hunt.NewService(client).Hunt(context.Background(), hunt.Query{
		Industry: "cafe",
		City:     "Berlin",
	})
	require.NoError(t, err)
	require.Len(t, result.Leads, 2)
	require.Equal(t, 1, result.PartialCount)

	partial, found := lo.Find(result.Leads, func(lead entity.Lead) bool { return lead.Partial })
	require.True(t, found)
	require.Equal(t, "Broken", partial.Business.Name)
	require.Zero(t, partial.Business.UnansweredCount)
	require.Zero(t, partial.Business.ReviewsSampled)
}

func TestHunt_AbortsOnFatalUpstreamError(t *testing.T) {
	for _, code := range []struct {
		name string
		code error
	}{
		{"quota exceeded", domain.NewError(errcodes.QuotaExceeded, "quota exceeded")},
		{"auth rejected", domain.NewError(errcodes.AuthRejected, "bad key")},
	} {
		t.Run(code.name, func(t *testing.T) {
			client := &fakeClient{
				businesses: []entity.Business{
					{PlaceID: "p1", ReviewCount: 10},
				},
				reviewsErr: map[string]error{"p1": code.code},
			}

			_, err := hunt.NewService(client).Hunt(context.Background(), hunt.Query{
				Industry: "cafe",
				City:     "Berlin",
			})
			require.Error(t, err)
		})
	}
}

func TestHunt_SkipsReviewFetchWithoutReviews(t *testing.T) {
	client := &fakeClient{
		businesses: []entity.Business{
			{PlaceID: "empty", Name: "New Place", ReviewCount: 0},
		},
	}

	result, err := hunt.NewService(client).Hunt(context.Background(), hunt.Query{
		Industry: "cafe",
		City:     "Berlin",
	})
	require.NoError(t, err)
	require.Empty(t, client.reviewCalls)
	require.Len(t, result.Leads, 1)
	require.Equal(t, entity.TierLow, result.Leads[0].Tier)
}

func TestHunt_ValidatesQuery(t *testing.T) {
	client := &fakeClient{}

	_, err := hunt.NewService(client).Hunt(context.Background(), hunt.Query{City: "Berlin"})
	require.True(t, domain.HasCode(err, errcodes.InvalidIndustry))

	_, err = hunt.NewService(client).Hunt(context.Background(), hunt.Query{Industry: "cafe"})
	require.True(t, domain.HasCode(err, errcodes.InvalidCity))
}
