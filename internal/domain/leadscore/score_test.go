package leadscore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reviewhunter/internal/domain/entity"
	"reviewhunter/internal/domain/leadscore"
	"reviewhunter/pkg/tests"
)

func ratingOf(v float64) *float64 {
	return &v
}

func TestScoreScenarios(t *testing.T) {
	rq := require.New(t)
	cfg := leadscore.DefaultConfig()

	testCases := []struct {
		name     string
		business entity.Business
		score    int
		tier     entity.Tier
	}{
		{
			name: "Busy, badly rated, unresponsive",
			business: entity.Business{
				Rating:          ratingOf(3.2),
				ReviewCount:     150,
				UnansweredCount: 140,
			},
			score: 83, // response 40 + rating 18 + volume 25
			tier:  entity.TierHot,
		},
		{
			name: "Small, well run",
			business: entity.Business{
				Rating:          ratingOf(4.8),
				ReviewCount:     5,
				UnansweredCount: 0,
			},
			score: 6, // volume only
			tier:  entity.TierLow,
		},
		{
			name: "No ratings at all",
			business: entity.Business{
				Rating:          nil,
				ReviewCount:     0,
				UnansweredCount: 0,
			},
			score: 8, // neutral rating points halved for low evidence
			tier:  entity.TierLow,
		},
		{
			name: "Terrible and ignored",
			business: entity.Business{
				Rating:          ratingOf(1.8),
				ReviewCount:     200,
				UnansweredCount: 200,
			},
			score: 100,
			tier:  entity.TierHot,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			score, breakdown := cfg.Score(tc.business)

			rq.Equal(tc.score, score)
			rq.Equal(tc.score, breakdown.Total)
			rq.Equal(tc.tier, cfg.TierFor(score))

			// Pure function: same record, same result.
			again, _ := cfg.Score(tc.business)
			rq.Equal(score, again)
		})
	}
}

func TestScoreMonotonicInRating(t *testing.T) {
	rq := require.New(t)
	cfg := leadscore.DefaultConfig()

	// Lower rating never lowers the score, other factors fixed.
	ratings := []float64{0.5, 1.9, 2.4, 2.9, 3.4, 3.9, 4.0, 4.9}

	for _, count := range []int{0, 5, 10, 50, 500} {
		prev := -1

		for i := len(ratings) - 1; i >= 0; i-- {
			b := entity.Business{
				Rating:          ratingOf(ratings[i]),
				ReviewCount:     count,
				UnansweredCount: count / 2,
			}

			score, _ := cfg.Score(b)
			rq.GreaterOrEqual(score, prev, "rating %.1f, count %d", ratings[i], count)
			prev = score
		}
	}
}

func TestScoreMonotonicInVolume(t *testing.T) {
	rq := require.New(t)
	cfg := leadscore.DefaultConfig()

	counts := []int{0, 4, 5, 9, 10, 30, 31, 99, 100, 10000}

	for _, rating := range []*float64{nil, ratingOf(2.0), ratingOf(4.5)} {
		prev := -1

		for _, count := range counts {
			b := entity.Business{
				Rating:          rating,
				ReviewCount:     count,
				UnansweredCount: 0,
			}

			score, _ := cfg.Score(b)
			rq.GreaterOrEqual(score, prev, "count %d", count)
			prev = score
		}
	}
}

func TestScoreMonotonicInUnansweredShare(t *testing.T) {
	rq := require.New(t)
	cfg := leadscore.DefaultConfig()

	const count = 100
	prev := -1

	for unanswered := 0; unanswered <= count; unanswered += 5 {
		b := entity.Business{
			Rating:          ratingOf(3.8),
			ReviewCount:     count,
			UnansweredCount: unanswered,
		}

		score, _ := cfg.Score(b)
		rq.GreaterOrEqual(score, prev, "unanswered %d", unanswered)
		prev = score
	}
}

func TestScoreBoundedAndTotal(t *testing.T) {
	rq := require.New(t)
	cfg := leadscore.DefaultConfig()
	random := tests.NewRandomizer()

	for i := 0; i < 1000; i++ {
		b := entity.Business{
			ReviewCount:     int(random.Float64() * 2000),
			UnansweredCount: int(random.Float64() * 2500), // may exceed count on purpose
		}

		if random.Bool() {
			b.Rating = ratingOf(random.Float64() * 5)
		}

		score, _ := cfg.Score(b)
		rq.GreaterOrEqual(score, 0)
		rq.LessOrEqual(score, 100)
	}

	// Malformed counts are normalized, not rejected.
	score, _ := cfg.Score(entity.Business{ReviewCount: -3, UnansweredCount: -7})
	rq.GreaterOrEqual(score, 0)
	rq.LessOrEqual(score, 100)
}

func TestTierBoundaries(t *testing.T) {
	rq := require.New(t)
	cfg := leadscore.DefaultConfig()

	rq.Equal(entity.TierLow, cfg.TierFor(0))
	rq.Equal(entity.TierLow, cfg.TierFor(39))
	rq.Equal(entity.TierWarm, cfg.TierFor(40))
	rq.Equal(entity.TierWarm, cfg.TierFor(69))
	rq.Equal(entity.TierHot, cfg.TierFor(70))
	rq.Equal(entity.TierHot, cfg.TierFor(100))
}

func TestFlags(t *testing.T) {
	rq := require.New(t)

	flags := leadscore.Flags(entity.Business{
		Industry:        "Zahnarzt",
		Rating:          ratingOf(3.1),
		ReviewCount:     80,
		UnansweredCount: 60,
	})

	rq.ElementsMatch([]entity.Flag{
		entity.FlagLowRating,
		entity.FlagUnresponsive,
		entity.FlagHighVolume,
		entity.FlagHighValue,
	}, flags)

	rq.Empty(leadscore.Flags(entity.Business{
		Industry:        "kiosk",
		Rating:          ratingOf(4.6),
		ReviewCount:     12,
		UnansweredCount: 2,
	}))
}
