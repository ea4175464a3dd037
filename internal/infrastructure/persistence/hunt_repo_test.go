package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"reviewhunter/internal/domain"
	"reviewhunter/internal/domain/entity"
	"reviewhunter/internal/infrastructure/persistence"
	"reviewhunter/pkg/dbtest"
	"reviewhunter/pkg/errcodes"
)

// openTestDB connects to the database from PG_TEST_DSN and applies the
// migrations; the test is skipped when the variable is not set.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbtest.MigrateFromFile(db, "../../../migrations/0001_init.sql"))

	return db
}

func newHunt() *entity.Hunt {
	return &entity.Hunt{
		ID:              xid.New().String(),
		Industry:        "dentist",
		City:            "Berlin",
		Limit:           20,
		ReviewsPerPlace: 20,
		Status:          entity.HuntStatusPending,
	}
}

func TestHuntRepository_Lifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := persistence.NewHuntRepository(db)
	ctx := context.Background()

	hunt := newHunt()
	require.NoError(t, repo.Create(ctx, hunt))

	got, err := repo.GetByID(ctx, hunt.ID)
	require.NoError(t, err)
	require.Equal(t, entity.HuntStatusPending, got.Status)
	require.Empty(t, got.Leads)
	require.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)

	require.NoError(t, repo.UpdateStatus(ctx, hunt.ID, entity.HuntStatusRunning, ""))

	leads := []entity.Lead{
		{
			Business: entity.Business{
				PlaceID:         "p1",
				Name:            "Bad Dental",
				Rating:          lo.ToPtr(2.9),
				ReviewCount:     120,
				UnansweredCount: 90,
				ReviewsSampled:  20,
			},
			Score: 83,
			Tier:  entity.TierHot,
			Flags: []entity.Flag{entity.FlagLowRating, entity.FlagUnresponsive},
		},
		{
			Business: entity.Business{PlaceID: "p2", Name: "New Place"},
			Score:    8,
			Tier:     entity.TierLow,
			Partial:  true,
		},
	}

	require.NoError(t, repo.SaveResults(ctx, hunt.ID, leads, 1))

	got, err = repo.GetByID(ctx, hunt.ID)
	require.NoError(t, err)
	require.Equal(t, entity.HuntStatusDone, got.Status)
	require.Equal(t, 1, got.PartialCount)
	require.Len(t, got.Leads, 2)

	require.Equal(t, "Bad Dental", got.Leads[0].Business.Name)
	require.NotNil(t, got.Leads[0].Business.Rating)
	require.InDelta(t, 2.9, *got.Leads[0].Business.Rating, 0.001)
	require.Equal(t, []entity.Flag{entity.FlagLowRating, entity.FlagUnresponsive}, got.Leads[0].Flags)

	require.Nil(t, got.Leads[1].Business.Rating)
	require.True(t, got.Leads[1].Partial)
}

func TestHuntRepository_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := persistence.NewHuntRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	require.True(t, domain.HasCode(err, errcodes.HuntNotFound))

	err = repo.UpdateStatus(ctx, "missing", entity.HuntStatusFailed, "boom")
	require.True(t, domain.HasCode(err, errcodes.HuntNotFound))
}

func TestHuntRepository_FailedStatusKeepsError(t *testing.T) {
	db := openTestDB(t)
	repo := persistence.NewHuntRepository(db)
	ctx := context.Background()

	hunt := newHunt()
	require.NoError(t, repo.Create(ctx, hunt))
	require.NoError(t, repo.UpdateStatus(ctx, hunt.ID, entity.HuntStatusFailed, "quota exceeded"))

	got, err := repo.GetByID(ctx, hunt.ID)
	require.NoError(t, err)
	require.Equal(t, entity.HuntStatusFailed, got.Status)
	require.Equal(t, "quota exceeded", got.Error)
}
