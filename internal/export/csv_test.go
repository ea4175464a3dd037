package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"reviewhunter/internal/domain/entity"
	"reviewhunter/internal/export"
)

func TestWriteLeads(t *testing.T) {
	leads := []entity.Lead{
		{
			Business: entity.Business{
				Name:            "Bad Dental",
				Rating:          lo.ToPtr(2.9),
				ReviewCount:     120,
				UnansweredCount: 90,
				Phone:           "+49 234 123456",
				Website:         "https://bad-dental.example",
				Address:         "Hauptstraße 1, Bochum",
			},
			Score: 83,
			Tier:  entity.TierHot,
		},
		{
			Business: entity.Business{Name: "New Place, no reviews"},
			Score:    8,
			Tier:     entity.TierLow,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteLeads(&buf, leads))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, []string{
		"name", "rating", "review_count", "unanswered_review_count",
		"score", "tier", "phone", "website", "address",
	}, records[0])

	require.Equal(t, []string{
		"Bad Dental", "2.9", "120", "90", "83", "HOT",
		"+49 234 123456", "https://bad-dental.example", "Hauptstraße 1, Bochum",
	}, records[1])

	// Rating cell stays empty when the rating is absent; commas in names
	// survive the round trip.
	require.Equal(t, "New Place, no reviews", records[2][0])
	require.Equal(t, "", records[2][1])
}

func TestWriteLeads_EmptySet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteLeads(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}
