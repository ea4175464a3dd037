// Package export renders scored leads for consumption outside the API.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"reviewhunter/internal/domain/entity"
)

var csvHeader = []string{
	"name",
	"rating",
	"review_count",
	"unanswered_review_count",
	"score",
	"tier",
	"phone",
	"website",
	"address",
}

// WriteLeads writes the leads as CSV in their given order. A business without
// a rating gets an empty rating cell.
func WriteLeads(w io.Writer, leads []entity.Lead) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("csv.Write: %w", err)
	}

	for _, lead := range leads {
		rating := ""
		if lead.Business.Rating != nil {
			rating = strconv.FormatFloat(*lead.Business.Rating, 'f', 1, 64)
		}

		record := []string{
			lead.Business.Name,
			rating,
			strconv.Itoa(lead.Business.ReviewCount),
			strconv.Itoa(lead.Business.UnansweredCount),
			strconv.Itoa(lead.Score),
			string(lead.Tier),
			lead.Business.Phone,
			lead.Business.Website,
			lead.Business.Address,
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("csv.Write: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv.Flush: %w", err)
	}

	return nil
}
