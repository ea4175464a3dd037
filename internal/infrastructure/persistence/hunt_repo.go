package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"reviewhunter/internal/domain"
	"reviewhunter/internal/domain/entity"
	"reviewhunter/pkg/errcodes"
)

type HuntRepository struct {
	db *sqlx.DB
}

func NewHuntRepository(db *sqlx.DB) *HuntRepository {
	return &HuntRepository{db: db}
}

// withTx выполняет функцию в транзакции.
func (r *HuntRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Create stores a new hunt in pending state, without leads.
func (r *HuntRepository) Create(ctx context.Context, hunt *entity.Hunt) error {
	now := time.Now()
	if hunt.CreatedAt.IsZero() {
		hunt.CreatedAt = now
	}
	hunt.UpdatedAt = now

	query := `
		INSERT INTO hunts (id, industry, city, limit_places, reviews_per_place, status, partial_count, error, created_at, updated_at)
		VALUES (:id, :industry, :city, :limit_places, :reviews_per_place, :status, :partial_count, :error, :created_at, :updated_at)`

	params := map[string]any{
		"id":                hunt.ID,
		"industry":          hunt.Industry,
		"city":              hunt.City,
		"limit_places":      hunt.Limit,
		"reviews_per_place": hunt.ReviewsPerPlace,
		"status":            string(hunt.Status),
		"partial_count":     hunt.PartialCount,
		"error":             hunt.Error,
		"created_at":        hunt.CreatedAt,
		"updated_at":        hunt.UpdatedAt,
	}

	if _, err := r.db.NamedExecContext(ctx, query, params); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert hunt")
	}

	return nil
}

// GetByID returns the hunt with its leads ordered as scored.
func (r *HuntRepository) GetByID(ctx context.Context, id string) (*entity.Hunt, error) {
	query := `
		SELECT id, industry, city, limit_places, reviews_per_place, status, partial_count, error, created_at, updated_at
		FROM hunts
		WHERE id = $1`

	var schema huntSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.HuntNotFound, "hunt not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get hunt")
	}

	hunt := schema.toDomain()

	leadsQuery := `
		SELECT hunt_id, position, place_id, name, industry, address, phone, website, maps_url,
		       rating, review_count, unanswered_count, reviews_sampled, score, tier, flags, partial
		FROM leads
		WHERE hunt_id = $1
		ORDER BY position`

	var schemas []leadSchema
	if err := r.db.SelectContext(ctx, &schemas, leadsQuery, id); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get leads")
	}

	hunt.Leads = make([]entity.Lead, 0, len(schemas))
	for _, s := range schemas {
		lead, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert lead")
		}
		hunt.Leads = append(hunt.Leads, lead)
	}

	return hunt, nil
}

// UpdateStatus moves the hunt through its lifecycle. The error message is
// only meaningful for the failed status.
func (r *HuntRepository) UpdateStatus(ctx context.Context, id string, status entity.HuntStatus, errMsg string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE hunts
			SET status = $1, error = $2, updated_at = $3
			WHERE id = $4`

		return r.execUpdateTx(ctx, tx, query, string(status), errMsg, time.Now(), id)
	})
}

// SaveResults atomically marks the hunt done and replaces its leads.
func (r *HuntRepository) SaveResults(ctx context.Context, id string, leads []entity.Lead, partialCount int) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE hunts
			SET status = $1, partial_count = $2, error = '', updated_at = $3
			WHERE id = $4`

		if err := r.execUpdateTx(ctx, tx, query, string(entity.HuntStatusDone), partialCount, time.Now(), id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM leads WHERE hunt_id = $1`, id); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to clear leads")
		}

		insert := `
			INSERT INTO leads (hunt_id, position, place_id, name, industry, address, phone, website, maps_url,
			                   rating, review_count, unanswered_count, reviews_sampled, score, tier, flags, partial)
			VALUES (:hunt_id, :position, :place_id, :name, :industry, :address, :phone, :website, :maps_url,
			        :rating, :review_count, :unanswered_count, :reviews_sampled, :score, :tier, :flags, :partial)`

		for i, lead := range leads {
			schema, err := fromLead(id, i, lead)
			if err != nil {
				return domain.WrapError(err, errcodes.InternalServerError,
					fmt.Sprintf("failed to marshal lead at index %d", i))
			}

			if _, err := tx.NamedExecContext(ctx, insert, schema); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError,
					fmt.Sprintf("failed to insert lead at index %d", i))
			}
		}

		return nil
	})
}

// execUpdateTx — внутренний метод обновления в рамках транзакции.
func (r *HuntRepository) execUpdateTx(ctx context.Context, tx *sqlx.Tx, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to execute update")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.HuntNotFound, "hunt not found")
	}

	return nil
}
