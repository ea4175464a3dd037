package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"reviewhunter/internal/domain"
	"reviewhunter/internal/domain/entity"
	"reviewhunter/internal/domain/service/hunt"
	"reviewhunter/pkg/errcodes"
)

type HuntRunner interface {
	Hunt(ctx context.Context, query hunt.Query) (hunt.Result, error)
}

type HuntStore interface {
	GetByID(ctx context.Context, id string) (*entity.Hunt, error)
	UpdateStatus(ctx context.Context, id string, status entity.HuntStatus, errMsg string) error
	SaveResults(ctx context.Context, id string, leads []entity.Lead, partialCount int) error
}

// HuntHandler executes stored hunts asynchronously.
type HuntHandler struct {
	runner HuntRunner
	store  HuntStore
}

func NewHuntHandler(runner HuntRunner, store HuntStore) *HuntHandler {
	return &HuntHandler{
		runner: runner,
		store:  store,
	}
}

func (h *HuntHandler) HandleHuntRun(ctx context.Context, task *asynq.Task) error {
	var payload HuntRunPayload
	if err := jsoniter.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("jsoniter.Unmarshal: %v: %w", err, asynq.SkipRetry)
	}

	stored, err := h.store.GetByID(ctx, payload.HuntID)
	if err != nil {
		if domain.HasCode(err, errcodes.HuntNotFound) {
			return fmt.Errorf("store.GetByID: %v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("store.GetByID: %w", err)
	}

	if stored.Status == entity.HuntStatusDone {
		logger(ctx).Info("hunt already finished, skipping", "hunt-id", stored.ID)
		return nil
	}

	if err := h.store.UpdateStatus(ctx, stored.ID, entity.HuntStatusRunning, ""); err != nil {
		return fmt.Errorf("store.UpdateStatus: %w", err)
	}

	result, err := h.runner.Hunt(ctx, hunt.Query{
		Industry:        stored.Industry,
		City:            stored.City,
		Limit:           stored.Limit,
		ReviewsPerPlace: stored.ReviewsPerPlace,
	})
	if err != nil {
		if stErr := h.store.UpdateStatus(ctx, stored.ID, entity.HuntStatusFailed, err.Error()); stErr != nil {
			logger(ctx).Error("failed to mark hunt failed", "hunt-id", stored.ID, "error", stErr)
		}

		// Retrying with a rejected key or an exhausted quota only burns
		// upstream credits.
		if domain.HasCode(err, errcodes.AuthRejected) || domain.HasCode(err, errcodes.QuotaExceeded) {
			return fmt.Errorf("runner.Hunt: %v: %w", err, asynq.SkipRetry)
		}

		return fmt.Errorf("runner.Hunt: %w", err)
	}

	if err := h.store.SaveResults(ctx, stored.ID, result.Leads, result.PartialCount); err != nil {
		return fmt.Errorf("store.SaveResults: %w", err)
	}

	logger(ctx).Info("hunt finished",
		"hunt-id", stored.ID,
		"leads", len(result.Leads),
		"partial", result.PartialCount,
		"hot", result.Summary.HotLeads,
	)

	return nil
}
