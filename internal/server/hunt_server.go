package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/xid"

	"reviewhunter/internal/domain"
	"reviewhunter/internal/domain/entity"
	"reviewhunter/internal/domain/service/hunt"
	"reviewhunter/internal/export"
	"reviewhunter/pkg/errcodes"
	"reviewhunter/pkg/httpx/reply"
	"reviewhunter/pkg/httpx/req"
	"reviewhunter/pkg/rest"
)

type huntService interface {
	Hunt(ctx context.Context, query hunt.Query) (hunt.Result, error)
}

type huntRepository interface {
	Create(ctx context.Context, hunt *entity.Hunt) error
	GetByID(ctx context.Context, id string) (*entity.Hunt, error)
	UpdateStatus(ctx context.Context, id string, status entity.HuntStatus, errMsg string) error
	SaveResults(ctx context.Context, id string, leads []entity.Lead, partialCount int) error
}

type huntEnqueuer interface {
	EnqueueHuntRun(ctx context.Context, huntID string) error
}

type HuntServer struct {
	huntService huntService
	hunts       huntRepository
	enqueuer    huntEnqueuer
}

func NewHuntServer(service huntService, hunts huntRepository, enqueuer huntEnqueuer) HuntServer {
	return HuntServer{
		huntService: service,
		hunts:       hunts,
		enqueuer:    enqueuer,
	}
}

// postV1Hunts starts a hunt. Synchronous by default; with async=true the hunt
// is queued and the pending record returned with 202.
func (s HuntServer) postV1Hunts(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.HuntRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	stored := &entity.Hunt{
		ID:              xid.New().String(),
		Industry:        request.Industry,
		City:            request.City,
		Limit:           request.Limit,
		ReviewsPerPlace: request.ReviewsPerPlace,
		Status:          entity.HuntStatusPending,
	}

	if err := s.hunts.Create(ctx, stored); err != nil {
		return fmt.Errorf("hunts.Create: %w", err)
	}

	if request.Async {
		if err := s.enqueuer.EnqueueHuntRun(ctx, stored.ID); err != nil {
			return fmt.Errorf("enqueuer.EnqueueHuntRun: %w", err)
		}

		reply.JSON(ctx, w, http.StatusAccepted, newRESTHunt(stored))

		return nil
	}

	result, err := s.huntService.Hunt(ctx, hunt.Query{
		Industry:        request.Industry,
		City:            request.City,
		Limit:           request.Limit,
		ReviewsPerPlace: request.ReviewsPerPlace,
	})
	if err != nil {
		if stErr := s.hunts.UpdateStatus(ctx, stored.ID, entity.HuntStatusFailed, err.Error()); stErr != nil {
			logger(ctx).Error("failed to mark hunt failed", "hunt-id", stored.ID, "error", stErr)
		}

		return fmt.Errorf("huntService.Hunt: %w", err)
	}

	if err := s.hunts.SaveResults(ctx, stored.ID, result.Leads, result.PartialCount); err != nil {
		return fmt.Errorf("hunts.SaveResults: %w", err)
	}

	stored.Status = entity.HuntStatusDone
	stored.PartialCount = result.PartialCount
	stored.Leads = result.Leads

	reply.JSON(ctx, w, http.StatusOK, newRESTHunt(stored))

	return nil
}

func (s HuntServer) getV1HuntByID(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id := r.PathValue("id")
	if id == "" {
		return domain.NewError(errcodes.InvalidHuntID, "hunt id must not be empty")
	}

	stored, err := s.hunts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("hunts.GetByID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTHunt(stored))

	return nil
}

// getV1HuntExport streams the leads of a finished hunt as CSV.
func (s HuntServer) getV1HuntExport(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id := r.PathValue("id")
	if id == "" {
		return domain.NewError(errcodes.InvalidHuntID, "hunt id must not be empty")
	}

	stored, err := s.hunts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("hunts.GetByID: %w", err)
	}

	if stored.Status != entity.HuntStatusDone {
		return domain.NewError(errcodes.HuntNotFinished,
			fmt.Sprintf("hunt is %s, export needs a finished hunt", stored.Status))
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "hunt-"+stored.ID+".csv"))

	if err := export.WriteLeads(w, stored.Leads); err != nil {
		logger(ctx).Error("csv export failed", "hunt-id", stored.ID, "error", err)
	}

	return nil
}
