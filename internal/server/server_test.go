package server_test

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"reviewhunter/internal/domain"
	"reviewhunter/internal/domain/entity"
	"reviewhunter/internal/domain/service/hunt"
	"reviewhunter/internal/server"
	"reviewhunter/pkg/errcodes"
	"reviewhunter/pkg/rest"
	"reviewhunter/pkg/tests"
)

type stubHuntService struct {
	result hunt.Result
	err    error
}

func (s *stubHuntService) Hunt(_ context.Context, _ hunt.Query) (hunt.Result, error) {
	return s.result, s.err
}

type memRepo struct {
	mu    sync.Mutex
	hunts map[string]*entity.Hunt
}

func newMemRepo() *memRepo {
	return &memRepo{hunts: map[string]*entity.Hunt{}}
}

func (m *memRepo) Create(_ context.Context, h *entity.Hunt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *h
	m.hunts[h.ID] = &stored

	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*entity.Hunt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.hunts[id]
	if !ok {
		return nil, domain.NewError(errcodes.HuntNotFound, "hunt not found")
	}

	copied := *stored

	return &copied, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, status entity.HuntStatus, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.hunts[id]
	if !ok {
		return domain.NewError(errcodes.HuntNotFound, "hunt not found")
	}

	stored.Status = status
	stored.Error = errMsg

	return nil
}

func (m *memRepo) SaveResults(_ context.Context, id string, leads []entity.Lead, partialCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.hunts[id]
	if !ok {
		return domain.NewError(errcodes.HuntNotFound, "hunt not found")
	}

	stored.Status = entity.HuntStatusDone
	stored.PartialCount = partialCount
	stored.Leads = leads

	return nil
}

type stubEnqueuer struct {
	mu  sync.Mutex
	ids []string
}

func (s *stubEnqueuer) EnqueueHuntRun(_ context.Context, huntID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = append(s.ids, huntID)

	return nil
}

func newTestServer(t *testing.T, service *stubHuntService, repo *memRepo, enqueuer *stubEnqueuer) tests.APIClient {
	t.Helper()

	router := chi.NewRouter()
	server.NewServer(server.NewHuntServer(service, repo, enqueuer)).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return tests.NewAPIClient(srv.URL, srv.Client())
}

func goodResult() hunt.Result {
	leads := []entity.Lead{
		{
			Business: entity.Business{
				PlaceID:         "p1",
				Name:            "Bad Dental",
				Rating:          lo.ToPtr(2.9),
				ReviewCount:     120,
				UnansweredCount: 90,
			},
			Score: 83,
			Tier:  entity.TierHot,
			Flags: []entity.Flag{entity.FlagLowRating},
		},
	}

	return hunt.Result{Leads: leads, Summary: entity.Summarize(leads)}
}

func TestPostHunts_Sync(t *testing.T) {
	repo := newMemRepo()
	client := newTestServer(t, &stubHuntService{result: goodResult()}, repo, &stubEnqueuer{})

	var response rest.Hunt
	resp, err := client.Post(context.Background(), "/v1/hunts", http.Header{},
		rest.HuntRequest{Industry: "dentist", City: "Bochum"}, &response, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, "done", response.Status)
	require.Len(t, response.Leads, 1)
	require.Equal(t, "Bad Dental", response.Leads[0].Name)
	require.Equal(t, 83, response.Leads[0].Score)
	require.NotNil(t, response.Summary)
	require.Equal(t, 1, response.Summary.HotLeads)

	stored, err := repo.GetByID(context.Background(), response.ID)
	require.NoError(t, err)
	require.Equal(t, entity.HuntStatusDone, stored.Status)
}

func TestPostHunts_Async(t *testing.T) {
	repo := newMemRepo()
	enqueuer := &stubEnqueuer{}
	client := newTestServer(t, &stubHuntService{}, repo, enqueuer)

	var response rest.Hunt
	resp, err := client.Post(context.Background(), "/v1/hunts", http.Header{},
		rest.HuntRequest{Industry: "dentist", City: "Bochum", Async: true}, &response, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Equal(t, "pending", response.Status)
	require.Nil(t, response.Summary)
	require.Equal(t, []string{response.ID}, enqueuer.ids)
}

func TestPostHunts_Validation(t *testing.T) {
	client := newTestServer(t, &stubHuntService{}, newMemRepo(), &stubEnqueuer{})

	for name, body := range map[string]string{
		"missing city":  `{"industry":"dentist"}`,
		"missing both":  `{}`,
		"limit too big": `{"industry":"dentist","city":"Bochum","limit":1000}`,
		"broken json":   `{"industry":`,
	} {
		t.Run(name, func(t *testing.T) {
			var errResponse rest.Error
			resp, err := client.PostJSON(context.Background(), "/v1/hunts", http.Header{}, body, nil, &errResponse)
			require.NoError(t, err)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, rest.ErrorCode(errcodes.ValidationError), errResponse.Code)
		})
	}
}

func TestPostHunts_UpstreamErrors(t *testing.T) {
	for _, tc := range []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"quota", domain.NewError(errcodes.QuotaExceeded, "quota exceeded"), http.StatusTooManyRequests},
		{"auth", domain.NewError(errcodes.AuthRejected, "bad key"), http.StatusBadGateway},
		{"unavailable", domain.NewError(errcodes.UpstreamUnavailable, "bad gateway"), http.StatusServiceUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMemRepo()
			client := newTestServer(t, &stubHuntService{err: tc.err}, repo, &stubEnqueuer{})

			var errResponse rest.Error
			resp, err := client.Post(context.Background(), "/v1/hunts", http.Header{},
				rest.HuntRequest{Industry: "dentist", City: "Bochum"}, nil, &errResponse)
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, resp.StatusCode)

			// and the stored hunt is marked failed
			for _, stored := range repo.hunts {
				require.Equal(t, entity.HuntStatusFailed, stored.Status)
			}
		})
	}
}

func TestGetHunt(t *testing.T) {
	repo := newMemRepo()
	client := newTestServer(t, &stubHuntService{}, repo, &stubEnqueuer{})

	require.NoError(t, repo.Create(context.Background(), &entity.Hunt{
		ID: "h1", Industry: "dentist", City: "Bochum", Status: entity.HuntStatusRunning,
	}))

	var response rest.Hunt
	resp, err := client.Get(context.Background(), "/v1/hunts/h1", http.Header{}, &response, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "running", response.Status)
	require.Nil(t, response.Summary)

	var errResponse rest.Error
	resp, err = client.Get(context.Background(), "/v1/hunts/missing", http.Header{}, nil, &errResponse)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, rest.ErrorCode(errcodes.HuntNotFound), errResponse.Code)
}

func TestGetHuntExport(t *testing.T) {
	repo := newMemRepo()
	client := newTestServer(t, &stubHuntService{result: goodResult()}, repo, &stubEnqueuer{})

	var created rest.Hunt
	resp, err := client.Post(context.Background(), "/v1/hunts", http.Header{},
		rest.HuntRequest{Industry: "dentist", City: "Bochum"}, &created, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	httpResp, err := http.Get(client.BaseURL() + "/v1/hunts/" + created.ID + "/export")
	require.NoError(t, err)
	defer httpResp.Body.Close()

	require.Equal(t, http.StatusOK, httpResp.StatusCode)
	require.Contains(t, httpResp.Header.Get("Content-Type"), "text/csv")
	require.Contains(t, httpResp.Header.Get("Content-Disposition"), "hunt-"+created.ID+".csv")

	records, err := csv.NewReader(httpResp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "Bad Dental", records[1][0])
}

func TestGetHuntExport_NotFinished(t *testing.T) {
	repo := newMemRepo()
	client := newTestServer(t, &stubHuntService{}, repo, &stubEnqueuer{})

	require.NoError(t, repo.Create(context.Background(), &entity.Hunt{
		ID: "h1", Status: entity.HuntStatusRunning,
	}))

	resp, err := http.Get(client.BaseURL() + "/v1/hunts/h1/export")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), errcodes.HuntNotFinished.String())
}
