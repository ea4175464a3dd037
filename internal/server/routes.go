package server

import (
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"reviewhunter/internal/domain"
	"reviewhunter/pkg/errcodes"
	"reviewhunter/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			// unauthorized zone
			r.Route("/hunts", func(r chi.Router) {
				r.Post("/", handler(s.postV1Hunts))
				r.Get("/{id}", handler(s.getV1HuntByID))
				r.Get("/{id}/export", handler(s.getV1HuntExport))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			if code, ok := domain.GetCode(err); ok {
				reply.CodedError(r.Context(), w, statusFor(code), code, err.Error())
				return
			}

			reply.Error(r.Context(), w, err)
		}
	}
}

// statusFor maps domain error codes to HTTP statuses. Upstream failures keep
// their gateway semantics so callers can tell a bad key from a spent budget.
func statusFor(code failure.ErrorCode) int {
	switch code {
	case errcodes.ValidationError, errcodes.InvalidIndustry, errcodes.InvalidCity, errcodes.InvalidHuntID:
		return http.StatusBadRequest
	case errcodes.HuntNotFound, errcodes.NotFound:
		return http.StatusNotFound
	case errcodes.HuntNotFinished:
		return http.StatusConflict
	case errcodes.QuotaExceeded:
		return http.StatusTooManyRequests
	case errcodes.AuthRejected:
		return http.StatusBadGateway
	case errcodes.UpstreamUnavailable:
		return http.StatusServiceUnavailable
	case errcodes.TimeoutExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
