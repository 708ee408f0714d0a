// Package usage exposes the customer usage report and the admin reset.
package usage

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotagate/quotagate/core"
	"github.com/quotagate/quotagate/svc/identity"
	"github.com/quotagate/quotagate/svc/usage"
)

// Router mounts the customer-facing usage report.
func Router(svc *usage.Service, gate *identity.Gate) chi.Router {
	r := chi.NewRouter()

	r.With(gate.RequireCustomer).Get("/{userId}", func(w http.ResponseWriter, req *http.Request) {
		report, err := svc.Status(req.Context(), chi.URLParam(req, "userId"))
		if err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSON(report).Render(w, req)
	})

	return r
}

// AdminRouter mounts the admin-only usage reset.
func AdminRouter(svc *usage.Service, gate *identity.Gate) chi.Router {
	r := chi.NewRouter()

	r.With(gate.RequireAdmin).Put("/{userId}/reset", func(w http.ResponseWriter, req *http.Request) {
		result, err := svc.Reset(req.Context(), chi.URLParam(req, "userId"))
		if err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSONMessage("Usage has been reset successfully", result).Render(w, req)
	})

	return r
}

func mapError(err error) error {
	if errors.Is(err, usage.ErrNotFound) {
		return core.ErrNotFound
	}
	return core.ErrInternalServerError
}
