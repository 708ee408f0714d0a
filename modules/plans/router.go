// Package plans exposes the admin-only plan management endpoints.
package plans

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotagate/quotagate/binder"
	"github.com/quotagate/quotagate/core"
	"github.com/quotagate/quotagate/svc/catalog"
)

// PermissionRefRequest is the embedded permission payload.
type PermissionRefRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	APIEndpoint string `json:"api_endpoint" validate:"required"`
}

// PlanRequest is the create/update payload.
type PlanRequest struct {
	Name        string                 `json:"name" validate:"required,min=3,max=50"`
	Description string                 `json:"description"`
	Permissions []PermissionRefRequest `json:"permissions" validate:"dive"`
	UsageLimit  int64                  `json:"usage_limit" validate:"gte=0"`
}

func (req PlanRequest) toPlan() catalog.Plan {
	refs := make([]catalog.PermissionRef, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		refs = append(refs, catalog.PermissionRef{
			Name:        p.Name,
			Description: p.Description,
			APIEndpoint: p.APIEndpoint,
		})
	}
	return catalog.Plan{
		Name:        req.Name,
		Description: req.Description,
		Permissions: refs,
		UsageLimit:  req.UsageLimit,
	}
}

// Router mounts the plan management endpoints. The gate middleware is
// applied by the caller; every route here assumes an admin identity.
func Router(svc *catalog.Service) chi.Router {
	r := chi.NewRouter()

	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		var payload PlanRequest
		if err := binder.JSON(req, &payload); err != nil {
			_ = renderBindError(err).Render(w, req)
			return
		}

		id, err := svc.CreatePlan(req.Context(), payload.toPlan())
		if err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSONMessage("Plan created successfully", map[string]string{"plan_id": id}).Render(w, req)
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		list, err := svc.ListPlans(req.Context())
		if err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSON(list).Render(w, req)
	})

	r.Get("/{planId}", func(w http.ResponseWriter, req *http.Request) {
		plan, err := svc.GetPlan(req.Context(), chi.URLParam(req, "planId"))
		if err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSON(plan).Render(w, req)
	})

	r.Put("/{planId}", func(w http.ResponseWriter, req *http.Request) {
		var payload PlanRequest
		if err := binder.JSON(req, &payload); err != nil {
			_ = renderBindError(err).Render(w, req)
			return
		}

		if err := svc.UpdatePlan(req.Context(), chi.URLParam(req, "planId"), payload.toPlan()); err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSONMessage("Plan updated successfully", nil).Render(w, req)
	})

	r.Delete("/{planId}", func(w http.ResponseWriter, req *http.Request) {
		if err := svc.DeletePlan(req.Context(), chi.URLParam(req, "planId")); err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSONMessage("Plan deleted successfully", nil).Render(w, req)
	})

	r.Post("/{planId}/permissions/{permissionId}", func(w http.ResponseWriter, req *http.Request) {
		err := svc.AttachPermission(req.Context(), chi.URLParam(req, "planId"), chi.URLParam(req, "permissionId"))
		if err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSONMessage("Permission attached successfully", nil).Render(w, req)
	})

	return r
}

func renderBindError(err error) core.Response {
	if fields := binder.ValidationFields(err); fields != nil {
		return core.JSONValidationError(fields)
	}
	return core.JSONError(core.ErrBadRequest)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrPlanNotFound), errors.Is(err, catalog.ErrPermissionNotFound):
		return core.ErrNotFound
	case errors.Is(err, catalog.ErrDuplicateName):
		return core.ErrConflict
	case errors.Is(err, catalog.ErrInvalidID), errors.Is(err, catalog.ErrNegativeQuota):
		return core.ErrBadRequest
	default:
		return core.ErrInternalServerError
	}
}
