// Package permissions exposes the admin-only permission catalog endpoints.
package permissions

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotagate/quotagate/binder"
	"github.com/quotagate/quotagate/core"
	"github.com/quotagate/quotagate/svc/catalog"
)

// PermissionRequest is the create/update payload.
type PermissionRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	APIEndpoint string `json:"api_endpoint" validate:"required"`
}

func (req PermissionRequest) toPermission() catalog.Permission {
	return catalog.Permission{
		Name:        req.Name,
		Description: req.Description,
		APIEndpoint: req.APIEndpoint,
	}
}

// Router mounts the permission catalog endpoints. The admin gate is applied
// by the caller.
func Router(svc *catalog.Service) chi.Router {
	r := chi.NewRouter()

	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		var payload PermissionRequest
		if err := binder.JSON(req, &payload); err != nil {
			_ = renderBindError(err).Render(w, req)
			return
		}

		id, err := svc.CreatePermission(req.Context(), payload.toPermission())
		if err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSONMessage("Permission created successfully", map[string]string{"permission_id": id}).Render(w, req)
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		list, err := svc.ListPermissions(req.Context())
		if err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSON(list).Render(w, req)
	})

	r.Get("/{permissionId}", func(w http.ResponseWriter, req *http.Request) {
		perm, err := svc.GetPermission(req.Context(), chi.URLParam(req, "permissionId"))
		if err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSON(perm).Render(w, req)
	})

	r.Put("/{permissionId}", func(w http.ResponseWriter, req *http.Request) {
		var payload PermissionRequest
		if err := binder.JSON(req, &payload); err != nil {
			_ = renderBindError(err).Render(w, req)
			return
		}

		if err := svc.UpdatePermission(req.Context(), chi.URLParam(req, "permissionId"), payload.toPermission()); err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSONMessage("Permission updated successfully", nil).Render(w, req)
	})

	r.Delete("/{permissionId}", func(w http.ResponseWriter, req *http.Request) {
		if err := svc.DeletePermission(req.Context(), chi.URLParam(req, "permissionId")); err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSONMessage("Permission deleted successfully", nil).Render(w, req)
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
	case errors.Is(err, catalog.ErrPermissionNotFound):
		return core.ErrNotFound
	case errors.Is(err, catalog.ErrDuplicateName):
		return core.ErrConflict
	case errors.Is(err, catalog.ErrInvalidID):
		return core.ErrBadRequest
	default:
		return core.ErrInternalServerError
	}
}
