// Package subscriptions exposes the subscription lifecycle endpoints:
// customer subscribe, subscription detail view, and the admin-only plan
// change and permission-addition operations.
package subscriptions

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotagate/quotagate/binder"
	"github.com/quotagate/quotagate/core"
	"github.com/quotagate/quotagate/svc/catalog"
	"github.com/quotagate/quotagate/svc/identity"
	"github.com/quotagate/quotagate/svc/subscription"
)

// SubscribeRequest is the customer subscribe payload.
type SubscribeRequest struct {
	PlanName string `json:"plan_name" validate:"required"`
}

// PermissionAdditionRequest is the admin payload adding a user-specific
// permission on top of the plan.
type PermissionAdditionRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	APIEndpoint string `json:"api_endpoint" validate:"required"`
}

// Router mounts the subscription endpoints.
func Router(svc *subscription.Service, gate *identity.Gate) chi.Router {
	r := chi.NewRouter()

	r.With(gate.RequireCustomer).Post("/", func(w http.ResponseWriter, req *http.Request) {
		ident, _ := identity.FromContext(req.Context())

		var payload SubscribeRequest
		if err := binder.JSON(req, &payload); err != nil {
			_ = renderBindError(err).Render(w, req)
			return
		}

		if _, err := svc.Subscribe(req.Context(), ident.UserID, payload.PlanName); err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSONMessage("Subscription created successfully", map[string]string{
			"user_id":   ident.UserID,
			"plan_name": payload.PlanName,
		}).Render(w, req)
	})

	r.Get("/{userId}", func(w http.ResponseWriter, req *http.Request) {
		detail, err := svc.Get(req.Context(), chi.URLParam(req, "userId"))
		if err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSON(detail).Render(w, req)
	})

	r.With(gate.RequireAdmin).Put("/{userId}/modify", func(w http.ResponseWriter, req *http.Request) {
		userID := chi.URLParam(req, "userId")

		var payload SubscribeRequest
		if err := binder.JSON(req, &payload); err != nil {
			_ = renderBindError(err).Render(w, req)
			return
		}

		if _, err := svc.Modify(req.Context(), userID, payload.PlanName); err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSONMessage("Subscription updated successfully", map[string]string{
			"user_id":   userID,
			"plan_name": payload.PlanName,
		}).Render(w, req)
	})

	r.With(gate.RequireAdmin).Post("/{userId}/permissions", func(w http.ResponseWriter, req *http.Request) {
		userID := chi.URLParam(req, "userId")

		var payload PermissionAdditionRequest
		if err := binder.JSON(req, &payload); err != nil {
			_ = renderBindError(err).Render(w, req)
			return
		}

		err := svc.AddPermission(req.Context(), userID, catalog.PermissionRef{
			Name:        payload.Name,
			Description: payload.Description,
			APIEndpoint: payload.APIEndpoint,
		})
		if err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}
		_ = core.JSONMessage("Permission added successfully", map[string]string{"user_id": userID}).Render(w, req)
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
	case errors.Is(err, subscription.ErrNotFound), errors.Is(err, catalog.ErrPlanNotFound):
		return core.ErrNotFound
	case errors.Is(err, subscription.ErrAlreadySubscribed), errors.Is(err, catalog.ErrDuplicateName):
		return core.ErrConflict
	case errors.Is(err, catalog.ErrInvalidID):
		return core.ErrBadRequest
	default:
		return core.ErrInternalServerError
	}
}
