// Package access exposes the access-check endpoint: the metered
// grant-or-deny decision for a user and a requested API identifier.
package access

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotagate/quotagate/core"
	"github.com/quotagate/quotagate/svc/access"
)

// Engine is the decision contract consumed by the router.
type Engine interface {
	CheckAccess(ctx context.Context, userID, apiRequest string) (*access.Decision, error)
}

// GrantResponse is the body returned for a granted request.
type GrantResponse struct {
	UserID     string `json:"user_id"`
	APIRequest string `json:"api_request"`
	Access     string `json:"access"`
	Used       int64  `json:"used"`
	UsageLimit int64  `json:"usage_limit"`
}

// Router mounts the access-check endpoint. The route is deliberately
// ungated: the decision itself is the authorization.
func Router(engine Engine) chi.Router {
	r := chi.NewRouter()

	r.Get("/{userId}/{apiRequest}", func(w http.ResponseWriter, req *http.Request) {
		userID := chi.URLParam(req, "userId")
		apiRequest := chi.URLParam(req, "apiRequest")

		decision, err := engine.CheckAccess(req.Context(), userID, apiRequest)
		if err != nil {
			_ = core.JSONError(mapError(err)).Render(w, req)
			return
		}

		_ = core.JSON(GrantResponse{
			UserID:     decision.UserID,
			APIRequest: decision.APIRequest,
			Access:     "granted",
			Used:       decision.Used,
			UsageLimit: decision.UsageLimit,
		}).Render(w, req)
	})

	return r
}

func mapError(err error) error {
	switch {
	case errors.Is(err, access.ErrNotSubscribed):
		return core.NewHTTPError(http.StatusNotFound, "not_subscribed")
	case errors.Is(err, access.ErrPlanNotFound):
		return core.NewHTTPError(http.StatusNotFound, "plan_not_found")
	case errors.Is(err, access.ErrQuotaExceeded):
		return core.NewHTTPError(http.StatusForbidden, "quota_exceeded")
	case errors.Is(err, access.ErrPermissionDenied):
		return core.NewHTTPError(http.StatusForbidden, "permission_denied")
	default:
		return core.ErrInternalServerError
	}
}
