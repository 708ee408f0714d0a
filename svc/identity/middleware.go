package identity

import (
	"context"
	"errors"
	"net/http"

	"github.com/quotagate/quotagate/core"
)

type identityCtxKey struct{}

// FromContext retrieves the identity stored by a Require middleware.
func FromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityCtxKey{}).(*Identity)
	return ident, ok
}

// Require returns middleware that resolves the caller and rejects anyone
// whose role differs from the required one.
func (g *Gate) Require(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := g.Resolve(r.Context(), r)
			if err != nil {
				_ = core.JSONError(mapResolveError(err)).Render(w, r)
				return
			}
			if ident.Role != role {
				_ = core.JSONError(core.NewHTTPError(http.StatusForbidden, string(role)+"_access_required")).Render(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityCtxKey{}, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates admin-only operations.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return g.Require(RoleAdmin)(next)
}

// RequireCustomer gates customer-only operations.
func (g *Gate) RequireCustomer(next http.Handler) http.Handler {
	return g.Require(RoleCustomer)(next)
}

func mapResolveError(err error) error {
	switch {
	case errors.Is(err, ErrMissingIdentity):
		return core.ErrUnauthorized
	case errors.Is(err, ErrUnknownUser):
		return core.ErrNotFound
	default:
		return core.ErrInternalServerError
	}
}
