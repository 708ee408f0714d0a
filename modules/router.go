// Package modules assembles the HTTP surface: per-resource routers, the
// health endpoint, and the request logging middleware.
package modules

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quotagate/quotagate/core"
	accessmod "github.com/quotagate/quotagate/modules/access"
	"github.com/quotagate/quotagate/modules/permissions"
	"github.com/quotagate/quotagate/modules/plans"
	"github.com/quotagate/quotagate/modules/subscriptions"
	usagemod "github.com/quotagate/quotagate/modules/usage"
	"github.com/quotagate/quotagate/svc/access"
	"github.com/quotagate/quotagate/svc/catalog"
	"github.com/quotagate/quotagate/svc/identity"
	"github.com/quotagate/quotagate/svc/subscription"
	"github.com/quotagate/quotagate/svc/usage"
)

// Deps carries everything the router needs. All fields are required except
// Health, which may be empty.
type Deps struct {
	Log           *slog.Logger
	Gate          *identity.Gate
	Engine        *access.Engine
	Catalog       *catalog.Service
	Subscriptions *subscription.Service
	Usage         *usage.Service

	// Health probes are called by GET /health; any failure yields 503.
	Health []func(context.Context) error
}

// Router builds the service's HTTP handler.
func Router(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(d.Log))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		_ = core.JSONMessage("Welcome to the quotagate subscription and access control service.", nil).Render(w, req)
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()

		for _, probe := range d.Health {
			if err := probe(ctx); err != nil {
				_ = core.JSONError(core.ErrServiceUnavailable).Render(w, req)
				return
			}
		}
		_ = core.JSON(map[string]string{"status": "ok"}).Render(w, req)
	})

	r.Route("/plans", func(sub chi.Router) {
		sub.Use(d.Gate.RequireAdmin)
		sub.Mount("/", plans.Router(d.Catalog))
	})
	r.Route("/permissions", func(sub chi.Router) {
		sub.Use(d.Gate.RequireAdmin)
		sub.Mount("/", permissions.Router(d.Catalog))
	})
	r.Mount("/subscriptions", subscriptions.Router(d.Subscriptions, d.Gate))
	r.Mount("/usage", usagemod.Router(d.Usage, d.Gate))
	r.Mount("/admin/usage", usagemod.AdminRouter(d.Usage, d.Gate))
	r.Mount("/access", accessmod.Router(d.Engine))

	return r
}
