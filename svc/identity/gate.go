package identity

import (
	"context"
	"log/slog"
	"net/http"
)

// DefaultHeader is the trusted header carrying the caller's user id.
const DefaultHeader = "user_id"

// Config controls the gate via environment variables.
type Config struct {
	Header string `env:"IDENTITY_HEADER" envDefault:"user_id"` // Header is the trusted identity header name.
}

// Gate resolves request identities through the cache and directory.
type Gate struct {
	header string
	dir    Directory
	cache  Cache
	log    *slog.Logger
}

func NewGate(cfg Config, dir Directory, cache Cache, log *slog.Logger) *Gate {
	if cfg.Header == "" {
		cfg.Header = DefaultHeader
	}
	if cache == nil {
		cache = NoopCache{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Gate{header: cfg.Header, dir: dir, cache: cache, log: log}
}

// Resolve extracts the caller identity from the request. It fails with
// ErrMissingIdentity when the header is absent and ErrUnknownUser when the
// directory has no record.
func (g *Gate) Resolve(ctx context.Context, r *http.Request) (*Identity, error) {
	userID := r.Header.Get(g.header)
	if userID == "" {
		return nil, ErrMissingIdentity
	}

	if role, ok := g.cache.Get(ctx, userID); ok {
		return &Identity{UserID: userID, Role: role}, nil
	}

	user, err := g.dir.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := g.cache.Set(ctx, userID, user.Role); err != nil {
		// Cache failures must not fail the request.
		g.log.WarnContext(ctx, "identity cache write failed",
			slog.String("user_id", userID), slog.Any("error", err))
	}

	return &Identity{UserID: userID, Role: user.Role}, nil
}
