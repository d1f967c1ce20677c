package v1

import (
	"context"

	"github.com/gosuda/bilemo/internal/cache"
	"github.com/gosuda/bilemo/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Clients() domain.ClientRepository
	Users() domain.UserRepository
	Products() domain.ProductRepository
}

// ResponseCache stores serialized list and detail payloads under tags.
// *cache.TagCache satisfies this interface.
type ResponseCache interface {
	GetOrCompute(ctx context.Context, key string, tags []string, compute cache.ComputeFunc) ([]byte, error)
	Invalidate(ctx context.Context, tags ...string) error
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}
