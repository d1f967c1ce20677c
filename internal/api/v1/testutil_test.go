package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/bilemo/internal/api/v1"
	"github.com/gosuda/bilemo/internal/auth"
	"github.com/gosuda/bilemo/internal/cache"
	"github.com/gosuda/bilemo/internal/domain"
	"github.com/gosuda/bilemo/internal/server/middleware"
)

const testMaxLimit = 100

// ---------------------------------------------------------------------------
// Context helpers: inject the authenticated caller for DoCtx
// ---------------------------------------------------------------------------

func clientCtx(clientID int64) context.Context {
	return middleware.WithCaller(context.Background(), auth.Caller{
		ClientID: clientID,
		Email:    fmt.Sprintf("exemple%d@gmail.com", clientID),
		Roles:    []string{domain.RoleClient},
	})
}

func adminCtx() context.Context {
	return middleware.WithCaller(context.Background(), auth.Caller{
		ClientID: 1,
		Email:    "exemple1@gmail.com",
		Roles:    []string{domain.RoleClient, domain.RoleAdmin},
	})
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	clients  *mockClientRepo
	users    *mockUserRepo
	products *mockProductRepo
}

func (m *mockDataStore) Clients() domain.ClientRepository   { return m.clients }
func (m *mockDataStore) Users() domain.UserRepository       { return m.users }
func (m *mockDataStore) Products() domain.ProductRepository { return m.products }

type mockClientRepo struct {
	createFunc     func(ctx context.Context, c *domain.Client) error
	getByIDFunc    func(ctx context.Context, id int64) (*domain.Client, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.Client, error)
	listPageFunc   func(ctx context.Context, page domain.Page) ([]*domain.Client, error)
}

func (m *mockClientRepo) Create(ctx context.Context, c *domain.Client) error {
	return m.createFunc(ctx, c)
}

func (m *mockClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockClientRepo) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockClientRepo) ListPage(ctx context.Context, page domain.Page) ([]*domain.Client, error) {
	return m.listPageFunc(ctx, page)
}

type mockUserRepo struct {
	createFunc   func(ctx context.Context, u *domain.User) error
	getByIDFunc  func(ctx context.Context, id int64) (*domain.User, error)
	listPageFunc func(ctx context.Context, scope domain.Scope, page domain.Page) ([]*domain.User, error)
	deleteFunc   func(ctx context.Context, id int64) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) ListPage(ctx context.Context, scope domain.Scope, page domain.Page) ([]*domain.User, error) {
	return m.listPageFunc(ctx, scope, page)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

type mockProductRepo struct {
	createFunc   func(ctx context.Context, p *domain.Product) error
	getByIDFunc  func(ctx context.Context, id int64) (*domain.Product, error)
	listPageFunc func(ctx context.Context, page domain.Page) ([]*domain.Product, error)
}

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return m.createFunc(ctx, p)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockProductRepo) ListPage(ctx context.Context, page domain.Page) ([]*domain.Product, error) {
	return m.listPageFunc(ctx, page)
}

// ---------------------------------------------------------------------------
// In-memory fixture wired through the mocks
// ---------------------------------------------------------------------------

// fixture mirrors the seeded database: 10 clients, 20 users where user i
// belongs to client ((i-1) % 10) + 1, and 20 products.
type fixture struct {
	mu       sync.Mutex
	clients  []*domain.Client
	users    []*domain.User
	products []*domain.Product
	nextUser int64

	calls map[string]int
}

var fixtureTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{nextUser: 21, calls: make(map[string]int)}
	for i := int64(1); i <= 10; i++ {
		f.clients = append(f.clients, &domain.Client{
			ID:        i,
			Name:      fmt.Sprintf("Client %d", i),
			Email:     fmt.Sprintf("exemple%d@gmail.com", i),
			Roles:     []string{domain.RoleClient},
			CreatedAt: fixtureTime,
		})
	}
	for i := int64(1); i <= 20; i++ {
		f.users = append(f.users, &domain.User{
			ID:        i,
			ClientID:  (i-1)%10 + 1,
			Name:      fmt.Sprintf("User %d", i),
			Email:     fmt.Sprintf("user%d@example.com", i),
			CreatedAt: fixtureTime,
		})
	}
	for i := int64(1); i <= 20; i++ {
		f.products = append(f.products, &domain.Product{
			ID:          i,
			Name:        fmt.Sprintf("Mobile de série %d", i),
			Description: fmt.Sprintf("Super mobile de série %d", i),
			Price:       "15.99",
			CreatedAt:   fixtureTime,
		})
	}
	return f
}

func (f *fixture) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fixture) userCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func (f *fixture) storedUser(id int64) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func pageOf[T any](items []T, p domain.Page) []T {
	start := min(p.Offset(), len(items))
	end := min(start+p.Limit, len(items))
	return slices.Clone(items[start:end])
}

// Callers hold f.mu.
func (f *fixture) clientWithUsers(c *domain.Client) *domain.Client {
	out := *c
	out.Users = nil
	for _, u := range f.users {
		if u.ClientID == c.ID {
			out.Users = append(out.Users, &domain.UserSummary{ID: u.ID, ClientID: u.ClientID, Name: u.Name, Email: u.Email})
		}
	}
	return &out
}

// Callers hold f.mu.
func (f *fixture) userWithClient(u *domain.User) *domain.User {
	out := *u
	for _, c := range f.clients {
		if c.ID == u.ClientID {
			out.Client = &domain.ClientSummary{ID: c.ID, Name: c.Name, Email: c.Email}
		}
	}
	return &out
}

func (f *fixture) store() *mockDataStore {
	return &mockDataStore{
		clients: &mockClientRepo{
			getByIDFunc: func(_ context.Context, id int64) (*domain.Client, error) {
				f.mu.Lock()
				defer f.mu.Unlock()
				f.calls["clients.GetByID"]++
				for _, c := range f.clients {
					if c.ID == id {
						return f.clientWithUsers(c), nil
					}
				}
				return nil, domain.ErrNotFound
			},
			listPageFunc: func(_ context.Context, page domain.Page) ([]*domain.Client, error) {
				f.mu.Lock()
				defer f.mu.Unlock()
				f.calls["clients.ListPage"]++
				var out []*domain.Client
				for _, c := range pageOf(f.clients, page) {
					out = append(out, f.clientWithUsers(c))
				}
				return out, nil
			},
		},
		users: &mockUserRepo{
			createFunc: func(_ context.Context, u *domain.User) error {
				f.mu.Lock()
				defer f.mu.Unlock()
				f.calls["users.Create"]++
				u.ID = f.nextUser
				f.nextUser++
				stored := *u
				f.users = append(f.users, &stored)
				return nil
			},
			getByIDFunc: func(_ context.Context, id int64) (*domain.User, error) {
				f.mu.Lock()
				defer f.mu.Unlock()
				f.calls["users.GetByID"]++
				for _, u := range f.users {
					if u.ID == id {
						return f.userWithClient(u), nil
					}
				}
				return nil, domain.ErrNotFound
			},
			listPageFunc: func(_ context.Context, scope domain.Scope, page domain.Page) ([]*domain.User, error) {
				f.mu.Lock()
				defer f.mu.Unlock()
				f.calls["users.ListPage"]++
				var visible []*domain.User
				for _, u := range f.users {
					if scope.Allows(u.ClientID) {
						visible = append(visible, f.userWithClient(u))
					}
				}
				return pageOf(visible, page), nil
			},
			deleteFunc: func(_ context.Context, id int64) error {
				f.mu.Lock()
				defer f.mu.Unlock()
				f.calls["users.Delete"]++
				i := slices.IndexFunc(f.users, func(u *domain.User) bool { return u.ID == id })
				if i < 0 {
					return domain.ErrNotFound
				}
				f.users = slices.Delete(f.users, i, i+1)
				return nil
			},
		},
		products: &mockProductRepo{
			getByIDFunc: func(_ context.Context, id int64) (*domain.Product, error) {
				f.mu.Lock()
				defer f.mu.Unlock()
				f.calls["products.GetByID"]++
				for _, p := range f.products {
					if p.ID == id {
						cp := *p
						return &cp, nil
					}
				}
				return nil, domain.ErrNotFound
			},
			listPageFunc: func(_ context.Context, page domain.Page) ([]*domain.Product, error) {
				f.mu.Lock()
				defer f.mu.Unlock()
				f.calls["products.ListPage"]++
				return pageOf(f.products, page), nil
			},
		},
	}
}

// ---------------------------------------------------------------------------
// Response cache spy
// ---------------------------------------------------------------------------

// spyCache delegates to a real TagCache and records invalidations.
type spyCache struct {
	*cache.TagCache

	mu            sync.Mutex
	invalidations [][]string
	invalidateErr error
}

func newSpyCache() *spyCache {
	return &spyCache{TagCache: cache.New(cache.Config{
		Capacity:        1000,
		Shards:          4,
		TTL:             time.Hour,
		EvictionPercent: 10,
	}, nil, zerolog.Nop())}
}

func (s *spyCache) Invalidate(ctx context.Context, tags ...string) error {
	s.mu.Lock()
	s.invalidations = append(s.invalidations, slices.Clone(tags))
	s.mu.Unlock()
	if err := s.TagCache.Invalidate(ctx, tags...); err != nil {
		return err
	}
	return s.invalidateErr
}

func (s *spyCache) invalidated() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.invalidations)
}

// ---------------------------------------------------------------------------
// API setup
// ---------------------------------------------------------------------------

func newTestAPI(t *testing.T, store v1.DataStore, rc v1.ResponseCache) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	v1.RegisterClientRoutes(api, store, rc, testMaxLimit)
	v1.RegisterProductRoutes(api, store, rc, testMaxLimit)
	v1.RegisterUserRoutes(api, store, rc, testMaxLimit)
	return api
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out
}
