package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/bilemo/internal/auth"
	"github.com/gosuda/bilemo/internal/cache"
	"github.com/gosuda/bilemo/internal/config"
	"github.com/gosuda/bilemo/internal/domain"
	"github.com/gosuda/bilemo/internal/server"
)

const testSecret = "test-secret-that-is-at-least-32-characters-long"

type stubStore struct {
	users stubUsers
}

func (s *stubStore) Clients() domain.ClientRepository   { return nil }
func (s *stubStore) Users() domain.UserRepository       { return s.users }
func (s *stubStore) Products() domain.ProductRepository { return nil }

type stubUsers struct{}

func (stubUsers) Create(context.Context, *domain.User) error { return nil }

func (stubUsers) GetByID(context.Context, int64) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (stubUsers) ListPage(_ context.Context, scope domain.Scope, _ domain.Page) ([]*domain.User, error) {
	return []*domain.User{{
		ID:       1,
		ClientID: scope.ClientID,
		Name:     "User 1",
		Email:    "user1@example.com",
		Client:   &domain.ClientSummary{ID: scope.ClientID, Name: "Client", Email: "client@example.com"},
	}}, nil
}

func (stubUsers) Delete(context.Context, int64) error { return nil }

type stubAuth struct{}

func (stubAuth) Login(_ context.Context, email, password string) (string, error) {
	if email != "exemple3@gmail.com" || password != "exemple3" {
		return "", auth.ErrInvalidCredentials
	}
	return auth.IssueAccessToken(testSecret, 3, email, []string{domain.RoleClient}, time.Hour)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: testSecret, AccessTTL: time.Hour},
		Server: config.ServerConfig{
			Addr:         ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			CORSOrigins:  []string{"http://localhost:3000"},
			RateLimitRPS: 1000,
			RateBurst:    1000,
		},
		Pagination: config.PaginationConfig{MaxLimit: 100},
		Telemetry:  config.TelemetryConfig{ServiceName: "bilemo-test"},
	}
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rc := cache.New(cache.Config{Capacity: 100, Shards: 1, TTL: time.Minute, EvictionPercent: 10}, nil, zerolog.Nop())
	srv := server.New(ctx, testConfig(), &stubStore{}, rc, stubAuth{}, zerolog.Nop())
	return srv.Handler()
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(newHandler(t), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAPI_RequiresToken(t *testing.T) {
	h := newHandler(t)

	rec := do(h, http.MethodGet, "/api/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	rec = do(h, http.MethodGet, "/api/users", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_TokenWithoutRoleForbidden(t *testing.T) {
	token, err := auth.IssueAccessToken(testSecret, 3, "exemple3@gmail.com", nil, time.Hour)
	require.NoError(t, err)

	rec := do(newHandler(t), http.MethodGet, "/api/users", "", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginThenListUsers(t *testing.T) {
	h := newHandler(t)

	rec := do(h, http.MethodPost, "/api/login_check", `{"username":"exemple3@gmail.com","password":"exemple3"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	rec = do(h, http.MethodGet, "/api/users", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var users []struct {
		ID     int64 `json:"id"`
		Client struct {
			ID int64 `json:"id"`
		} `json:"client"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, int64(3), users[0].Client.ID)
}

func TestLogin_BadCredentials(t *testing.T) {
	rec := do(newHandler(t), http.MethodPost, "/api/login_check", `{"username":"exemple3@gmail.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHandler(t)
	do(h, http.MethodGet, "/healthz", "", "")

	rec := do(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bilemo_http_request_duration_seconds")
}
