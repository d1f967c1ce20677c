package v1_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/bilemo/internal/api/v1"
	"github.com/gosuda/bilemo/internal/auth"
)

type mockAuthService struct {
	loginFunc func(ctx context.Context, email, password string) (string, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return m.loginFunc(ctx, email, password)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		loginErr   error
		wantStatus int
	}{
		{name: "happy_path", wantStatus: http.StatusOK},
		{name: "bad_credentials", loginErr: auth.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "service_failure", loginErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotEmail, gotPassword string
			svc := &mockAuthService{loginFunc: func(_ context.Context, email, password string) (string, error) {
				gotEmail, gotPassword = email, password
				if tt.loginErr != nil {
					return "", tt.loginErr
				}
				return "signed.jwt.token", nil
			}}
			_, api := humatest.New(t)
			v1.RegisterAuthRoutes(api, svc)

			resp := api.Post("/login_check", map[string]any{
				"username": "exemple1@gmail.com",
				"password": "exemple1",
			})
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Equal(t, "exemple1@gmail.com", gotEmail)
			assert.Equal(t, "exemple1", gotPassword)

			if tt.wantStatus == http.StatusOK {
				body := decode[struct {
					Token string `json:"token"`
				}](t, resp)
				assert.Equal(t, "signed.jwt.token", body.Token)
			}
		})
	}
}

func TestLogin_MissingPasswordRejected(t *testing.T) {
	called := false
	svc := &mockAuthService{loginFunc: func(context.Context, string, string) (string, error) {
		called = true
		return "", nil
	}}
	_, api := humatest.New(t)
	v1.RegisterAuthRoutes(api, svc)

	resp := api.Post("/login_check", map[string]any{"username": "exemple1@gmail.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.False(t, called)
}
