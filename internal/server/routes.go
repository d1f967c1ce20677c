package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/gosuda/bilemo/internal/api/v1"
)

func registerAuthRoutes(api huma.API, authSvc v1.AuthService) {
	v1.RegisterAuthRoutes(api, authSvc)
}

func registerAPIRoutes(api huma.API, store v1.DataStore, rc v1.ResponseCache, maxLimit int) {
	v1.RegisterClientRoutes(api, store, rc, maxLimit)
	v1.RegisterProductRoutes(api, store, rc, maxLimit)
	v1.RegisterUserRoutes(api, store, rc, maxLimit)
}
