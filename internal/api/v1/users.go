package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/bilemo/internal/auth"
	"github.com/gosuda/bilemo/internal/cache"
	"github.com/gosuda/bilemo/internal/domain"
)

type ListUsersInput struct {
	PageParams
}

type GetUserInput struct {
	ID int64 `path:"id" doc:"User ID"`
}

type DeleteUserInput struct {
	ID int64 `path:"id" doc:"User ID"`
}

// CreateUserInput leaves field rules to validateStruct so every problem is
// reported in one 400 body.
type CreateUserInput struct {
	Body struct {
		Name      string     `json:"name" required:"false" doc:"Display name"`
		Email     string     `json:"email" required:"false" doc:"Email address"`
		Password  string     `json:"password,omitempty" doc:"Optional password"` //nolint:gosec // G117: user credential DTO
		CreatedAt *time.Time `json:"createdAt,omitempty" doc:"Creation time, defaults to now"`
		IDClient  *int64     `json:"idClient,omitempty" doc:"Owning client ID"`
	}
}

type CreateUserOutput struct {
	Location    string `header:"Location"`
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func RegisterUserRoutes(api huma.API, store DataStore, rc ResponseCache, maxLimit int) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List users visible to the caller",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *ListUsersInput) (*JSONOutput, error) {
		caller, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}

		scope := auth.ScopeFor(caller)
		page := input.resolve(maxLimit)
		body, err := rc.GetOrCompute(ctx, cache.UsersPageKey(scope, page), []string{cache.TagUsers}, func(ctx context.Context) ([]byte, error) {
			users, err := store.Users().ListPage(ctx, scope, page)
			if err != nil {
				return nil, err
			}
			return render(mapViews(users, newUserView))
		})
		if err != nil {
			return nil, mapError(err, "users", "list")
		}
		return jsonOutput(body), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/users/{id}",
		Summary:     "Get a user by ID",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *GetUserInput) (*JSONOutput, error) {
		caller, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}

		u, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			return nil, mapError(err, "user", "get")
		}
		if err := auth.AuthorizeRead(caller, u); err != nil {
			return nil, mapError(err, "user", "get")
		}

		body, err := render(newUserView(u))
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to render user", err)
		}
		return jsonOutput(body), nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-user",
		Method:        http.MethodPost,
		Path:          "/users",
		Summary:       "Create a user for a client",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateUserInput) (*CreateUserOutput, error) {
		caller, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}

		candidate := userCandidate{Name: input.Body.Name, Email: input.Body.Email}
		var owner *domain.Client
		if input.Body.IDClient != nil {
			owner, err = store.Clients().GetByID(ctx, *input.Body.IDClient)
			switch {
			case err == nil:
				candidate.ClientID = owner.ID
			case !errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error500InternalServerError("failed to resolve client", err)
			}
		}

		if verrs := validateStruct(candidate); len(verrs) > 0 {
			return nil, verrs
		}
		if err := auth.AuthorizeCreate(caller, candidate.ClientID); err != nil {
			return nil, mapError(err, "client", "create users for")
		}

		u := &domain.User{
			ClientID:  candidate.ClientID,
			Name:      candidate.Name,
			Email:     candidate.Email,
			CreatedAt: time.Now().UTC(),
		}
		if input.Body.CreatedAt != nil {
			u.CreatedAt = input.Body.CreatedAt.UTC()
		}
		if input.Body.Password != "" {
			hash, err := auth.HashPassword(input.Body.Password)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to hash password", err)
			}
			u.PasswordHash = hash
		}

		if err := store.Users().Create(ctx, u); err != nil {
			// The client vanished between resolution and insert.
			if errors.Is(err, domain.ErrNotFound) {
				return nil, ValidationErrors{"idClient does not reference an existing client."}
			}
			return nil, huma.Error500InternalServerError("failed to create user", err)
		}
		u.Client = &domain.ClientSummary{ID: owner.ID, Name: owner.Name, Email: owner.Email}

		invalidate(ctx, rc, cache.TagUsers, cache.TagClients)

		body, err := render(newUserView(u))
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to render user", err)
		}
		return &CreateUserOutput{Location: userURL(u.ID), ContentType: contentTypeJSON, Body: body}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-user",
		Method:        http.MethodDelete,
		Path:          "/users/{id}",
		Summary:       "Delete a user",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *DeleteUserInput) (*struct{}, error) {
		caller, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}

		u, err := store.Users().GetByID(ctx, input.ID)
		if err != nil {
			return nil, mapError(err, "user", "delete")
		}
		if err := auth.AuthorizeWrite(caller, u); err != nil {
			return nil, mapError(err, "user", "delete")
		}

		if err := store.Users().Delete(ctx, u.ID); err != nil {
			return nil, mapError(err, "user", "delete")
		}

		invalidate(ctx, rc, cache.TagUsers, cache.TagClients)
		return nil, nil
	})
}
