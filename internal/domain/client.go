package domain

import (
	"context"
	"slices"
	"time"
)

// Role names carried by clients and their access tokens.
const (
	RoleClient = "ROLE_CLIENT"
	RoleAdmin  = "ROLE_ADMIN"
)

// Client is a tenant: the company that owns a set of users and
// authenticates against the API.
type Client struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // argon2id
	Roles        []string
	CreatedAt    time.Time

	// Users is only populated by list queries that embed the client's users.
	Users []*UserSummary
}

// HasRole reports whether the client was granted role.
func (c *Client) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// ClientSummary is the subset of a client embedded in user payloads.
type ClientSummary struct {
	ID    int64
	Name  string
	Email string
}

type ClientRepository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id int64) (*Client, error)
	GetByEmail(ctx context.Context, email string) (*Client, error)
	ListPage(ctx context.Context, page Page) ([]*Client, error)
}
