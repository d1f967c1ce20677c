package domain

import (
	"context"
	"time"
)

type User struct {
	ID           int64
	ClientID     int64
	Name         string
	Email        string
	PasswordHash string // argon2id, empty when no password was supplied
	CreatedAt    time.Time

	// Client is filled in by reads that join the owning client.
	Client *ClientSummary
}

// UserSummary is the subset of a user embedded in client payloads.
type UserSummary struct {
	ID       int64
	ClientID int64
	Name     string
	Email    string
}

// Scope restricts which users a listing may return. The zero value matches
// nothing; use Unrestricted for a global listing.
type Scope struct {
	ClientID     int64
	Unrestricted bool
}

// Allows reports whether a user owned by clientID is visible in the scope.
func (s Scope) Allows(clientID int64) bool {
	return s.Unrestricted || (s.ClientID != 0 && s.ClientID == clientID)
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	ListPage(ctx context.Context, scope Scope, page Page) ([]*User, error)
	Delete(ctx context.Context, id int64) error
}
