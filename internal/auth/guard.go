package auth

import (
	"slices"

	"github.com/gosuda/bilemo/internal/domain"
)

// Caller is the authenticated client behind a request.
type Caller struct {
	ClientID int64
	Email    string
	Roles    []string
}

// CallerFromClaims builds the caller from a validated token.
func CallerFromClaims(c *Claims) Caller {
	return Caller{ClientID: c.ClientID, Email: c.Subject, Roles: c.Roles}
}

func (c Caller) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// ScopeFor returns the user scope the caller may see: everything for
// admins, otherwise only the users of the caller's own client.
func ScopeFor(c Caller) domain.Scope {
	if c.HasRole(domain.RoleAdmin) {
		return domain.Scope{Unrestricted: true}
	}
	return domain.Scope{ClientID: c.ClientID}
}

// AuthorizeRead allows reading u when it belongs to the caller's scope.
func AuthorizeRead(c Caller, u *domain.User) error {
	return authorizeClient(c, u.ClientID)
}

// AuthorizeWrite allows deleting u when it belongs to the caller's scope.
func AuthorizeWrite(c Caller, u *domain.User) error {
	return authorizeClient(c, u.ClientID)
}

// AuthorizeCreate allows creating a user owned by clientID.
func AuthorizeCreate(c Caller, clientID int64) error {
	return authorizeClient(c, clientID)
}

func authorizeClient(c Caller, clientID int64) error {
	if !ScopeFor(c).Allows(clientID) {
		return domain.ErrForbidden
	}
	return nil
}
