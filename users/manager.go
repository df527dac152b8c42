package users

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-grant-engine/clients"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthenticationManager is the user-facing collaborator consumed by the grant
// engine. Lookups return (nil, nil) when no user matches so granters can
// distinguish a miss (invalid_grant) from an infrastructure failure.
type AuthenticationManager interface {
	// Authenticate verifies a username/password pair against the client's
	// configured identity sources.
	Authenticate(ctx context.Context, client *clients.Client, username, password string) (*User, error)

	// LoadPreAuthenticatedUserBySubject rehydrates a user already
	// authenticated in a previous step (authorization code, refresh token,
	// CIBA request) from its subject identifier.
	LoadPreAuthenticatedUserBySubject(ctx context.Context, subject string, client *clients.Client) (*User, error)

	// LoadPreAuthenticatedUser looks a user up by username within a specific
	// identity source.
	LoadPreAuthenticatedUser(ctx context.Context, username, source string, client *clients.Client) (*User, error)

	// Connect creates or updates a local user record from an externally
	// asserted profile and returns the connected user.
	Connect(ctx context.Context, profile *User) (*User, error)
}
