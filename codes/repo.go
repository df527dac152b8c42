package codes

import (
	"context"

	"github.com/jrsteele09/go-grant-engine/clients"
)

// Repo redeems authorization codes. At-most-once is the store's contract: two
// concurrent redemptions of the same code must race such that at most one
// succeeds; the granter cannot provide that guarantee itself.
type Repo interface {
	// Redeem atomically consumes the code for the given client and returns it,
	// or nil when the code does not exist, was already redeemed, expired, or
	// belongs to another client.
	Redeem(ctx context.Context, code string, client *clients.Client) (*AuthorizationCode, error)
}
