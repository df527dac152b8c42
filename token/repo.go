package token

import (
	"context"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
)

// Repo is the token store contract the refresh_token granter depends on. The
// store enforces expiry, revocation and client binding; a rejected token comes
// back as an error whose message the granter surfaces as invalid_grant.
type Repo interface {
	// Refresh validates the refresh token for the given request and client and
	// returns its stored view.
	Refresh(ctx context.Context, refreshToken string, req *oauthmodel.TokenRequest, client *clients.Client) (*Token, error)
}
