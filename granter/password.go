package granter

import (
	"context"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/domains"
	"github.com/jrsteele09/go-grant-engine/oauth2"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
	"github.com/jrsteele09/go-grant-engine/users"
	"github.com/pkg/errors"
)

// PasswordGranter authenticates a resource owner's username/password pair
// against the client's identity sources (ROPC, RFC 6749 §4.3).
type PasswordGranter struct {
	users users.AuthenticationManager
}

func NewPasswordGranter(userManager users.AuthenticationManager) (*PasswordGranter, error) {
	if userManager == nil {
		return nil, errors.New("[NewPasswordGranter] user authentication manager is required")
	}
	return &PasswordGranter{users: userManager}, nil
}

func (g *PasswordGranter) Supports(grantType string, client *clients.Client, _ *domains.Domain) bool {
	return supportsBase(grantType, oauth2.PasswordGrant, client)
}

func (g *PasswordGranter) Grant(ctx context.Context, _ *domains.Domain, req *oauthmodel.TokenRequest, client *clients.Client) (*oauthmodel.TokenCreationRequest, error) {
	username := req.Parameter(oauth2.ParamUsername)
	password := req.Parameter(oauth2.ParamPassword)
	if username == "" || password == "" {
		return nil, oauth2.NewRequestError("missing parameter: username and password are required")
	}

	user, err := g.users.Authenticate(ctx, client, username, password)
	if err != nil {
		return nil, oauth2.WrapGrant(err, "unable to authenticate the resource owner")
	}
	if user == nil {
		return nil, oauth2.NewGrantError("invalid credentials")
	}

	return &oauthmodel.TokenCreationRequest{
		Request:             req,
		User:                user,
		SupportRefreshToken: client.SupportsGrantType(oauth2.RefreshTokenGrant),
	}, nil
}
