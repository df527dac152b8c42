package granter

import (
	"context"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/domains"
	"github.com/jrsteele09/go-grant-engine/oauth2"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
)

// ClientCredentialsGranter issues tokens to the client itself. No resource
// owner, and per RFC 6749 §4.4.3 a refresh token should not be included, so
// the result is never refresh-eligible.
type ClientCredentialsGranter struct{}

func NewClientCredentialsGranter() *ClientCredentialsGranter {
	return &ClientCredentialsGranter{}
}

func (g *ClientCredentialsGranter) Supports(grantType string, client *clients.Client, _ *domains.Domain) bool {
	return supportsBase(grantType, oauth2.ClientCredentialsGrant, client)
}

func (g *ClientCredentialsGranter) Grant(_ context.Context, _ *domains.Domain, req *oauthmodel.TokenRequest, _ *clients.Client) (*oauthmodel.TokenCreationRequest, error) {
	return &oauthmodel.TokenCreationRequest{
		Request:             req,
		SupportRefreshToken: false,
	}, nil
}
