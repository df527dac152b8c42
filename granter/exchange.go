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

// ExchangeResult is what the token exchange collaborator hands back after
// validating the subject (and optional actor) tokens.
type ExchangeResult struct {
	// User is the resolved subject, nil when the exchanged token carries no
	// resource owner.
	User *users.User

	// IssuedTokenType is the RFC 8693 issued_token_type value.
	IssuedTokenType string

	// ExpiresIn is the requested lifetime of the issued token in seconds.
	ExpiresIn int64

	SubjectTokenID   string
	SubjectTokenType string
	ActorTokenID     string
	ActorTokenType   string

	// Actor carries the act claim content for delegation scenarios.
	Actor map[string]any

	// SupportRefreshToken reflects the exchange policy's decision on refresh
	// eligibility.
	SupportRefreshToken bool
}

// Exchanger performs the actual RFC 8693 token exchange: subject/actor token
// validation and subject resolution.
type Exchanger interface {
	Exchange(ctx context.Context, req *oauthmodel.TokenRequest, client *clients.Client) (*ExchangeResult, error)
}

// TokenExchangeGranter gates the exchange on the domain feature flag and
// adapts the collaborator's result into the common output shape; it adds no
// protocol logic of its own.
type TokenExchangeGranter struct {
	exchanger Exchanger
}

func NewTokenExchangeGranter(exchanger Exchanger) (*TokenExchangeGranter, error) {
	if exchanger == nil {
		return nil, errors.New("[NewTokenExchangeGranter] exchanger is required")
	}
	return &TokenExchangeGranter{exchanger: exchanger}, nil
}

func (g *TokenExchangeGranter) Supports(grantType string, client *clients.Client, domain *domains.Domain) bool {
	return supportsBase(grantType, oauth2.TokenExchangeGrant, client) && domain.TokenExchangeEnabled
}

func (g *TokenExchangeGranter) Grant(ctx context.Context, _ *domains.Domain, req *oauthmodel.TokenRequest, client *clients.Client) (*oauthmodel.TokenCreationRequest, error) {
	result, err := g.exchanger.Exchange(ctx, req, client)
	if err != nil {
		return nil, oauth2.WrapGrant(err, "token exchange failed")
	}

	return &oauthmodel.TokenCreationRequest{
		Request:             req,
		User:                result.User,
		SupportRefreshToken: result.SupportRefreshToken,
		AdditionalData: map[string]any{
			"issued_token_type":  result.IssuedTokenType,
			"expires_in":         result.ExpiresIn,
			"subject_token_id":   result.SubjectTokenID,
			"subject_token_type": result.SubjectTokenType,
			"actor_token_id":     result.ActorTokenID,
			"actor_token_type":   result.ActorTokenType,
			"actor":              result.Actor,
		},
	}, nil
}
