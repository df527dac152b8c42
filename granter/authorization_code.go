package granter

import (
	"context"

	"github.com/jrsteele09/go-grant-engine/authflow"
	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/codes"
	"github.com/jrsteele09/go-grant-engine/domains"
	"github.com/jrsteele09/go-grant-engine/oauth2"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
	"github.com/jrsteele09/go-grant-engine/users"
	"github.com/pkg/errors"
)

// AuthorizationCodeGranter exchanges a one-time authorization code for a token
// creation request: atomic code redemption, redirect URI binding, PKCE
// verification, flow context release, resource owner resolution and resource
// indicator reconciliation, strictly in that order.
type AuthorizationCodeGranter struct {
	codes    codes.Repo
	users    users.AuthenticationManager
	flow     authflow.Repo
	resolver ResourceConsistencyResolver
}

// NewAuthorizationCodeGranter wires the granter's collaborators. All are required.
func NewAuthorizationCodeGranter(codeRepo codes.Repo, userManager users.AuthenticationManager, flowRepo authflow.Repo, resolver ResourceConsistencyResolver) (*AuthorizationCodeGranter, error) {
	if codeRepo == nil {
		return nil, errors.New("[NewAuthorizationCodeGranter] code repo is required")
	}
	if userManager == nil {
		return nil, errors.New("[NewAuthorizationCodeGranter] user authentication manager is required")
	}
	if flowRepo == nil {
		return nil, errors.New("[NewAuthorizationCodeGranter] authentication flow repo is required")
	}
	if resolver == nil {
		return nil, errors.New("[NewAuthorizationCodeGranter] resource consistency resolver is required")
	}
	return &AuthorizationCodeGranter{
		codes:    codeRepo,
		users:    userManager,
		flow:     flowRepo,
		resolver: resolver,
	}, nil
}

func (g *AuthorizationCodeGranter) Supports(grantType string, client *clients.Client, _ *domains.Domain) bool {
	return supportsBase(grantType, oauth2.AuthorizationCodeGrant, client)
}

func (g *AuthorizationCodeGranter) Grant(ctx context.Context, domain *domains.Domain, req *oauthmodel.TokenRequest, client *clients.Client) (*oauthmodel.TokenCreationRequest, error) {
	code := req.Parameter(oauth2.ParamCode)
	if code == "" {
		return nil, oauth2.NewRequestError("missing parameter: code")
	}

	// Atomic one-shot redemption; the store guarantees at most one success per code.
	authCode, err := g.codes.Redeem(ctx, code, client)
	if err != nil {
		return nil, oauth2.WrapGrant(err, "unable to redeem authorization code")
	}
	if authCode == nil {
		return nil, oauth2.NewGrantError("invalid authorization code")
	}

	// The token request must repeat the redirect_uri the authorization request
	// carried; without an original one, a supplied value is ignored.
	if originalRedirect := authCode.RequestParameters.Get(oauth2.ParamRedirectURI); originalRedirect != "" {
		if req.Parameter(oauth2.ParamRedirectURI) != originalRedirect {
			return nil, oauth2.NewGrantError("redirect_uri does not match the authorization request")
		}
	}

	if challenge := authCode.RequestParameters.Get(oauth2.ParamCodeChallenge); challenge != "" {
		method := oauth2.CodeMethodType(authCode.RequestParameters.Get(oauth2.ParamCodeChallengeMethod))
		if err := ValidateCodeVerifier(challenge, method, req.Parameter(oauth2.ParamCodeVerifier)); err != nil {
			return nil, err
		}
	}

	flowContext, err := g.flow.Release(ctx, authCode.TransactionID, authCode.ContextVersion)
	if err != nil {
		if domain.FlowContextMode != domains.FlowContextOptional {
			return nil, oauth2.WrapGrant(err, "authentication flow context is no longer available")
		}
		flowContext = authflow.Empty(authCode.TransactionID, authCode.ContextVersion)
	}
	for key, value := range flowContext.Data {
		req.SetContextValue(key, value)
	}

	user, err := g.users.LoadPreAuthenticatedUserBySubject(ctx, authCode.Subject, client)
	if err != nil {
		return nil, oauth2.WrapGrant(err, "unable to resolve the authorizing user")
	}
	if user == nil {
		return nil, oauth2.NewGrantError("user not found")
	}

	resolved, err := g.resolver.Resolve(ctx, req, client, authCode.Resources)
	if err != nil {
		return nil, oauth2.WrapGrant(err, "unable to reconcile resource indicators")
	}
	req.ResolveResources(resolved)

	if len(authCode.Scopes) > 0 {
		req.Scopes = authCode.Scopes
	}
	req.MergeParameters(authCode.RequestParameters)

	return &oauthmodel.TokenCreationRequest{
		Request:             req,
		User:                user,
		SupportRefreshToken: client.SupportsGrantType(oauth2.RefreshTokenGrant),
	}, nil
}
