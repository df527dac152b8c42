package granter

import (
	"context"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/domains"
	"github.com/jrsteele09/go-grant-engine/internal/utils"
	"github.com/jrsteele09/go-grant-engine/oauth2"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
	"github.com/jrsteele09/go-grant-engine/token"
	"github.com/jrsteele09/go-grant-engine/users"
	"github.com/pkg/errors"
)

// RefreshTokenGranter exchanges a previously issued refresh token for a new
// token creation request. The store validates the token itself (expiry,
// revocation, client binding); the granter narrows scopes, reconciles resource
// indicators and rehydrates the user.
type RefreshTokenGranter struct {
	tokens   token.Repo
	users    users.AuthenticationManager
	resolver ResourceConsistencyResolver
}

func NewRefreshTokenGranter(tokenRepo token.Repo, userManager users.AuthenticationManager, resolver ResourceConsistencyResolver) (*RefreshTokenGranter, error) {
	if tokenRepo == nil {
		return nil, errors.New("[NewRefreshTokenGranter] token repo is required")
	}
	if userManager == nil {
		return nil, errors.New("[NewRefreshTokenGranter] user authentication manager is required")
	}
	if resolver == nil {
		return nil, errors.New("[NewRefreshTokenGranter] resource consistency resolver is required")
	}
	return &RefreshTokenGranter{
		tokens:   tokenRepo,
		users:    userManager,
		resolver: resolver,
	}, nil
}

func (g *RefreshTokenGranter) Supports(grantType string, client *clients.Client, _ *domains.Domain) bool {
	return supportsBase(grantType, oauth2.RefreshTokenGrant, client)
}

func (g *RefreshTokenGranter) Grant(ctx context.Context, _ *domains.Domain, req *oauthmodel.TokenRequest, client *clients.Client) (*oauthmodel.TokenCreationRequest, error) {
	refreshToken := req.Parameter(oauth2.ParamRefreshToken)
	if refreshToken == "" {
		return nil, oauth2.NewRequestError("missing parameter: refresh_token")
	}

	stored, err := g.tokens.Refresh(ctx, refreshToken, req, client)
	if err != nil {
		return nil, oauth2.WrapGrant(err, "refresh token is not valid")
	}
	if stored == nil {
		return nil, oauth2.NewGrantError("refresh token is not valid")
	}

	// Scope narrowing: no requested scopes inherits the original set verbatim;
	// requested scopes intersect with the original set, never exceeding it. An
	// empty original scope string places no constraint.
	originalScopes := oauthmodel.SplitScopes(stored.Scope)
	if len(req.Scopes) == 0 {
		req.Scopes = originalScopes
	} else if len(originalScopes) > 0 {
		req.Scopes = intersectScopes(req.Scopes, originalScopes)
	}

	originalResources := resourceIndicators(stored.AdditionalInformation[token.AdditionalInfoResources])
	resolved, err := g.resolver.Resolve(ctx, req, client, originalResources)
	if err != nil {
		return nil, oauth2.WrapGrant(err, "unable to reconcile resource indicators")
	}
	req.ResolveResources(resolved)

	// A token with no subject is a service-level refresh: no resolved user.
	var user *users.User
	if stored.Subject != "" {
		user, err = g.users.LoadPreAuthenticatedUserBySubject(ctx, stored.Subject, client)
		if err != nil {
			return nil, oauth2.WrapGrant(err, "unable to resolve the token's user")
		}
		if user == nil {
			return nil, oauth2.NewGrantError("user not found")
		}
	}

	return &oauthmodel.TokenCreationRequest{
		Request:             req,
		User:                user,
		SupportRefreshToken: client.RefreshTokenRotation && client.SupportsGrantType(oauth2.RefreshTokenGrant),
	}, nil
}

func intersectScopes(requested, original []string) []string {
	allowed := make(map[string]struct{}, len(original))
	for _, s := range original {
		allowed[s] = struct{}{}
	}
	result := make([]string, 0, len(requested))
	for _, s := range requested {
		if _, ok := allowed[s]; ok {
			result = append(result, s)
		}
	}
	return result
}

// resourceIndicators reads the issuance-time resource indicators out of the
// token's additional-information map, tolerating both deserialized ([]any) and
// native ([]string) shapes.
func resourceIndicators(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		return utils.ToStringSlice(v)
	}
	return nil
}
