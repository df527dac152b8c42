package granter

import (
	"context"

	"github.com/jrsteele09/go-grant-engine/ciba"
	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/domains"
	"github.com/jrsteele09/go-grant-engine/internal/utils"
	"github.com/jrsteele09/go-grant-engine/oauth2"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
	"github.com/jrsteele09/go-grant-engine/users"
	"github.com/pkg/errors"
)

// CibaGranter redeems an approved backchannel authentication request
// (auth_req_id) for a token creation request. Retrieval is domain-scoped and
// client-bound: a request owned by another client is indistinguishable from a
// missing one, so nothing leaks across clients.
type CibaGranter struct {
	requests ciba.Repo
	users    users.AuthenticationManager
}

func NewCibaGranter(requestRepo ciba.Repo, userManager users.AuthenticationManager) (*CibaGranter, error) {
	if requestRepo == nil {
		return nil, errors.New("[NewCibaGranter] auth request repo is required")
	}
	if userManager == nil {
		return nil, errors.New("[NewCibaGranter] user authentication manager is required")
	}
	return &CibaGranter{requests: requestRepo, users: userManager}, nil
}

func (g *CibaGranter) Supports(grantType string, client *clients.Client, domain *domains.Domain) bool {
	return supportsBase(grantType, oauth2.CibaGrant, client) && domain.CIBAEnabled
}

func (g *CibaGranter) Grant(ctx context.Context, domain *domains.Domain, req *oauthmodel.TokenRequest, client *clients.Client) (*oauthmodel.TokenCreationRequest, error) {
	authReqID := req.Parameter(oauth2.ParamAuthReqID)
	if authReqID == "" {
		return nil, oauth2.NewRequestError("missing parameter: auth_req_id")
	}

	authRequest, err := g.requests.Retrieve(ctx, domain, authReqID, client)
	if err != nil {
		return nil, oauth2.WrapGrant(err, "unable to retrieve the authentication request")
	}
	if authRequest == nil {
		return nil, oauth2.NewGrantError("invalid auth_req_id")
	}

	if acrValues := acrFromExternalInfo(authRequest.ExternalInformation); len(acrValues) > 0 {
		req.SetContextValue(ciba.ExternalInfoACRValues, acrValues)
	}
	if len(authRequest.Scopes) > 0 {
		req.Scopes = authRequest.Scopes
	}

	user, err := g.users.LoadPreAuthenticatedUserBySubject(ctx, authRequest.Subject, client)
	if err != nil {
		return nil, oauth2.WrapGrant(err, "unable to resolve the authenticated user")
	}
	if user == nil {
		return nil, oauth2.NewGrantError("user not found")
	}

	return &oauthmodel.TokenCreationRequest{
		Request:             req,
		User:                user,
		SupportRefreshToken: client.SupportsGrantType(oauth2.RefreshTokenGrant),
	}, nil
}

func acrFromExternalInfo(info map[string]any) []string {
	switch v := info[ciba.ExternalInfoACRValues].(type) {
	case []string:
		return v
	case []any:
		return utils.ToStringSlice(v)
	case string:
		return oauthmodel.SplitScopes(v)
	}
	return nil
}
