package granter

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/domains"
	"github.com/jrsteele09/go-grant-engine/extgrant"
	"github.com/jrsteele09/go-grant-engine/oauth2"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
	"github.com/jrsteele09/go-grant-engine/users"
	"github.com/pkg/errors"
)

// ExtensionGranter executes one configured extension grant instance. Several
// instances may share a grant type string; a client's qualified
// "<grantType>~<id>" entry always binds its owning instance, while a bare
// entry binds only the instance that was oldest at registration time.
type ExtensionGranter struct {
	grant    *extgrant.Grant
	provider extgrant.Provider
	users    users.AuthenticationManager
	subjects extgrant.SubjectResolver // optional; preferred in check-user mode

	// oldestOfType is fixed at construction from the precomputed ordering over
	// all instances sharing the grant type, never mutated afterwards.
	oldestOfType bool
}

// ExtensionDeps bundles the collaborators shared by every extension granter.
type ExtensionDeps struct {
	Users    users.AuthenticationManager
	Subjects extgrant.SubjectResolver // may be nil
}

// NewExtensionGranters constructs one granter per configured instance,
// computing for each grant type string which instance is the oldest by
// creation timestamp. When two instances share a timestamp the one registered
// first keeps the legacy binding.
func NewExtensionGranters(grants []*extgrant.Grant, providers map[string]extgrant.Provider, deps ExtensionDeps) ([]*ExtensionGranter, error) {
	if deps.Users == nil {
		return nil, errors.New("[NewExtensionGranters] user authentication manager is required")
	}

	oldest := make(map[string]*extgrant.Grant)
	for _, grant := range grants {
		current, ok := oldest[grant.GrantType]
		if !ok || grant.CreatedAt.Before(current.CreatedAt) {
			oldest[grant.GrantType] = grant
		}
	}

	granters := make([]*ExtensionGranter, 0, len(grants))
	for _, grant := range grants {
		provider, ok := providers[grant.ID]
		if !ok {
			return nil, errors.Errorf("[NewExtensionGranters] no provider registered for extension grant %q", grant.ID)
		}
		granters = append(granters, &ExtensionGranter{
			grant:        grant,
			provider:     provider,
			users:        deps.Users,
			subjects:     deps.Subjects,
			oldestOfType: oldest[grant.GrantType] == grant,
		})
	}
	return granters, nil
}

func (g *ExtensionGranter) Supports(grantType string, client *clients.Client, _ *domains.Domain) bool {
	if grantType != g.grant.GrantType {
		return false
	}
	if client.SupportsExtensionGrant(g.grant.GrantType, g.grant.ID) {
		return true
	}
	// A bare grant-type entry keeps pointing at the original (oldest) instance
	// so operators can add newer same-type instances without rebinding clients.
	return g.oldestOfType && client.SupportsGrantType(g.grant.GrantType)
}

func (g *ExtensionGranter) Grant(ctx context.Context, _ *domains.Domain, req *oauthmodel.TokenRequest, client *clients.Client) (*oauthmodel.TokenCreationRequest, error) {
	externalUser, err := g.provider.Grant(ctx, &extgrant.Request{
		ClientID:   client.ID,
		GrantType:  req.GrantType,
		Scopes:     req.Scopes,
		Parameters: flattenParameters(req),
	})
	if err != nil {
		if !oauth2.IsDomainError(err) {
			log.Debug().
				Err(err).
				Str("extension_grant", g.grant.ID).
				Msg("extension grant plugin failed")
		}
		return nil, oauth2.WrapGrant(err, "extension grant rejected the request")
	}
	if externalUser == nil {
		return nil, oauth2.NewGrantError("unknown user")
	}

	user, err := g.resolveUser(ctx, externalUser, client)
	if err != nil {
		return nil, oauth2.WrapGrant(err, "unable to resolve the asserted user")
	}
	if user == nil {
		return nil, oauth2.NewGrantError("user not found")
	}

	return &oauthmodel.TokenCreationRequest{
		Request:             req,
		User:                user,
		SupportRefreshToken: g.supportsRefresh(client),
	}, nil
}

// resolveUser applies the instance's operating mode: connect the asserted
// profile as a local user, validate it against an existing user in the
// configured identity source, or pass it through unvalidated.
func (g *ExtensionGranter) resolveUser(ctx context.Context, externalUser *extgrant.ExternalUser, client *clients.Client) (*users.User, error) {
	switch {
	case g.grant.CreateUser:
		return g.users.Connect(ctx, profileOf(externalUser, g.grant))
	case g.grant.CheckUser:
		return g.checkUser(ctx, externalUser, client)
	default:
		// Passthrough: synthesized profile, no persistence.
		return profileOf(externalUser, g.grant), nil
	}
}

// checkUser validates the plugin-asserted identity against an existing user:
// the subject resolver is preferred when the plugin returned the reserved sub
// claim, falling back to store lookups by username and then by id.
func (g *ExtensionGranter) checkUser(ctx context.Context, externalUser *extgrant.ExternalUser, client *clients.Client) (*users.User, error) {
	if g.subjects != nil {
		if sub, ok := externalUser.AdditionalInformation[extgrant.ClaimSub].(string); ok && sub != "" {
			user, err := g.subjects.FindUserBySub(ctx, sub)
			if err != nil || user != nil {
				return user, err
			}
		}
	}
	user, err := g.users.LoadPreAuthenticatedUser(ctx, externalUser.Username, g.grant.IdentitySource, client)
	if err != nil || user != nil {
		return user, err
	}
	return g.users.LoadPreAuthenticatedUserBySubject(ctx, externalUser.ID, client)
}

// Refresh tokens only accompany modes backed by a persisted or validated user;
// the passthrough mode never grants them.
func (g *ExtensionGranter) supportsRefresh(client *clients.Client) bool {
	return (g.grant.CreateUser || g.grant.CheckUser) && client.SupportsGrantType(oauth2.RefreshTokenGrant)
}

func profileOf(externalUser *extgrant.ExternalUser, grant *extgrant.Grant) *users.User {
	return &users.User{
		ExternalID:            externalUser.ID,
		Username:              externalUser.Username,
		Source:                grant.IdentitySource,
		AdditionalInformation: externalUser.AdditionalInformation,
	}
}

func flattenParameters(req *oauthmodel.TokenRequest) map[string]string {
	flattened := make(map[string]string, len(req.Parameters))
	for key := range req.Parameters {
		flattened[key] = req.Parameters.Get(key)
	}
	return flattened
}
