package uma

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/domains"
	"github.com/jrsteele09/go-grant-engine/oauth2"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
	"github.com/jrsteele09/go-grant-engine/resources"
	"github.com/jrsteele09/go-grant-engine/token"
	"github.com/jrsteele09/go-grant-engine/users"
)

// PermissionsClaim is the RPT claim carrying previously granted permissions.
const PermissionsClaim = "permissions"

// Granter implements the UMA 2.0 grant (urn:ietf:params:oauth:grant-type:uma-ticket):
// ticket redemption, optional requesting-party resolution from a claim token,
// permission resolution and merge with a previously issued RPT, and
// all-or-nothing access policy evaluation. UMA never uses the plain OAuth
// scope mechanism; the resolved permissions drive authorization instead.
type Granter struct {
	tickets   resources.TicketRepo
	resources resources.Repo
	users     users.AuthenticationManager
	signer    token.Signer
	rules     RulesEngine
}

func NewGranter(ticketRepo resources.TicketRepo, resourceRepo resources.Repo, userManager users.AuthenticationManager, signer token.Signer, rules RulesEngine) (*Granter, error) {
	if ticketRepo == nil {
		return nil, errors.New("[uma.NewGranter] ticket repo is required")
	}
	if resourceRepo == nil {
		return nil, errors.New("[uma.NewGranter] resource repo is required")
	}
	if userManager == nil {
		return nil, errors.New("[uma.NewGranter] user authentication manager is required")
	}
	if signer == nil {
		return nil, errors.New("[uma.NewGranter] token signer is required")
	}
	if rules == nil {
		return nil, errors.New("[uma.NewGranter] rules engine is required")
	}
	return &Granter{
		tickets:   ticketRepo,
		resources: resourceRepo,
		users:     userManager,
		signer:    signer,
		rules:     rules,
	}, nil
}

func (g *Granter) Supports(grantType string, client *clients.Client, domain *domains.Domain) bool {
	return grantType == oauth2.UmaTicketGrant &&
		client.SupportsGrantType(oauth2.UmaTicketGrant) &&
		domain.UMAEnabled
}

func (g *Granter) Grant(ctx context.Context, _ *domains.Domain, req *oauthmodel.TokenRequest, client *clients.Client) (*oauthmodel.TokenCreationRequest, error) {
	gc, err := parseRequest(req)
	if err != nil {
		return nil, err
	}
	gc, err = g.resolveResourceOwner(ctx, gc, client)
	if err != nil {
		return nil, err
	}
	gc, err = g.resolvePermissions(ctx, gc, req, client)
	if err != nil {
		return nil, err
	}
	gc, err = g.extendWithRPT(gc, client)
	if err != nil {
		return nil, err
	}
	if err := g.executeAccessPolicies(ctx, gc, req, client); err != nil {
		return nil, err
	}

	// Permissions replace scopes entirely on the UMA grant.
	req.Scopes = nil
	req.Permissions = gc.permissions

	return &oauthmodel.TokenCreationRequest{
		Request:             req,
		User:                gc.user,
		SupportRefreshToken: gc.user != nil && client.SupportsGrantType(oauth2.RefreshTokenGrant),
		AdditionalData:      map[string]any{"upgraded": gc.upgraded()},
	}, nil
}

// parseRequest validates the wire parameters: the ticket is required, and
// claim_token/claim_token_format travel together with the single supported
// format.
func parseRequest(req *oauthmodel.TokenRequest) (grantContext, error) {
	gc := grantContext{
		ticket:           req.Parameter(oauth2.ParamTicket),
		claimToken:       req.Parameter(oauth2.ParamClaimToken),
		claimTokenFormat: req.Parameter(oauth2.ParamClaimTokenFormat),
		rpt:              req.Parameter(oauth2.ParamRPT),
	}
	if gc.ticket == "" {
		return gc, oauth2.NewRequestError("missing parameter: ticket")
	}
	if (gc.claimToken == "") != (gc.claimTokenFormat == "") {
		return gc, needClaimTokenError("claim_token and claim_token_format must be supplied together")
	}
	if gc.claimTokenFormat != "" && gc.claimTokenFormat != oauth2.ClaimTokenFormatIDToken {
		return gc, needClaimTokenError("unsupported claim_token_format")
	}
	return gc, nil
}

// resolveResourceOwner decodes an optional claim token as a token this server
// issued and resolves its subject. Every failure collapses to the same
// need_info outcome naming claim_token, leaking nothing about which check failed.
func (g *Granter) resolveResourceOwner(ctx context.Context, gc grantContext, client *clients.Client) (grantContext, error) {
	if gc.claimToken == "" {
		return gc, nil
	}
	claims, err := g.decode(gc.claimToken)
	if err != nil {
		return gc, malformedClaimTokenError()
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return gc, malformedClaimTokenError()
	}
	user, err := g.users.LoadPreAuthenticatedUserBySubject(ctx, subject, client)
	if err != nil || user == nil {
		return gc, malformedClaimTokenError()
	}
	return gc.withUser(user), nil
}

// resolvePermissions redeems the ticket exactly once, checks every referenced
// resource still exists, and folds explicitly requested scopes into the
// ticketed permission requests without ever dropping an already-ticketed scope.
func (g *Granter) resolvePermissions(ctx context.Context, gc grantContext, req *oauthmodel.TokenRequest, client *clients.Client) (grantContext, error) {
	for _, scope := range req.Scopes {
		if !client.HasScope(scope) {
			return gc, oauth2.NewInvalidScopeError("requested scope is not registered for the client: " + scope)
		}
	}

	ticket, err := g.tickets.Redeem(ctx, gc.ticket)
	if err != nil {
		return gc, oauth2.WrapGrant(err, "unable to redeem the permission ticket")
	}
	if ticket == nil {
		return gc, oauth2.NewGrantError("permission ticket is not valid or has expired")
	}

	resourceIDs := make([]string, 0, len(ticket.Requests))
	seen := make(map[string]struct{}, len(ticket.Requests))
	for _, request := range ticket.Requests {
		if _, ok := seen[request.ResourceID]; !ok {
			seen[request.ResourceID] = struct{}{}
			resourceIDs = append(resourceIDs, request.ResourceID)
		}
	}

	found, err := g.resources.FindByIDs(ctx, resourceIDs)
	if err != nil {
		return gc, oauth2.WrapGrant(err, "unable to load the ticketed resources")
	}
	byID := make(map[string]*resources.Resource, len(found))
	for _, resource := range found {
		byID[resource.ID] = resource
	}
	var missing []string
	for _, id := range resourceIDs {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return gc, oauth2.NewGrantError("ticketed resources no longer exist: " + strings.Join(missing, " "))
	}

	permissions := make([]resources.PermissionRequest, len(ticket.Requests))
	for i, request := range ticket.Requests {
		permissions[i] = resources.PermissionRequest{
			ResourceID:     request.ResourceID,
			ResourceScopes: append([]string(nil), request.ResourceScopes...),
		}
	}

	if len(req.Scopes) > 0 {
		registered := make(map[string]struct{})
		for _, resource := range found {
			for _, scope := range resource.Scopes {
				registered[scope] = struct{}{}
			}
		}
		for _, scope := range req.Scopes {
			if _, ok := registered[scope]; !ok {
				return gc, oauth2.NewInvalidScopeError("requested scope is not registered on the ticketed resources: " + scope)
			}
		}
		// Merge each requested scope into the permission requests of the
		// resources that register it; ticketed scopes are always kept.
		for i := range permissions {
			resource := byID[permissions[i].ResourceID]
			for _, scope := range req.Scopes {
				if resource.HasScope(scope) && !permissions[i].HasScope(scope) {
					permissions[i].ResourceScopes = append(permissions[i].ResourceScopes, scope)
				}
			}
		}
	}

	return gc.withPermissions(permissions), nil
}

// extendWithRPT merges the permissions of a previously issued RPT into the
// newly resolved set: per-resource deduplicated unions, RPT-only resources
// carried over as-is.
func (g *Granter) extendWithRPT(gc grantContext, client *clients.Client) (grantContext, error) {
	if gc.rpt == "" {
		return gc, nil
	}
	claims, err := g.decode(gc.rpt)
	if err != nil {
		return gc, oauth2.NewInvalidTokenError("requesting party token is not valid")
	}
	subject, _ := claims["sub"].(string)
	if subject != gc.subject(client.ID) {
		return gc, oauth2.NewInvalidTokenError("requesting party token subject mismatch")
	}
	audience, err := claims.GetAudience()
	if err != nil || !containsAudience(audience, client.ID) {
		return gc, oauth2.NewInvalidTokenError("requesting party token audience mismatch")
	}
	return gc.withPermissions(mergePermissions(gc.permissions, permissionsFromClaims(claims))), nil
}

// executeAccessPolicies builds one rule per configured policy, attaches the
// guarded permission request as metadata, and fires them all together. Any
// rejection fails the whole grant; there is no partial success.
func (g *Granter) executeAccessPolicies(ctx context.Context, gc grantContext, req *oauthmodel.TokenRequest, client *clients.Client) error {
	resourceIDs := make([]string, 0, len(gc.permissions))
	for _, permission := range gc.permissions {
		resourceIDs = append(resourceIDs, permission.ResourceID)
	}
	policies, err := g.resources.FindAccessPolicies(ctx, resourceIDs)
	if err != nil {
		return oauth2.WrapGrant(err, "unable to load access policies")
	}

	byResource := make(map[string]resources.PermissionRequest, len(gc.permissions))
	for _, permission := range gc.permissions {
		byResource[permission.ResourceID] = permission
	}
	rules := make([]Rule, 0, len(policies))
	for _, policy := range policies {
		if !policy.Enabled {
			continue
		}
		rules = append(rules, Rule{Policy: policy, Permission: byResource[policy.ResourceID]})
	}
	if len(rules) == 0 {
		return nil
	}

	execution := &ExecutionContext{Client: client, User: gc.user, Request: req}
	if err := g.rules.Fire(ctx, rules, execution); err != nil {
		return oauth2.WrapGrant(err, "access policy rejected the request")
	}
	return nil
}

func (g *Granter) decode(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, err := jwt.NewParser().ParseWithClaims(raw, claims, g.signer.GetVerificationKey); err != nil {
		return nil, err
	}
	return claims, nil
}

func needClaimTokenError(reason string) *oauth2.NeedInfoError {
	return oauth2.NewNeedInfoError(reason,
		oauth2.RequiredClaim{
			Name:             oauth2.ParamClaimToken,
			FriendlyName:     "Requesting party claims",
			ClaimTokenFormat: []string{oauth2.ClaimTokenFormatIDToken},
		},
		oauth2.RequiredClaim{
			Name:         oauth2.ParamClaimTokenFormat,
			FriendlyName: "Claim token format",
		},
	)
}

func malformedClaimTokenError() *oauth2.NeedInfoError {
	return oauth2.NewNeedInfoError("claim_token is malformed or expired",
		oauth2.RequiredClaim{
			Name:             oauth2.ParamClaimToken,
			FriendlyName:     "Requesting party claims",
			ClaimTokenFormat: []string{oauth2.ClaimTokenFormatIDToken},
		},
	)
}

// mergePermissions unions two permission sets by resource id. Scope lists are
// deduplicated; resources present only in the RPT are added unchanged.
func mergePermissions(current, fromRPT []resources.PermissionRequest) []resources.PermissionRequest {
	merged := make([]resources.PermissionRequest, len(current))
	index := make(map[string]int, len(current))
	for i, permission := range current {
		merged[i] = resources.PermissionRequest{
			ResourceID:     permission.ResourceID,
			ResourceScopes: append([]string(nil), permission.ResourceScopes...),
		}
		index[permission.ResourceID] = i
	}
	for _, permission := range fromRPT {
		i, ok := index[permission.ResourceID]
		if !ok {
			index[permission.ResourceID] = len(merged)
			merged = append(merged, resources.PermissionRequest{
				ResourceID:     permission.ResourceID,
				ResourceScopes: append([]string(nil), permission.ResourceScopes...),
			})
			continue
		}
		for _, scope := range permission.ResourceScopes {
			if !merged[i].HasScope(scope) {
				merged[i].ResourceScopes = append(merged[i].ResourceScopes, scope)
			}
		}
	}
	return merged
}

func permissionsFromClaims(claims jwt.MapClaims) []resources.PermissionRequest {
	raw, _ := claims[PermissionsClaim].([]any)
	permissions := make([]resources.PermissionRequest, 0, len(raw))
	for _, entry := range raw {
		values, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		resourceID, _ := values["resource_id"].(string)
		if resourceID == "" {
			continue
		}
		permissions = append(permissions, resources.PermissionRequest{
			ResourceID:     resourceID,
			ResourceScopes: claimScopes(values["resource_scopes"]),
		})
	}
	return permissions
}

func claimScopes(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		scopes := make([]string, 0, len(v))
		for _, s := range v {
			if scope, ok := s.(string); ok {
				scopes = append(scopes, scope)
			}
		}
		return scopes
	}
	return nil
}

func containsAudience(audience jwt.ClaimStrings, clientID string) bool {
	for _, aud := range audience {
		if aud == clientID {
			return true
		}
	}
	return false
}
