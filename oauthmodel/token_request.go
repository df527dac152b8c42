package oauthmodel

import (
	"net/url"
	"strings"

	"github.com/jrsteele09/go-grant-engine/oauth2"
	"github.com/jrsteele09/go-grant-engine/resources"
)

// TokenRequest holds one inbound token endpoint request. Created per HTTP
// request from the parsed form body, mutated in place by the active granter,
// and discarded after token issuance.
type TokenRequest struct {
	// GrantType is the raw grant_type value used for dispatch.
	GrantType string

	// ClientID identifies the already-authenticated client making the request.
	ClientID string

	// Parameters is the raw form multi-map. Extension grant plugins receive it
	// verbatim; granters read individual values through Parameter.
	Parameters url.Values

	// Scopes is the requested scope set, parsed from the space-separated
	// "scope" parameter. Granters narrow or replace it.
	Scopes []string

	// Resources is the RFC 8707 resource indicator set. Starts as the
	// requested values and is replaced by the reconciled set via
	// ResolveResources.
	Resources []string

	// RequestedResources keeps the original requested indicators once
	// ResolveResources has replaced Resources with the reconciled set.
	RequestedResources []string

	// Permissions carries the resolved UMA permission set. Only the UMA
	// granter populates it; when set, Scopes is cleared.
	Permissions []resources.PermissionRequest

	// ExecutionContext is an attribute bag handed to downstream templating
	// (claims enrichment, policy evaluation).
	ExecutionContext map[string]any
}

// NewTokenRequest builds a TokenRequest from the parsed token endpoint form.
func NewTokenRequest(grantType, clientID string, params url.Values) *TokenRequest {
	if params == nil {
		params = url.Values{}
	}
	return &TokenRequest{
		GrantType:        grantType,
		ClientID:         clientID,
		Parameters:       params,
		Scopes:           SplitScopes(params.Get(oauth2.ParamScope)),
		Resources:        append([]string(nil), params[oauth2.ParamResource]...),
		ExecutionContext: make(map[string]any),
	}
}

// Parameter returns the first value of a form parameter, "" when absent.
func (r *TokenRequest) Parameter(name string) string {
	return r.Parameters.Get(name)
}

// MergeParameters copies params into the request's parameter map without
// overwriting keys already present. Used to rehydrate parameters captured
// during the original authorization request.
func (r *TokenRequest) MergeParameters(params url.Values) {
	for key, values := range params {
		if _, exists := r.Parameters[key]; exists {
			continue
		}
		r.Parameters[key] = append([]string(nil), values...)
	}
}

// ResolveResources replaces the resource indicator set with the reconciled one,
// keeping the originally requested set available.
func (r *TokenRequest) ResolveResources(final []string) {
	if r.RequestedResources == nil {
		r.RequestedResources = r.Resources
	}
	r.Resources = final
}

// SetContextValue stores a value in the downstream templating attribute bag.
func (r *TokenRequest) SetContextValue(key string, value any) {
	if r.ExecutionContext == nil {
		r.ExecutionContext = make(map[string]any)
	}
	r.ExecutionContext[key] = value
}

// SplitScopes splits a space-separated scope string, dropping empty entries.
func SplitScopes(scope string) []string {
	if strings.TrimSpace(scope) == "" {
		return nil
	}
	return strings.Fields(scope)
}
