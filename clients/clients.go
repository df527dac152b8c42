package clients

import "strings"

// GrantTypeQualifierSeparator splits a qualified authorized-grant-type entry of
// the form "<grant_type>~<extension_grant_id>". A bare entry binds the client
// to the oldest extension-grant instance sharing that grant type; a qualified
// entry binds it to the named instance explicitly.
const GrantTypeQualifierSeparator = "~"

type ClientType string

const (
	ClientTypeConfidential ClientType = "confidential" // Can keep secrets (server-side apps)
	ClientTypePublic       ClientType = "public"       // Cannot keep secrets (SPAs, mobile apps)
)

// Client is an OAuth2 client as seen by the grant engine. Client
// authentication happens before dispatch; by the time a Client reaches a
// granter it is already authenticated.
type Client struct {
	ID          string     `json:"id"`
	Type        ClientType `json:"type"` // public or confidential
	Description string     `json:"description,omitempty"`

	// AuthorizedGrantTypes lists the grant types this client may use. Entries
	// may be qualified with "~<extensionGrantId>" to bind an extension grant
	// instance explicitly.
	AuthorizedGrantTypes []string `json:"authorizedGrantTypes"`

	// Scopes allowed for this client. UMA requested scopes must be registered here.
	Scopes []string `json:"scopes"`

	RedirectURIs []string `json:"redirectURIs,omitempty"`

	// RefreshTokenRotation enables refresh token rotation; the refresh_token
	// grant only stays refresh-eligible when rotation is on.
	RefreshTokenRotation bool `json:"refreshTokenRotation"`

	// Attributes feed the UMA policy execution context.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// IsPublic returns true if the client is a public client
func (c *Client) IsPublic() bool {
	return c.Type == ClientTypePublic
}

// SupportsGrantType checks whether grantType appears in the client's
// authorized grant types. Qualified entries only match exactly.
func (c *Client) SupportsGrantType(grantType string) bool {
	for _, g := range c.AuthorizedGrantTypes {
		if g == grantType {
			return true
		}
	}
	return false
}

// SupportsExtensionGrant checks the qualified "<grantType>~<extensionGrantID>" binding.
func (c *Client) SupportsExtensionGrant(grantType, extensionGrantID string) bool {
	return c.SupportsGrantType(grantType + GrantTypeQualifierSeparator + extensionGrantID)
}

// HasScope checks if the client has permission for a specific scope
func (c *Client) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// ValidateScopes checks if all requested scopes are allowed for this client
func (c *Client) ValidateScopes(requested []string) error {
	for _, scope := range requested {
		if !c.HasScope(scope) {
			return ErrInvalidScope
		}
	}
	return nil
}

// SplitGrantType separates an authorized-grant-type entry into its grant type
// and optional extension grant qualifier.
func SplitGrantType(entry string) (grantType, extensionGrantID string) {
	if idx := strings.Index(entry, GrantTypeQualifierSeparator); idx >= 0 {
		return entry[:idx], entry[idx+1:]
	}
	return entry, ""
}
