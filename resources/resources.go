package resources

import "time"

// Resource is a UMA 2.0 protected resource registered by a resource server.
// Read-only during grant processing; its registered scope set bounds what a
// requesting party can be granted.
type Resource struct {
	ID     string   `json:"id"`
	Name   string   `json:"name,omitempty"`
	Scopes []string `json:"resource_scopes"` // Scopes registered at resource registration time
}

// HasScope reports whether the scope is registered on this resource.
func (r *Resource) HasScope(scope string) bool {
	for _, s := range r.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// PermissionRequest pairs a resource id with the scopes requested (or granted)
// on it. The same shape appears inside permission tickets and inside the
// "permissions" claim of an issued RPT.
type PermissionRequest struct {
	ResourceID     string   `json:"resource_id"`
	ResourceScopes []string `json:"resource_scopes,omitempty"`
}

// HasScope reports whether the scope is already part of this permission request.
func (p *PermissionRequest) HasScope(scope string) bool {
	for _, s := range p.ResourceScopes {
		if s == scope {
			return true
		}
	}
	return false
}

// PermissionTicket is the one-time UMA artifact issued when a protected
// resource request is denied. Redeemable at most once; the store enforces that,
// not the granter.
type PermissionTicket struct {
	ID        string              `json:"id"`
	Requests  []PermissionRequest `json:"requests"`
	CreatedAt time.Time           `json:"created_at"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// AccessPolicy is a resource-owner controlled rule bound to a resource.
// Its Condition is an opaque rule definition consumed by the rules engine.
type AccessPolicy struct {
	ID         string `json:"id"`
	ResourceID string `json:"resource_id"`
	Name       string `json:"name,omitempty"`
	Condition  string `json:"condition"`
	Enabled    bool   `json:"enabled"`
}
