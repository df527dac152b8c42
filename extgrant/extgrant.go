package extgrant

import (
	"context"
	"time"

	"github.com/jrsteele09/go-grant-engine/users"
)

// ClaimSub is the reserved claim under which a plugin may return an internal
// subject identifier; when present and a SubjectResolver is configured, the
// granter resolves the user through it instead of the plugin-asserted profile.
const ClaimSub = "sub"

// Request is the normalized payload handed to an extension grant plugin:
// client id, grant type, requested scopes and the flattened request
// parameters, forwarded verbatim from the token endpoint form.
type Request struct {
	ClientID   string            `json:"client_id"`
	GrantType  string            `json:"grant_type"`
	Scopes     []string          `json:"scopes,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// ExternalUser is the identity a plugin asserts after validating its own
// credential material (assertion, SAML response, custom token, ...).
type ExternalUser struct {
	ID                    string         `json:"id,omitempty"`
	Username              string         `json:"username,omitempty"`
	AdditionalInformation map[string]any `json:"additional_information,omitempty"`
}

// Provider is the extension grant plugin contract. Plugin loading and
// sandboxing happen elsewhere; the grant engine only invokes Grant. A nil
// ExternalUser with a nil error means the plugin found no identity.
type Provider interface {
	Grant(ctx context.Context, req *Request) (*ExternalUser, error)
}

// SubjectResolver resolves an internal subject identifier embedded in a
// plugin's response (the ClaimSub claim) to a full user.
type SubjectResolver interface {
	FindUserBySub(ctx context.Context, sub string) (*users.User, error)
}

// Grant is one configured extension grant instance. Several instances may
// share a grant type string; a client's bare authorized-grant-type entry binds
// to the oldest instance while "<grantType>~<ID>" entries bind explicitly.
type Grant struct {
	ID        string `json:"id"`
	GrantType string `json:"grant_type"`

	// IdentitySource names the identity provider consulted in check-user mode.
	IdentitySource string `json:"identity_source,omitempty"`

	// CreateUser connects the plugin-asserted profile as a local user record.
	CreateUser bool `json:"create_user"`

	// CheckUser validates the plugin-asserted identity against an existing
	// user in IdentitySource. When neither CreateUser nor CheckUser is set the
	// profile passes through unvalidated and the grant never issues refresh
	// tokens.
	CheckUser bool `json:"check_user"`

	CreatedAt time.Time `json:"created_at"`
}
