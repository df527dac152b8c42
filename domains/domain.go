package domains

// FlowContextMode controls what the authorization_code granter does when the
// authentication flow context recorded during the authorization phase is
// missing or expired at token exchange time.
type FlowContextMode int

const (
	// FlowContextRequired fails the token request when the context cannot be released.
	FlowContextRequired FlowContextMode = iota

	// FlowContextOptional substitutes an empty context and continues.
	FlowContextOptional
)

// Domain is a security domain (realm): the unit under which clients, users and
// resources live, and the carrier of per-protocol feature flags. Protocols that
// require a flag (UMA, token exchange, CIBA) are only dispatchable when the
// flag is on.
type Domain struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`

	UMAEnabled           bool `json:"umaEnabled"`
	TokenExchangeEnabled bool `json:"tokenExchangeEnabled"`
	CIBAEnabled          bool `json:"cibaEnabled"`

	// FlowContextMode is the domain-wide fallback policy for missing
	// authentication flow contexts.
	FlowContextMode FlowContextMode `json:"flowContextMode"`
}
