package codes

import (
	"net/url"
	"time"
)

// AuthorizationCode is the artifact minted at authorization time and consumed
// exactly once at the token endpoint. Never mutated after creation; redemption
// removes it from its store.
type AuthorizationCode struct {
	// Code is the one-time code value handed to the client in the redirect.
	Code string `json:"code"`

	// Subject is the id of the user who approved the authorization request.
	Subject string `json:"subject"`

	// TransactionID keys the authentication flow context captured during the
	// authorization phase.
	TransactionID string `json:"transaction_id"`

	// ContextVersion versions the flow context entry for the transaction.
	ContextVersion int `json:"context_version"`

	Scopes    []string `json:"scopes,omitempty"`
	Resources []string `json:"resources,omitempty"` // Consented RFC 8707 resource indicators

	// RequestParameters captures the original authorization request
	// parameters (redirect_uri, code_challenge, code_challenge_method, ...).
	// They bind the token request back to the authorization request.
	RequestParameters url.Values `json:"request_parameters,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
