package ciba

import "time"

// ExternalInfoACRValues is the external-information key carrying the ACR
// values negotiated during the backchannel authentication request.
const ExternalInfoACRValues = "acr_values"

// AuthRequest is an approved backchannel authentication request, created when
// the user consents on the authentication device and consumed when the client
// polls the token endpoint with its auth_req_id.
type AuthRequest struct {
	ID       string `json:"id"`        // The auth_req_id handed back to the client
	ClientID string `json:"client_id"` // Owning client; retrieval is bound to it
	Subject  string `json:"subject"`   // The user who approved the request

	Scopes []string `json:"scopes,omitempty"`

	// ExternalInformation may carry ACR values and other context captured
	// during the backchannel exchange.
	ExternalInformation map[string]any `json:"external_information,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
