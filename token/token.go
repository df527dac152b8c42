package token

import "time"

// AdditionalInfoResources is the additional-information key under which the
// resource indicators granted at issuance time travel with a refresh token.
const AdditionalInfoResources = "resources"

// Token is the refresh-token view the grant engine reads back from the token
// store to rehydrate a refresh request. Read-only during refresh; rotation and
// revocation happen inside the store.
type Token struct {
	// Value is the opaque refresh token string.
	Value string `json:"value"`

	// Subject is the resource owner's id, empty for service-level tokens
	// issued without a user (client_credentials).
	Subject string `json:"subject,omitempty"`

	ClientID string `json:"client_id"`

	// Scope is the space-separated scope string granted at issuance time.
	// An empty string places no constraint on the refreshed scopes.
	Scope string `json:"scope,omitempty"`

	// AdditionalInformation carries issuance-time context: resource
	// indicators (AdditionalInfoResources key), claims, attributes.
	AdditionalInformation map[string]any `json:"additional_information,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}
