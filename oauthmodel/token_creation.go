package oauthmodel

import "github.com/jrsteele09/go-grant-engine/users"

// TokenCreationRequest is a granter's output: everything the token issuance
// component needs to materialize tokens. This core never serializes it to the
// wire.
type TokenCreationRequest struct {
	// Request is the processed token request (narrowed scopes, reconciled
	// resources, resolved permissions, merged parameters).
	Request *TokenRequest

	// User is the resolved resource owner, nil for client-only grants
	// (client_credentials, subject-less refresh).
	User *users.User

	// SupportRefreshToken flags whether a refresh token may accompany the
	// issued access token.
	SupportRefreshToken bool

	// AdditionalData carries protocol-specific payload: issued-token metadata
	// for token exchange, the upgrade flag for UMA.
	AdditionalData map[string]any
}
