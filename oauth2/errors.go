package oauth2

import (
	"errors"
	"strings"
)

// Error is implemented by every domain error in the OAuth2/UMA taxonomy.
// Domain errors propagate to the boundary verbatim; anything else a granter
// sees from a collaborator is re-wrapped through WrapGrant so the client
// never receives a bare internal failure.
type Error interface {
	error
	ErrorCode() string
}

// RequestError signals a malformed or missing required parameter (invalid_request).
type RequestError struct {
	reason string
}

func NewRequestError(reason string) *RequestError { return &RequestError{reason: reason} }

func (e *RequestError) Error() string     { return e.reason }
func (e *RequestError) ErrorCode() string { return "invalid_request" }

// GrantError signals a precondition or business-rule violation (invalid_grant).
type GrantError struct {
	reason string
}

func NewGrantError(reason string) *GrantError { return &GrantError{reason: reason} }

func (e *GrantError) Error() string     { return e.reason }
func (e *GrantError) ErrorCode() string { return "invalid_grant" }

// UnauthorizedClientError signals a client not entitled to the operation (unauthorized_client).
type UnauthorizedClientError struct {
	reason string
}

func NewUnauthorizedClientError(reason string) *UnauthorizedClientError {
	return &UnauthorizedClientError{reason: reason}
}

func (e *UnauthorizedClientError) Error() string     { return e.reason }
func (e *UnauthorizedClientError) ErrorCode() string { return "unauthorized_client" }

// InvalidScopeError signals a scope outside what the client or resource allows (invalid_scope).
type InvalidScopeError struct {
	reason string
}

func NewInvalidScopeError(reason string) *InvalidScopeError {
	return &InvalidScopeError{reason: reason}
}

func (e *InvalidScopeError) Error() string     { return e.reason }
func (e *InvalidScopeError) ErrorCode() string { return "invalid_scope" }

// InvalidTokenError signals a malformed or expired bearer artifact (invalid_token).
type InvalidTokenError struct {
	reason string
}

func NewInvalidTokenError(reason string) *InvalidTokenError {
	return &InvalidTokenError{reason: reason}
}

func (e *InvalidTokenError) Error() string     { return e.reason }
func (e *InvalidTokenError) ErrorCode() string { return "invalid_token" }

// UnsupportedGrantTypeError is returned by the dispatcher when no granter
// claims the request's grant type (unsupported_grant_type).
type UnsupportedGrantTypeError struct {
	grantType string
}

func NewUnsupportedGrantTypeError(grantType string) *UnsupportedGrantTypeError {
	return &UnsupportedGrantTypeError{grantType: grantType}
}

func (e *UnsupportedGrantTypeError) Error() string {
	return "unsupported grant type: " + e.grantType
}
func (e *UnsupportedGrantTypeError) ErrorCode() string { return "unsupported_grant_type" }

// RequiredClaim describes one claim the requesting party must still supply for
// a UMA grant to proceed. Carried by NeedInfoError, serialized verbatim into
// the need_info error response.
type RequiredClaim struct {
	Name             string   `json:"name"`
	FriendlyName     string   `json:"friendly_name,omitempty"`
	ClaimTokenFormat []string `json:"claim_token_format,omitempty"`
}

// NeedInfoError is the UMA-specific "need more claims" outcome. Unlike the
// flat-message errors above it carries a structured list of claim descriptors.
type NeedInfoError struct {
	reason         string
	RequiredClaims []RequiredClaim
}

func NewNeedInfoError(reason string, claims ...RequiredClaim) *NeedInfoError {
	return &NeedInfoError{reason: reason, RequiredClaims: claims}
}

func (e *NeedInfoError) Error() string     { return e.reason }
func (e *NeedInfoError) ErrorCode() string { return "need_info" }

// IsDomainError reports whether err (or anything it wraps) belongs to the
// OAuth2/UMA error taxonomy.
func IsDomainError(err error) bool {
	var oe Error
	return errors.As(err, &oe)
}

// WrapGrant is the single wrap-as-grant-error boundary: domain errors pass
// through untouched, everything else becomes a GrantError preserving the
// original message, or the fallback when the message is blank.
func WrapGrant(err error, fallback string) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	reason := strings.TrimSpace(err.Error())
	if reason == "" {
		reason = fallback
	}
	return NewGrantError(reason)
}

// ErrorResponse is the wire shape of a token endpoint error, per RFC 6749 §5.2
// and the UMA 2.0 grant spec for need_info.
type ErrorResponse struct {
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description,omitempty"`
	RequiredClaims   []RequiredClaim `json:"required_claims,omitempty"`
}

// Response maps any error to its token endpoint representation. Errors outside
// the taxonomy collapse to server_error with a generic description.
func Response(err error) ErrorResponse {
	var needInfo *NeedInfoError
	if errors.As(err, &needInfo) {
		return ErrorResponse{
			Error:            needInfo.ErrorCode(),
			ErrorDescription: needInfo.Error(),
			RequiredClaims:   needInfo.RequiredClaims,
		}
	}
	var oe Error
	if errors.As(err, &oe) {
		return ErrorResponse{Error: oe.ErrorCode(), ErrorDescription: oe.Error()}
	}
	return ErrorResponse{Error: "server_error", ErrorDescription: "an internal error occurred"}
}
