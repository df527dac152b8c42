package oauth2

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Extension grants use their own registered type strings and are matched
// dynamically, so this is an open set rather than an enum.
type GrantType = string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Used in: Standard Authorization Code Flow (with or without PKCE)
	// Token request includes: code, redirect_uri, code_verifier (if PKCE)
	AuthorizationCodeGrant GrantType = "authorization_code"

	// ClientCredentialsGrant allows machine-to-machine authentication.
	// Used in: Backend service authentication (no user context)
	// Token request includes: client_id, client_secret, scope
	ClientCredentialsGrant GrantType = "client_credentials"

	// RefreshTokenGrant exchanges a refresh token for new tokens.
	// Used in: Token refresh flow (new access token without re-authenticating the user)
	// Token request includes: refresh_token
	RefreshTokenGrant GrantType = "refresh_token"

	// PasswordGrant exchanges resource-owner credentials for tokens.
	// Used in: Legacy first-party applications only
	// Token request includes: username, password
	PasswordGrant GrantType = "password"

	// CibaGrant exchanges an approved backchannel authentication request for tokens.
	// Used in: Client-Initiated Backchannel Authentication (decoupled consent)
	// Token request includes: auth_req_id
	CibaGrant GrantType = "urn:openid:params:grant-type:ciba"

	// TokenExchangeGrant trades a subject (and optional actor) token for a new token.
	// Used in: RFC 8693 delegation and impersonation scenarios
	TokenExchangeGrant GrantType = "urn:ietf:params:oauth:grant-type:token-exchange"

	// UmaTicketGrant redeems a UMA 2.0 permission ticket for a Requesting Party Token.
	// Used in: User-Managed Access resource-owner controlled authorization
	// Token request includes: ticket, claim_token, claim_token_format, rpt
	UmaTicketGrant GrantType = "urn:ietf:params:oauth:grant-type:uma-ticket"
)

// Token endpoint form parameter names. These are wire contracts: the boundary
// layer parses the application/x-www-form-urlencoded body into these keys and
// the granters read them back out of the raw parameter map.
const (
	ParamCode                = "code"
	ParamCodeVerifier        = "code_verifier"
	ParamCodeChallenge       = "code_challenge"
	ParamCodeChallengeMethod = "code_challenge_method"
	ParamRedirectURI         = "redirect_uri"
	ParamRefreshToken        = "refresh_token"
	ParamUsername            = "username"
	ParamPassword            = "password"
	ParamAuthReqID           = "auth_req_id"
	ParamTicket              = "ticket"
	ParamClaimToken          = "claim_token"
	ParamClaimTokenFormat    = "claim_token_format"
	ParamRPT                 = "rpt"
	ParamScope               = "scope"
	ParamResource            = "resource"
)

// ClaimTokenFormatIDToken is the only claim_token_format accepted by the UMA
// granter: the claim token must be an OIDC ID Token issued by this server.
const ClaimTokenFormatIDToken = "urn:ietf:params:oauth:token-type:id_token"

// CodeMethodType represents the PKCE (Proof Key for Code Exchange) challenge method.
// Used to prevent authorization code interception attacks (especially for public clients).
type CodeMethodType string

const (
	// CodeMethodTypeS256 indicates SHA-256 hashing is used for the code challenge.
	// Client sends: code_challenge = BASE64URL(SHA256(code_verifier))
	// Server validates: SHA256(provided code_verifier) == stored code_challenge
	CodeMethodTypeS256 CodeMethodType = "S256"

	// CodeMethodTypePlain means no hashing, the code_verifier is compared directly.
	// Default when the original authorization request stored no method.
	CodeMethodTypePlain CodeMethodType = "plain"
)
