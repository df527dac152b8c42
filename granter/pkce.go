package granter

import (
	"crypto/sha256"
	"encoding/base64"
	"regexp"

	"github.com/jrsteele09/go-grant-engine/oauth2"
)

// RFC 7636 §4.1: code_verifier = 43*128 unreserved characters.
var codeVerifierRe = regexp.MustCompile(`^[A-Za-z0-9\-._~]{43,128}$`)

// ValidateCodeVerifier checks a PKCE code verifier against the challenge
// stored with the authorization code. Only called when the original
// authorization request carried a code_challenge; the method defaults to plain
// when none was stored. Every failure is an invalid_grant with a message
// distinguishing missing, invalid and mismatching verifiers.
func ValidateCodeVerifier(challenge string, method oauth2.CodeMethodType, verifier string) error {
	if verifier == "" {
		return oauth2.NewGrantError("missing code verifier")
	}
	if !codeVerifierRe.MatchString(verifier) {
		return oauth2.NewGrantError("invalid code verifier")
	}
	if method == "" {
		method = oauth2.CodeMethodTypePlain
	}
	switch method {
	case oauth2.CodeMethodTypeS256:
		if CodeChallengeS256(verifier) != challenge {
			return oauth2.NewGrantError("code verifier mismatch")
		}
	case oauth2.CodeMethodTypePlain:
		if verifier != challenge {
			return oauth2.NewGrantError("code verifier mismatch")
		}
	default:
		return oauth2.NewGrantError("unsupported algorithm")
	}
	return nil
}

// CodeChallengeS256 derives the S256 challenge for a verifier:
// BASE64URL(SHA256(verifier)), unpadded.
func CodeChallengeS256(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
