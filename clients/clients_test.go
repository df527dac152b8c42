package clients_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-grant-engine/clients"
)

func TestSupportsGrantType(t *testing.T) {
	client := &clients.Client{
		AuthorizedGrantTypes: []string{"authorization_code", "urn:example:saml2~idp-1"},
	}

	require.True(t, client.SupportsGrantType("authorization_code"))
	require.False(t, client.SupportsGrantType("password"))
	// A qualified entry does not satisfy a bare grant-type check.
	require.False(t, client.SupportsGrantType("urn:example:saml2"))
}

func TestSupportsExtensionGrant(t *testing.T) {
	client := &clients.Client{
		AuthorizedGrantTypes: []string{"urn:example:saml2~idp-1"},
	}

	require.True(t, client.SupportsExtensionGrant("urn:example:saml2", "idp-1"))
	require.False(t, client.SupportsExtensionGrant("urn:example:saml2", "idp-2"))
}

func TestValidateScopes(t *testing.T) {
	client := &clients.Client{Scopes: []string{"openid", "profile"}}

	require.NoError(t, client.ValidateScopes([]string{"openid"}))
	require.NoError(t, client.ValidateScopes(nil))
	require.ErrorIs(t, client.ValidateScopes([]string{"openid", "admin"}), clients.ErrInvalidScope)
}

func TestSplitGrantType(t *testing.T) {
	grantType, id := clients.SplitGrantType("urn:example:saml2~idp-1")
	require.Equal(t, "urn:example:saml2", grantType)
	require.Equal(t, "idp-1", id)

	grantType, id = clients.SplitGrantType("authorization_code")
	require.Equal(t, "authorization_code", grantType)
	require.Empty(t, id)
}

func TestIsPublic(t *testing.T) {
	require.True(t, (&clients.Client{Type: clients.ClientTypePublic}).IsPublic())
	require.False(t, (&clients.Client{Type: clients.ClientTypeConfidential}).IsPublic())
}
