package oauthmodel_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-grant-engine/oauthmodel"
)

func TestNewTokenRequestParsesScopeAndResources(t *testing.T) {
	req := oauthmodel.NewTokenRequest("authorization_code", "client-1", url.Values{
		"scope":    {"openid profile"},
		"resource": {"https://api.example.com", "https://files.example.com"},
	})

	require.Equal(t, []string{"openid", "profile"}, req.Scopes)
	require.Equal(t, []string{"https://api.example.com", "https://files.example.com"}, req.Resources)
}

func TestMergeParametersDoesNotOverwrite(t *testing.T) {
	req := oauthmodel.NewTokenRequest("authorization_code", "client-1", url.Values{
		"redirect_uri": {"https://client.example.com/callback"},
	})

	req.MergeParameters(url.Values{
		"redirect_uri": {"https://other.example.com"},
		"nonce":        {"n-0S6_WzA2Mj"},
	})

	require.Equal(t, "https://client.example.com/callback", req.Parameter("redirect_uri"))
	require.Equal(t, "n-0S6_WzA2Mj", req.Parameter("nonce"))
}

func TestResolveResourcesKeepsRequestedSet(t *testing.T) {
	req := oauthmodel.NewTokenRequest("refresh_token", "client-1", url.Values{
		"resource": {"https://api.example.com"},
	})

	req.ResolveResources([]string{"https://api.example.com", "https://files.example.com"})

	require.Equal(t, []string{"https://api.example.com"}, req.RequestedResources)
	require.Equal(t, []string{"https://api.example.com", "https://files.example.com"}, req.Resources)
}

func TestSplitScopes(t *testing.T) {
	require.Nil(t, oauthmodel.SplitScopes(""))
	require.Nil(t, oauthmodel.SplitScopes("   "))
	require.Equal(t, []string{"a", "b"}, oauthmodel.SplitScopes(" a  b "))
}

func TestSetContextValue(t *testing.T) {
	req := &oauthmodel.TokenRequest{}
	req.SetContextValue("amr", "pwd")
	require.Equal(t, "pwd", req.ExecutionContext["amr"])
}
