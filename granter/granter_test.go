package granter_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-grant-engine/authflow"
	cibafake "github.com/jrsteele09/go-grant-engine/ciba/repofake"
	"github.com/jrsteele09/go-grant-engine/clients"
	codefake "github.com/jrsteele09/go-grant-engine/codes/repofake"
	"github.com/jrsteele09/go-grant-engine/domains"
	"github.com/jrsteele09/go-grant-engine/granter"
	"github.com/jrsteele09/go-grant-engine/oauth2"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
	tokenfake "github.com/jrsteele09/go-grant-engine/token/repofake"
	"github.com/jrsteele09/go-grant-engine/users"
	"github.com/jrsteele09/go-grant-engine/users/managerfake"
)

const (
	testClientID     = "test-client-1"
	testDomainID     = "domain-1"
	testUserID       = "user-1"
	testUsername     = "john.doe"
	testPassword     = "Password123"
	testRedirectURI  = "https://client.example.com/callback"
	testCodeVerifier = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	testCodeValue    = "SplxlOBeZQQYbYS6WxSbIA"
	testTransaction  = "txn-1"
)

// testFixture holds all granter test dependencies
type testFixture struct {
	codeRepo    *codefake.FakeCodeRepo
	tokenRepo   *tokenfake.FakeTokenRepo
	cibaRepo    *cibafake.FakeCibaRepo
	userManager *managerfake.FakeAuthenticationManager
	flowRepo    *authflow.CacheStore
	domain      *domains.Domain
	client      *clients.Client
}

// setupTestFixture creates fakes, a default domain and a client authorized for
// every built-in grant type.
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		codeRepo:    codefake.NewFakeCodeRepo(),
		tokenRepo:   tokenfake.NewFakeTokenRepo(),
		cibaRepo:    cibafake.NewFakeCibaRepo(),
		userManager: managerfake.NewFakeAuthenticationManager(),
		flowRepo:    authflow.NewCacheStore(time.Minute),
		domain: &domains.Domain{
			ID:                   testDomainID,
			UMAEnabled:           true,
			TokenExchangeEnabled: true,
			CIBAEnabled:          true,
		},
		client: &clients.Client{
			ID: testClientID,
			AuthorizedGrantTypes: []string{
				oauth2.AuthorizationCodeGrant,
				oauth2.RefreshTokenGrant,
				oauth2.ClientCredentialsGrant,
				oauth2.PasswordGrant,
				oauth2.CibaGrant,
				oauth2.TokenExchangeGrant,
				oauth2.UmaTicketGrant,
			},
			Scopes:               []string{"openid", "profile", "read", "write"},
			RefreshTokenRotation: true,
		},
	}

	require.NoError(t, f.userManager.AddUser(&users.User{
		ID:       testUserID,
		Username: testUsername,
	}, testPassword))

	return f
}

func (f *testFixture) tokenRequest(grantType string, params url.Values) *oauthmodel.TokenRequest {
	return oauthmodel.NewTokenRequest(grantType, testClientID, params)
}

func (f *testFixture) newAuthorizationCodeGranter(t *testing.T) *granter.AuthorizationCodeGranter {
	t.Helper()
	g, err := granter.NewAuthorizationCodeGranter(f.codeRepo, f.userManager, f.flowRepo, granter.NewSubsetResolver())
	require.NoError(t, err)
	return g
}

func (f *testFixture) newRefreshTokenGranter(t *testing.T) *granter.RefreshTokenGranter {
	t.Helper()
	g, err := granter.NewRefreshTokenGranter(f.tokenRepo, f.userManager, granter.NewSubsetResolver())
	require.NoError(t, err)
	return g
}

func TestCompositeDispatchesToMatchingGranter(t *testing.T) {
	f := setupTestFixture(t)

	composite := granter.NewComposite([]granter.TokenGranter{
		granter.NewClientCredentialsGranter(),
	})

	req := f.tokenRequest(oauth2.ClientCredentialsGrant, url.Values{})
	creation, err := composite.Grant(context.Background(), f.domain, req, f.client)
	require.NoError(t, err)
	require.Nil(t, creation.User)
	require.False(t, creation.SupportRefreshToken)
}

func TestCompositeUnsupportedGrantType(t *testing.T) {
	f := setupTestFixture(t)

	composite := granter.NewComposite([]granter.TokenGranter{
		granter.NewClientCredentialsGranter(),
	})

	req := f.tokenRequest("urn:example:unknown", url.Values{})
	_, err := composite.Grant(context.Background(), f.domain, req, f.client)
	require.Error(t, err)
	require.Equal(t, "unsupported_grant_type", oauth2.Response(err).Error)
}

func TestCompositeUnauthorizedClientGrantTypeIsUnsupported(t *testing.T) {
	f := setupTestFixture(t)
	f.client.AuthorizedGrantTypes = []string{oauth2.AuthorizationCodeGrant}

	composite := granter.NewComposite([]granter.TokenGranter{
		granter.NewClientCredentialsGranter(),
	})

	req := f.tokenRequest(oauth2.ClientCredentialsGrant, url.Values{})
	_, err := composite.Grant(context.Background(), f.domain, req, f.client)
	require.Error(t, err)
	require.Equal(t, "unsupported_grant_type", oauth2.Response(err).Error)
}

func TestRegisterMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	require.NoError(t, granter.RegisterMetrics(registry))
	// A second registration on the same registry is tolerated.
	require.NoError(t, granter.RegisterMetrics(registry))
}
