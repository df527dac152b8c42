package granter_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/extgrant"
	"github.com/jrsteele09/go-grant-engine/extgrant/providerfake"
	"github.com/jrsteele09/go-grant-engine/granter"
	"github.com/jrsteele09/go-grant-engine/oauth2"
	"github.com/jrsteele09/go-grant-engine/users"
)

const extensionGrantType = "urn:example:params:grant-type:saml2"

func extensionInstance(id string, createdAt time.Time) *extgrant.Grant {
	return &extgrant.Grant{
		ID:        id,
		GrantType: extensionGrantType,
		CreatedAt: createdAt,
	}
}

func TestExtensionGrantOldestInstanceKeepsBareBinding(t *testing.T) {
	f := setupTestFixture(t)
	f.client.AuthorizedGrantTypes = []string{extensionGrantType}

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	older := extensionInstance("legacy", t1)
	newer := extensionInstance("successor", t2)

	granters, err := granter.NewExtensionGranters(
		[]*extgrant.Grant{newer, older},
		map[string]extgrant.Provider{
			"legacy":    &providerfake.FakeProvider{},
			"successor": &providerfake.FakeProvider{},
		},
		granter.ExtensionDeps{Users: f.userManager},
	)
	require.NoError(t, err)
	require.Len(t, granters, 2)

	// Granters come back in registration order: newer first, older second.
	require.False(t, granters[0].Supports(extensionGrantType, f.client, f.domain))
	require.True(t, granters[1].Supports(extensionGrantType, f.client, f.domain))
}

func TestExtensionGrantQualifiedEntryBindsExactInstance(t *testing.T) {
	f := setupTestFixture(t)
	f.client.AuthorizedGrantTypes = []string{
		extensionGrantType + clients.GrantTypeQualifierSeparator + "successor",
	}

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := extensionInstance("legacy", t1)
	newer := extensionInstance("successor", t1.Add(time.Hour))

	granters, err := granter.NewExtensionGranters(
		[]*extgrant.Grant{older, newer},
		map[string]extgrant.Provider{
			"legacy":    &providerfake.FakeProvider{},
			"successor": &providerfake.FakeProvider{},
		},
		granter.ExtensionDeps{Users: f.userManager},
	)
	require.NoError(t, err)

	require.False(t, granters[0].Supports(extensionGrantType, f.client, f.domain))
	require.True(t, granters[1].Supports(extensionGrantType, f.client, f.domain))
}

func TestExtensionGrantTimestampTieFirstRegisteredWins(t *testing.T) {
	f := setupTestFixture(t)
	f.client.AuthorizedGrantTypes = []string{extensionGrantType}

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := extensionInstance("first", t1)
	second := extensionInstance("second", t1)

	granters, err := granter.NewExtensionGranters(
		[]*extgrant.Grant{first, second},
		map[string]extgrant.Provider{
			"first":  &providerfake.FakeProvider{},
			"second": &providerfake.FakeProvider{},
		},
		granter.ExtensionDeps{Users: f.userManager},
	)
	require.NoError(t, err)

	require.True(t, granters[0].Supports(extensionGrantType, f.client, f.domain))
	require.False(t, granters[1].Supports(extensionGrantType, f.client, f.domain))
}

func newSingleExtensionGranter(t *testing.T, f *testFixture, grant *extgrant.Grant, provider extgrant.Provider, subjects extgrant.SubjectResolver) *granter.ExtensionGranter {
	t.Helper()
	granters, err := granter.NewExtensionGranters(
		[]*extgrant.Grant{grant},
		map[string]extgrant.Provider{grant.ID: provider},
		granter.ExtensionDeps{Users: f.userManager, Subjects: subjects},
	)
	require.NoError(t, err)
	require.Len(t, granters, 1)
	return granters[0]
}

func TestExtensionGrantCreateUserConnectsProfile(t *testing.T) {
	f := setupTestFixture(t)
	f.client.AuthorizedGrantTypes = []string{extensionGrantType, oauth2.RefreshTokenGrant}

	grant := extensionInstance("saml", time.Now())
	grant.CreateUser = true
	grant.IdentitySource = "corp-idp"
	provider := &providerfake.FakeProvider{
		User: &extgrant.ExternalUser{ID: "ext-1", Username: "jane.roe"},
	}
	g := newSingleExtensionGranter(t, f, grant, provider, nil)

	req := f.tokenRequest(extensionGrantType, url.Values{"assertion": {"PHNhbWxwOl...[omitted]"}})
	creation, err := g.Grant(context.Background(), f.domain, req, f.client)
	require.NoError(t, err)
	require.NotEmpty(t, creation.User.ID)
	require.Equal(t, "jane.roe", creation.User.Username)
	require.Equal(t, "corp-idp", creation.User.Source)
	require.True(t, creation.SupportRefreshToken)
	// The plugin saw the flattened form parameters.
	require.Equal(t, "PHNhbWxwOl...[omitted]", provider.LastRequest.Parameters["assertion"])
}

func TestExtensionGrantCheckUserPrefersSubjectResolver(t *testing.T) {
	f := setupTestFixture(t)
	f.client.AuthorizedGrantTypes = []string{extensionGrantType}

	grant := extensionInstance("saml", time.Now())
	grant.CheckUser = true
	provider := &providerfake.FakeProvider{
		User: &extgrant.ExternalUser{
			ID:                    "ext-1",
			Username:              "jane.roe",
			AdditionalInformation: map[string]any{extgrant.ClaimSub: testUserID},
		},
	}
	resolver := &stubSubjectResolver{user: &users.User{ID: testUserID, Username: testUsername}}
	g := newSingleExtensionGranter(t, f, grant, provider, resolver)

	req := f.tokenRequest(extensionGrantType, url.Values{})
	creation, err := g.Grant(context.Background(), f.domain, req, f.client)
	require.NoError(t, err)
	require.Equal(t, testUserID, creation.User.ID)
	require.Equal(t, testUserID, resolver.lastSub)
}

func TestExtensionGrantCheckUserFallsBackToStore(t *testing.T) {
	f := setupTestFixture(t)
	f.client.AuthorizedGrantTypes = []string{extensionGrantType}

	grant := extensionInstance("saml", time.Now())
	grant.CheckUser = true
	provider := &providerfake.FakeProvider{
		User: &extgrant.ExternalUser{ID: "ext-1", Username: testUsername},
	}
	g := newSingleExtensionGranter(t, f, grant, provider, nil)

	req := f.tokenRequest(extensionGrantType, url.Values{})
	creation, err := g.Grant(context.Background(), f.domain, req, f.client)
	require.NoError(t, err)
	require.Equal(t, testUserID, creation.User.ID)
}

func TestExtensionGrantCheckUserUnknownIdentity(t *testing.T) {
	f := setupTestFixture(t)
	f.client.AuthorizedGrantTypes = []string{extensionGrantType}

	grant := extensionInstance("saml", time.Now())
	grant.CheckUser = true
	provider := &providerfake.FakeProvider{
		User: &extgrant.ExternalUser{ID: "ext-unknown", Username: "stranger"},
	}
	g := newSingleExtensionGranter(t, f, grant, provider, nil)

	req := f.tokenRequest(extensionGrantType, url.Values{})
	_, err := g.Grant(context.Background(), f.domain, req, f.client)
	require.Error(t, err)
	require.Equal(t, "invalid_grant", oauth2.Response(err).Error)
}

func TestExtensionGrantPassthroughNeverRefreshEligible(t *testing.T) {
	f := setupTestFixture(t)
	f.client.AuthorizedGrantTypes = []string{extensionGrantType, oauth2.RefreshTokenGrant}

	grant := extensionInstance("saml", time.Now())
	provider := &providerfake.FakeProvider{
		User: &extgrant.ExternalUser{ID: "ext-1", Username: "jane.roe"},
	}
	g := newSingleExtensionGranter(t, f, grant, provider, nil)

	req := f.tokenRequest(extensionGrantType, url.Values{})
	creation, err := g.Grant(context.Background(), f.domain, req, f.client)
	require.NoError(t, err)
	require.Equal(t, "ext-1", creation.User.ExternalID)
	require.False(t, creation.SupportRefreshToken)
}

func TestExtensionGrantNoIdentity(t *testing.T) {
	f := setupTestFixture(t)
	f.client.AuthorizedGrantTypes = []string{extensionGrantType}

	grant := extensionInstance("saml", time.Now())
	g := newSingleExtensionGranter(t, f, grant, &providerfake.FakeProvider{}, nil)

	req := f.tokenRequest(extensionGrantType, url.Values{})
	_, err := g.Grant(context.Background(), f.domain, req, f.client)
	require.Error(t, err)
	require.Equal(t, "invalid_grant", oauth2.Response(err).Error)
	require.Contains(t, err.Error(), "unknown user")
}

type stubSubjectResolver struct {
	user    *users.User
	lastSub string
}

func (r *stubSubjectResolver) FindUserBySub(_ context.Context, sub string) (*users.User, error) {
	r.lastSub = sub
	return r.user, nil
}
