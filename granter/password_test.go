package granter_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-grant-engine/granter"
	"github.com/jrsteele09/go-grant-engine/oauth2"
)

func TestPasswordGrant(t *testing.T) {
	f := setupTestFixture(t)
	g, err := granter.NewPasswordGranter(f.userManager)
	require.NoError(t, err)

	req := f.tokenRequest(oauth2.PasswordGrant, url.Values{
		oauth2.ParamUsername: {testUsername},
		oauth2.ParamPassword: {testPassword},
	})
	creation, err := g.Grant(context.Background(), f.domain, req, f.client)
	require.NoError(t, err)
	require.Equal(t, testUserID, creation.User.ID)
	require.True(t, creation.SupportRefreshToken)
}

func TestPasswordGrantMissingCredentials(t *testing.T) {
	f := setupTestFixture(t)
	g, err := granter.NewPasswordGranter(f.userManager)
	require.NoError(t, err)

	req := f.tokenRequest(oauth2.PasswordGrant, url.Values{
		oauth2.ParamUsername: {testUsername},
	})
	_, err = g.Grant(context.Background(), f.domain, req, f.client)
	require.Error(t, err)
	require.Equal(t, "invalid_request", oauth2.Response(err).Error)
}

func TestPasswordGrantWrongPassword(t *testing.T) {
	f := setupTestFixture(t)
	g, err := granter.NewPasswordGranter(f.userManager)
	require.NoError(t, err)

	req := f.tokenRequest(oauth2.PasswordGrant, url.Values{
		oauth2.ParamUsername: {testUsername},
		oauth2.ParamPassword: {"wrong"},
	})
	_, err = g.Grant(context.Background(), f.domain, req, f.client)
	require.Error(t, err)
	require.Equal(t, "invalid_grant", oauth2.Response(err).Error)
}

func TestPasswordGrantUnknownUser(t *testing.T) {
	f := setupTestFixture(t)
	g, err := granter.NewPasswordGranter(f.userManager)
	require.NoError(t, err)

	req := f.tokenRequest(oauth2.PasswordGrant, url.Values{
		oauth2.ParamUsername: {"nobody"},
		oauth2.ParamPassword: {"whatever"},
	})
	_, err = g.Grant(context.Background(), f.domain, req, f.client)
	require.Error(t, err)
	require.Equal(t, "invalid_grant", oauth2.Response(err).Error)
}
