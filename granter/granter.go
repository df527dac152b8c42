package granter

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/domains"
	"github.com/jrsteele09/go-grant-engine/oauth2"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
)

// TokenGranter is the per-grant-type strategy: Supports decides whether the
// granter claims a request, Grant validates preconditions, resolves the
// resource owner (or none) and produces a token creation request.
//
// Granters are stateless; all per-request state lives in the TokenRequest and
// values threaded explicitly through the call chain.
type TokenGranter interface {
	Supports(grantType string, client *clients.Client, domain *domains.Domain) bool
	Grant(ctx context.Context, domain *domains.Domain, req *oauthmodel.TokenRequest, client *clients.Client) (*oauthmodel.TokenCreationRequest, error)
}

// Composite dispatches a token request to the first granter whose Supports
// predicate holds, in registration order. No two built-in granters claim the
// same grant type string; extension grant instances may share one and
// disambiguate through their own Supports logic.
type Composite struct {
	granters []TokenGranter
	nowTime  func() time.Time
}

// CompositeOption defines a function type to modify the Composite instance.
type CompositeOption func(*Composite)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CompositeOption {
	return func(c *Composite) {
		c.nowTime = nowFunc
	}
}

// NewComposite builds the dispatcher over an ordered granter list.
func NewComposite(granters []TokenGranter, options ...CompositeOption) *Composite {
	c := &Composite{
		granters: granters,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Grant selects and executes the applicable granter. No matching granter is an
// unsupported_grant_type, never an internal error.
func (c *Composite) Grant(ctx context.Context, domain *domains.Domain, req *oauthmodel.TokenRequest, client *clients.Client) (*oauthmodel.TokenCreationRequest, error) {
	for _, g := range c.granters {
		if !g.Supports(req.GrantType, client, domain) {
			continue
		}
		start := c.nowTime()
		creation, err := g.Grant(ctx, domain, req, client)
		observeGrant(req.GrantType, err, c.nowTime().Sub(start))
		return creation, err
	}
	log.Debug().
		Str("grant_type", req.GrantType).
		Str("client_id", client.ID).
		Msg("no granter claims the requested grant type")
	observeUnsupported(req.GrantType)
	return nil, oauth2.NewUnsupportedGrantTypeError(req.GrantType)
}

// supportsBase is the predicate shared by every built-in granter: grant type
// string equality plus client authorization for that grant type.
func supportsBase(grantType, want string, client *clients.Client) bool {
	return grantType == want && client.SupportsGrantType(want)
}
