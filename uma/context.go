package uma

import (
	"github.com/jrsteele09/go-grant-engine/resources"
	"github.com/jrsteele09/go-grant-engine/users"
)

// grantContext is the immutable per-request state threaded through the UMA
// steps. Every step receives a value copy and derives the next one through a
// with* helper; nothing request-scoped is ever shared or mutated in place.
type grantContext struct {
	ticket           string
	claimToken       string
	claimTokenFormat string
	rpt              string

	user        *users.User
	permissions []resources.PermissionRequest
}

func (c grantContext) withUser(user *users.User) grantContext {
	c.user = user
	return c
}

func (c grantContext) withPermissions(permissions []resources.PermissionRequest) grantContext {
	c.permissions = permissions
	return c
}

// upgraded reports whether a previously issued RPT accompanied the request,
// i.e. this grant upgrades an earlier one.
func (c grantContext) upgraded() bool {
	return c.rpt != ""
}

// subject is the identity an accompanying RPT must have been issued to: the
// requesting party when resolved, the client itself otherwise.
func (c grantContext) subject(clientID string) string {
	if c.user != nil {
		return c.user.ID
	}
	return clientID
}
