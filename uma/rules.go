package uma

import (
	"context"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
	"github.com/jrsteele09/go-grant-engine/resources"
	"github.com/jrsteele09/go-grant-engine/users"
)

// Rule is one access policy prepared for evaluation, with the permission
// request it guards attached as metadata.
type Rule struct {
	Policy     *resources.AccessPolicy
	Permission resources.PermissionRequest
}

// ExecutionContext carries the attributes rules evaluate against: the
// requesting client, the resolved requesting party (nil when none) and the
// processed token request.
type ExecutionContext struct {
	Client  *clients.Client
	User    *users.User
	Request *oauthmodel.TokenRequest
}

// RulesEngine evaluates all rules of a grant together. Any rejection fails the
// whole evaluation; partial success is not possible.
type RulesEngine interface {
	Fire(ctx context.Context, rules []Rule, execution *ExecutionContext) error
}
