package granter

import (
	"context"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/oauth2"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
)

// ResourceConsistencyResolver reconciles originally granted RFC 8707 resource
// indicators with the subset a token request asks for. Granters seed it with
// the resources captured at authorization or issuance time; the resolved set
// replaces the request's resource indicators.
type ResourceConsistencyResolver interface {
	Resolve(ctx context.Context, req *oauthmodel.TokenRequest, client *clients.Client, originalResources []string) ([]string, error)
}

var _ ResourceConsistencyResolver = (*SubsetResolver)(nil)

// SubsetResolver is the default resolver: a request with no resource
// indicators inherits the original set; a request with indicators must ask for
// a subset of what was originally consented, anything else is invalid_grant.
type SubsetResolver struct{}

func NewSubsetResolver() *SubsetResolver { return &SubsetResolver{} }

func (SubsetResolver) Resolve(_ context.Context, req *oauthmodel.TokenRequest, _ *clients.Client, originalResources []string) ([]string, error) {
	if len(req.Resources) == 0 {
		return originalResources, nil
	}
	original := make(map[string]struct{}, len(originalResources))
	for _, r := range originalResources {
		original[r] = struct{}{}
	}
	for _, r := range req.Resources {
		if _, ok := original[r]; !ok {
			return nil, oauth2.NewGrantError("resource indicator was not originally granted: " + r)
		}
	}
	return req.Resources, nil
}
