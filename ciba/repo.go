package ciba

import (
	"context"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/domains"
)

// Repo retrieves approved backchannel authentication requests. Retrieval is
// scoped to the domain and bound to the requesting client: a request owned by
// a different client must come back as nil, indistinguishable from not found.
type Repo interface {
	Retrieve(ctx context.Context, domain *domains.Domain, authReqID string, client *clients.Client) (*AuthRequest, error)
}
