package providerfake

import (
	"context"

	"github.com/jrsteele09/go-grant-engine/extgrant"
)

var _ extgrant.Provider = (*FakeProvider)(nil)

// FakeProvider is a canned extension grant plugin for tests.
type FakeProvider struct {
	// User is returned on every Grant call; nil simulates "no identity".
	User *extgrant.ExternalUser

	// Err, when set, is returned instead.
	Err error

	// LastRequest records the most recent normalized request.
	LastRequest *extgrant.Request
}

func (p *FakeProvider) Grant(_ context.Context, req *extgrant.Request) (*extgrant.ExternalUser, error) {
	p.LastRequest = req
	if p.Err != nil {
		return nil, p.Err
	}
	return p.User, nil
}
