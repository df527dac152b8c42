package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-grant-engine/ciba"
	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/domains"
)

var _ ciba.Repo = (*FakeCibaRepo)(nil)

// FakeCibaRepo is an in-memory ciba.Repo. A request owned by a different
// client is reported exactly like a missing one.
type FakeCibaRepo struct {
	lock     sync.RWMutex
	requests map[string]*storedRequest
	nowTime  func() time.Time
}

type storedRequest struct {
	request  *ciba.AuthRequest
	domainID string
}

func NewFakeCibaRepo() *FakeCibaRepo {
	return &FakeCibaRepo{
		requests: make(map[string]*storedRequest),
		nowTime:  time.Now,
	}
}

func (r *FakeCibaRepo) Store(domainID string, request *ciba.AuthRequest) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.requests[request.ID] = &storedRequest{request: request, domainID: domainID}
}

func (r *FakeCibaRepo) Retrieve(_ context.Context, domain *domains.Domain, authReqID string, client *clients.Client) (*ciba.AuthRequest, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	stored, ok := r.requests[authReqID]
	if !ok || stored.domainID != domain.ID || stored.request.ClientID != client.ID {
		return nil, nil
	}
	if !stored.request.ExpiresAt.IsZero() && r.nowTime().After(stored.request.ExpiresAt) {
		return nil, nil
	}
	return stored.request, nil
}
