package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/codes"
)

var _ codes.Repo = (*FakeCodeRepo)(nil)

// FakeCodeRepo is an in-memory codes.Repo. Redeem deletes under the lock so a
// second redemption never succeeds, matching the at-most-once store contract.
type FakeCodeRepo struct {
	lock    sync.Mutex
	codes   map[string]*storedCode
	nowTime func() time.Time
}

type storedCode struct {
	code     *codes.AuthorizationCode
	clientID string
}

func NewFakeCodeRepo() *FakeCodeRepo {
	return &FakeCodeRepo{
		codes:   make(map[string]*storedCode),
		nowTime: time.Now,
	}
}

// Store registers a code for the given client.
func (r *FakeCodeRepo) Store(code *codes.AuthorizationCode, clientID string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.codes[code.Code] = &storedCode{code: code, clientID: clientID}
}

func (r *FakeCodeRepo) Redeem(_ context.Context, code string, client *clients.Client) (*codes.AuthorizationCode, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	stored, ok := r.codes[code]
	if !ok {
		return nil, nil
	}
	delete(r.codes, code)
	if stored.clientID != client.ID {
		return nil, nil
	}
	if !stored.code.ExpiresAt.IsZero() && r.nowTime().After(stored.code.ExpiresAt) {
		return nil, nil
	}
	return stored.code, nil
}
