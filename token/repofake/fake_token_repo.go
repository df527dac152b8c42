package repofake

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/oauthmodel"
	"github.com/jrsteele09/go-grant-engine/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo is an in-memory token.Repo for tests.
type FakeTokenRepo struct {
	lock    sync.RWMutex
	tokens  map[string]*token.Token
	nowTime func() time.Time
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		tokens:  make(map[string]*token.Token),
		nowTime: time.Now,
	}
}

func (r *FakeTokenRepo) Upsert(t *token.Token) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.tokens[t.Value] = t
}

func (r *FakeTokenRepo) Refresh(_ context.Context, refreshToken string, _ *oauthmodel.TokenRequest, client *clients.Client) (*token.Token, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	t, ok := r.tokens[refreshToken]
	if !ok {
		return nil, errors.New("refresh token not found")
	}
	if t.ClientID != "" && t.ClientID != client.ID {
		return nil, errors.New("refresh token was issued to another client")
	}
	if !t.ExpiresAt.IsZero() && r.nowTime().After(t.ExpiresAt) {
		return nil, errors.New("refresh token expired")
	}
	return t, nil
}
