package managerfake

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-grant-engine/clients"
	"github.com/jrsteele09/go-grant-engine/users"
)

var _ users.AuthenticationManager = (*FakeAuthenticationManager)(nil)

// FakeAuthenticationManager is an in-memory users.AuthenticationManager for
// tests. Password verification uses the same bcrypt helpers as a real manager
// would so the password grant tests exercise the full credential path.
type FakeAuthenticationManager struct {
	lock  sync.RWMutex
	users map[string]*users.User // keyed by subject
	// passwordHashes is keyed by username.
	passwordHashes map[string]string
	// FailWith, when set, is returned by every lookup to simulate an
	// infrastructure failure.
	FailWith error
}

func NewFakeAuthenticationManager() *FakeAuthenticationManager {
	return &FakeAuthenticationManager{
		users:          make(map[string]*users.User),
		passwordHashes: make(map[string]string),
	}
}

// AddUser registers a user, optionally with a password for Authenticate.
func (m *FakeAuthenticationManager) AddUser(user *users.User, password string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.users[user.ID] = user
	if password != "" {
		hash, err := users.HashPassword(password)
		if err != nil {
			return err
		}
		m.passwordHashes[user.Username] = hash
	}
	return nil
}

func (m *FakeAuthenticationManager) Authenticate(_ context.Context, _ *clients.Client, username, password string) (*users.User, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	hash, ok := m.passwordHashes[username]
	if !ok || !users.CheckPasswordHash(password, hash) {
		return nil, users.ErrInvalidCredentials
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (m *FakeAuthenticationManager) LoadPreAuthenticatedUserBySubject(_ context.Context, subject string, _ *clients.Client) (*users.User, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return m.users[subject], nil
}

func (m *FakeAuthenticationManager) LoadPreAuthenticatedUser(_ context.Context, username, source string, _ *clients.Client) (*users.User, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	for _, u := range m.users {
		if u.Username == username && (source == "" || u.Source == source) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *FakeAuthenticationManager) Connect(_ context.Context, profile *users.User) (*users.User, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	connected := *profile
	if connected.ID == "" {
		connected.ID = uuid.New().String()
	}
	m.users[connected.ID] = &connected
	return &connected, nil
}
