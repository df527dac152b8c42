package authflow

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no flow context exists for the transaction id
// and version, typically because it expired between authorization and token
// exchange.
var ErrNotFound = errors.New("authentication flow context not found")

// Context is the transient per-authorization-transaction key/value bag written
// during the authorization phase and read exactly once during authorization
// code exchange.
type Context struct {
	TransactionID string         `json:"transaction_id"`
	Version       int            `json:"version"`
	Data          map[string]any `json:"data,omitempty"`
}

// Empty returns a blank context for the transaction, used when the domain
// tolerates a missing flow context.
func Empty(transactionID string, version int) *Context {
	return &Context{
		TransactionID: transactionID,
		Version:       version,
		Data:          map[string]any{},
	}
}

// Repo stores authentication flow contexts keyed by (transactionID, version).
type Repo interface {
	// Put records the context for later release.
	Put(ctx context.Context, fc *Context) error

	// Release returns the context and removes it (read-once-and-removed).
	// A missing or expired entry is ErrNotFound.
	Release(ctx context.Context, transactionID string, version int) (*Context, error)
}
