package authflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-grant-engine/authflow"
)

func TestCacheStoreReleaseRemovesContext(t *testing.T) {
	store := authflow.NewCacheStore(time.Minute)

	require.NoError(t, store.Put(context.Background(), &authflow.Context{
		TransactionID: "txn-1",
		Version:       3,
		Data:          map[string]any{"amr": "otp"},
	}))

	fc, err := store.Release(context.Background(), "txn-1", 3)
	require.NoError(t, err)
	require.Equal(t, "otp", fc.Data["amr"])

	_, err = store.Release(context.Background(), "txn-1", 3)
	require.ErrorIs(t, err, authflow.ErrNotFound)
}

func TestCacheStoreVersionIsPartOfTheKey(t *testing.T) {
	store := authflow.NewCacheStore(time.Minute)

	require.NoError(t, store.Put(context.Background(), &authflow.Context{
		TransactionID: "txn-1",
		Version:       1,
	}))

	_, err := store.Release(context.Background(), "txn-1", 2)
	require.ErrorIs(t, err, authflow.ErrNotFound)
}

func TestCacheStoreUnknownTransaction(t *testing.T) {
	store := authflow.NewCacheStore(time.Minute)

	_, err := store.Release(context.Background(), "missing", 1)
	require.ErrorIs(t, err, authflow.ErrNotFound)
}

func TestCacheStoreExpiry(t *testing.T) {
	store := authflow.NewCacheStore(time.Millisecond)

	require.NoError(t, store.Put(context.Background(), &authflow.Context{
		TransactionID: "txn-1",
		Version:       1,
	}))
	time.Sleep(5 * time.Millisecond)

	_, err := store.Release(context.Background(), "txn-1", 1)
	require.ErrorIs(t, err, authflow.ErrNotFound)
}
