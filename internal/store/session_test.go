package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKVSessionStoreRoundTrip(t *testing.T) {
	sessions := NewKVSessionStore(NewMemoryKV(), time.Hour)
	ctx := context.Background()

	token, err := sessions.Set(ctx, Session{UserID: "user-1", Role: "resident"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, err := sessions.Get(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "user-1", sess.UserID)
	require.Equal(t, "resident", sess.Role)

	require.NoError(t, sessions.Clear(ctx, token))
	_, err = sessions.Get(ctx, token)
	require.ErrorIs(t, err, ErrMiss)
}

func TestKVSessionStoreMiss(t *testing.T) {
	sessions := NewKVSessionStore(NewMemoryKV(), time.Hour)

	_, err := sessions.Get(context.Background(), "")
	require.ErrorIs(t, err, ErrMiss)

	_, err = sessions.Get(context.Background(), "no-such-token")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKVTTL(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, err := kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}
