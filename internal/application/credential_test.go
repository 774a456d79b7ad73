package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/dongdong-admin/internal/application"
)

func TestCredentialStore_WriteThenRead(t *testing.T) {
	ctx := context.Background()
	backend := newFakeSlotStore()
	store := application.NewCredentialStore(backend, "sess-1", nil)

	_, ok := store.Read(ctx)
	assert.False(t, ok)

	store.Write(ctx, "  tok-abc \n")

	got, ok := store.Read(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok-abc", got)

	stored, ok := backend.value("sess-1")
	require.True(t, ok)
	assert.Equal(t, "tok-abc", stored)

	// A fresh store on the same session sees the persisted value.
	got, ok = application.NewCredentialStore(backend, "sess-1", nil).Read(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok-abc", got)
}

func TestCredentialStore_WriteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	backend := newFakeSlotStore()
	store := application.NewCredentialStore(backend, "sess-1", nil)

	store.Write(ctx, "tok")
	store.Write(ctx, "tok")

	got, ok := store.Read(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok", got)

	slots, err := backend.List(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestCredentialStore_BlankWriteClears(t *testing.T) {
	ctx := context.Background()
	for _, blank := range []string{"", "   ", "\t\n"} {
		backend := newFakeSlotStore()
		store := application.NewCredentialStore(backend, "sess-1", nil)

		store.Write(ctx, "tok")
		store.Write(ctx, blank)

		_, ok := store.Read(ctx)
		assert.False(t, ok, "blank %q", blank)
		_, persisted := backend.value("sess-1")
		assert.False(t, persisted)
	}
}

func TestCredentialStore_Clear(t *testing.T) {
	ctx := context.Background()
	backend := newFakeSlotStore()
	store := application.NewCredentialStore(backend, "sess-1", nil)

	store.Write(ctx, "tok")
	store.Clear(ctx)

	_, ok := store.Read(ctx)
	assert.False(t, ok)
	assert.Equal(t, 1, backend.deletes)
}

func TestCredentialStore_Unavailable(t *testing.T) {
	ctx := context.Background()

	noBackend := application.NewCredentialStore(nil, "sess-1", nil)
	assert.False(t, noBackend.Available())
	assert.NotPanics(t, func() { noBackend.Write(ctx, "tok") })
	_, ok := noBackend.Read(ctx)
	assert.False(t, ok)

	backend := newFakeSlotStore()
	noSession := application.NewCredentialStore(backend, "", nil)
	assert.False(t, noSession.Available())
	noSession.Write(ctx, "tok")
	_, ok = noSession.Read(ctx)
	assert.False(t, ok)
	assert.Zero(t, backend.sets)
}

func TestCredentialStore_ReadErrorIsAbsent(t *testing.T) {
	backend := newFakeSlotStore()
	backend.getErr = errBoom
	store := application.NewCredentialStore(backend, "sess-1", nil)

	got, ok := store.Read(context.Background())
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestCredentialStore_FailedWriteStillReadable(t *testing.T) {
	ctx := context.Background()
	backend := newFakeSlotStore()
	backend.setErr = errBoom
	store := application.NewCredentialStore(backend, "sess-1", nil)

	assert.NotPanics(t, func() { store.Write(ctx, "tok") })

	got, ok := store.Read(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok", got)

	_, ok = application.NewCredentialStore(backend, "sess-1", nil).Read(ctx)
	assert.False(t, ok)
}

func TestCredentialStore_ReadsBackendOnce(t *testing.T) {
	ctx := context.Background()
	backend := newFakeSlotStore()
	application.NewCredentialStore(backend, "sess-1", nil).Write(ctx, "tok")

	store := application.NewCredentialStore(backend, "sess-1", nil)
	store.Read(ctx)
	store.Read(ctx)

	assert.Equal(t, 1, backend.gets)
}

func TestCredentialStore_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	backend := newFakeSlotStore()

	application.NewCredentialStore(backend, "a", nil).Write(ctx, "tok-a")

	_, ok := application.NewCredentialStore(backend, "b", nil).Read(ctx)
	assert.False(t, ok)
}
