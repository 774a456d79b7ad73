package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/dongdong-admin/internal/adapter/driven/slotcrypt"
)

const testTTL = time.Hour

func newTestSealer(t *testing.T) *slotcrypt.Sealer {
	t.Helper()
	s, err := slotcrypt.New([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return s
}

// setupTestRepo returns a SlotRepo backed by an in-process Redis server
// private to t, plus the server for inspecting raw keys and moving its clock.
func setupTestRepo(t *testing.T) (*SlotRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewSlotRepo(client, newTestSealer(t), testTTL), mr
}
