package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by SlotStore operations when the adapter
// was constructed without an encryption key.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set DDADMIN_SECRET_KEY")

// SlotStore defines the driven port for browser-scoped durable key/value
// storage. Scope identifies a browser session, name identifies a slot in it.
// The adapter layer is responsible for encryption at rest; this interface
// operates on plaintext values at the domain boundary.
type SlotStore interface {
	// Get retrieves the value of the slot. Returns ("", nil) if the slot is unset.
	Get(ctx context.Context, scope, name string) (string, error)

	// Set stores or replaces the slot value.
	Set(ctx context.Context, scope, name, value string) error

	// Delete removes the slot. Deleting an unset slot is not an error.
	Delete(ctx context.Context, scope, name string) error

	// List returns every slot held for scope.
	List(ctx context.Context, scope string) ([]model.CredentialSlot, error)
}
