package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ericfisherdev/dongdong-admin/internal/adapter/driven/slotcrypt"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SlotStore = (*SlotRepo)(nil)

const keyPrefix = "ddadmin:slot:"

// SlotRepo stores sealed slot values in Redis.
// Key format: ddadmin:slot:<scope>:<name>. Every write refreshes the TTL,
// so an idle browser session expires on its own.
type SlotRepo struct {
	client *redis.Client
	sealer *slotcrypt.Sealer
	ttl    time.Duration
}

// NewSlotRepo creates a SlotRepo. A ttl of zero keeps slots until deleted.
func NewSlotRepo(client *redis.Client, sealer *slotcrypt.Sealer, ttl time.Duration) *SlotRepo {
	return &SlotRepo{client: client, sealer: sealer, ttl: ttl}
}

// Get retrieves the plaintext value of a slot. Returns ("", nil) if the slot is unset.
func (r *SlotRepo) Get(ctx context.Context, scope, name string) (string, error) {
	if !r.sealer.Enabled() {
		return "", driven.ErrEncryptionKeyNotSet
	}

	sealed, err := r.client.Get(ctx, slotKey(scope, name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get slot %q: %w", name, err)
	}

	plaintext, err := r.sealer.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("decrypt slot %q: %w", name, err)
	}
	return plaintext, nil
}

// Set stores or replaces the slot value and refreshes its TTL.
func (r *SlotRepo) Set(ctx context.Context, scope, name, value string) error {
	sealed, err := r.sealer.Seal(value)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, slotKey(scope, name), sealed, r.ttl).Err(); err != nil {
		return fmt.Errorf("set slot %q: %w", name, err)
	}
	return nil
}

// Delete removes the slot. Deleting an unset slot is not an error.
func (r *SlotRepo) Delete(ctx context.Context, scope, name string) error {
	if err := r.client.Del(ctx, slotKey(scope, name)).Err(); err != nil {
		return fmt.Errorf("delete slot %q: %w", name, err)
	}
	return nil
}

// List returns every slot held for scope, ordered by name. UpdatedAt is not
// tracked in Redis and is left zero.
func (r *SlotRepo) List(ctx context.Context, scope string) ([]model.CredentialSlot, error) {
	if !r.sealer.Enabled() {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	prefix := slotKey(scope, "")
	var keys []string
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan slots: %w", err)
	}
	sort.Strings(keys)

	slots := make([]model.CredentialSlot, 0, len(keys))
	for _, key := range keys {
		sealed, err := r.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue // expired between SCAN and GET
		}
		if err != nil {
			return nil, fmt.Errorf("get slot %q: %w", key, err)
		}
		value, err := r.sealer.Open(sealed)
		if err != nil {
			return nil, fmt.Errorf("decrypt slot %q: %w", key, err)
		}
		slots = append(slots, model.CredentialSlot{
			Scope: scope,
			Name:  strings.TrimPrefix(key, prefix),
			Value: value,
		})
	}
	return slots, nil
}

func slotKey(scope, name string) string {
	return keyPrefix + scope + ":" + name
}
