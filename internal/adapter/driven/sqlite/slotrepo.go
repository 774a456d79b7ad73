package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/dongdong-admin/internal/adapter/driven/slotcrypt"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SlotStore = (*SlotRepo)(nil)

// sqliteTimeLayout matches the format CURRENT_TIMESTAMP writes.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// SlotRepo is the SQLite implementation of the SlotStore port interface.
// Slot values are encrypted with AES-256-GCM before write and decrypted after read.
type SlotRepo struct {
	db     *DB
	sealer *slotcrypt.Sealer
}

// NewSlotRepo creates a new SlotRepo. A disabled sealer makes every operation
// return driven.ErrEncryptionKeyNotSet.
func NewSlotRepo(db *DB, sealer *slotcrypt.Sealer) *SlotRepo {
	return &SlotRepo{db: db, sealer: sealer}
}

// Get retrieves the plaintext value of a slot. Returns ("", nil) if the slot is unset.
func (r *SlotRepo) Get(ctx context.Context, scope, name string) (string, error) {
	if !r.sealer.Enabled() {
		return "", driven.ErrEncryptionKeyNotSet
	}

	const query = `SELECT value FROM credential_slots WHERE scope = ? AND name = ?`
	var encrypted string
	err := r.db.Reader.QueryRowContext(ctx, query, scope, name).Scan(&encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get slot %q: %w", name, err)
	}

	plaintext, err := r.sealer.Open(encrypted)
	if err != nil {
		return "", fmt.Errorf("decrypt slot %q: %w", name, err)
	}
	return plaintext, nil
}

// Set stores or replaces the slot value.
func (r *SlotRepo) Set(ctx context.Context, scope, name, value string) error {
	encrypted, err := r.sealer.Seal(value)
	if err != nil {
		return err
	}

	const query = `INSERT OR REPLACE INTO credential_slots (scope, name, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`
	if _, err := r.db.Writer.ExecContext(ctx, query, scope, name, encrypted); err != nil {
		return fmt.Errorf("set slot %q: %w", name, err)
	}
	return nil
}

// Delete removes the slot. Deleting an unset slot is not an error.
func (r *SlotRepo) Delete(ctx context.Context, scope, name string) error {
	if !r.sealer.Enabled() {
		return driven.ErrEncryptionKeyNotSet
	}

	const query = `DELETE FROM credential_slots WHERE scope = ? AND name = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, scope, name); err != nil {
		return fmt.Errorf("delete slot %q: %w", name, err)
	}
	return nil
}

// List returns every slot held for scope with decrypted values, ordered by name.
func (r *SlotRepo) List(ctx context.Context, scope string) ([]model.CredentialSlot, error) {
	if !r.sealer.Enabled() {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	const query = `SELECT scope, name, value, updated_at FROM credential_slots WHERE scope = ? ORDER BY name`
	rows, err := r.db.Reader.QueryContext(ctx, query, scope)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	slots := []model.CredentialSlot{}
	for rows.Next() {
		var slot model.CredentialSlot
		var encrypted, updatedAt string
		if err := rows.Scan(&slot.Scope, &slot.Name, &encrypted, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}

		slot.Value, err = r.sealer.Open(encrypted)
		if err != nil {
			return nil, fmt.Errorf("decrypt slot %q: %w", slot.Name, err)
		}

		slot.UpdatedAt, err = parseTime(updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at for slot %q: %w", slot.Name, err)
		}

		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}

// DeleteStale removes every slot last written before the given instant and
// returns how many were removed.
func (r *SlotRepo) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM credential_slots WHERE updated_at < ?`
	res, err := r.db.Writer.ExecContext(ctx, query, before.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return 0, fmt.Errorf("delete stale slots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("stale slots rows affected: %w", err)
	}
	return n, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		sqliteTimeLayout,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
