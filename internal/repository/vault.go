package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vaultpass/passgen-go/internal/breach"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/strength"
)

var (
	ErrEntryNotFound = errors.New("vault entry not found")
	// ErrBreachStale means the entry was changed or removed after its password
	// was read for a breach check.
	ErrBreachStale = errors.New("vault entry changed since breach check")
)

const entryColumns = `id, user_id, entry_id, website, username, sealed_password,
	strength_score, strength_label, breach_status, breach_count, checked_at, created_at, updated_at`

// VaultRepository handles saved-password persistence.
type VaultRepository struct {
	db *sql.DB
}

// NewVaultRepository creates a new VaultRepository.
func NewVaultRepository(db *sql.DB) *VaultRepository {
	return &VaultRepository{db: db}
}

// Create inserts a new entry and sets its database ID.
func (r *VaultRepository) Create(ctx context.Context, e *model.VaultEntry) error {
	query := `INSERT INTO vault_entries
		(user_id, entry_id, website, username, sealed_password, strength_score, strength_label, breach_status, breach_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		e.UserID, e.EntryID, e.Website, e.Username, e.SealedPassword,
		e.StrengthScore, string(e.StrengthLabel), string(e.BreachStatus), e.BreachCount,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// GetByEntryID retrieves an entry by owner and entry ID.
func (r *VaultRepository) GetByEntryID(ctx context.Context, userID int64, entryID string) (*model.VaultEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM vault_entries WHERE user_id = ? AND entry_id = ?`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, userID, entryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListByUser retrieves all entries for a user, most recently updated first.
func (r *VaultRepository) ListByUser(ctx context.Context, userID int64) ([]model.VaultEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM vault_entries WHERE user_id = ? ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.VaultEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}

// Update replaces an entry's content and strength and resets its breach
// status, since the password may have changed.
func (r *VaultRepository) Update(ctx context.Context, e *model.VaultEntry) error {
	query := `UPDATE vault_entries
		SET website = ?, username = ?, sealed_password = ?, strength_score = ?, strength_label = ?,
			breach_status = ?, breach_count = ?, checked_at = NULL
		WHERE user_id = ? AND entry_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		e.Website, e.Username, e.SealedPassword, e.StrengthScore, string(e.StrengthLabel),
		string(e.BreachStatus), e.BreachCount,
		e.UserID, e.EntryID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// UpdateBreach records the outcome of a breach check of sealed. The row is
// only written while it still holds sealed, so a result for a password that
// has since been replaced is dropped with ErrBreachStale.
func (r *VaultRepository) UpdateBreach(ctx context.Context, userID int64, entryID string, sealed []byte, res breach.Result, checkedAt time.Time) error {
	query := `UPDATE vault_entries SET breach_status = ?, breach_count = ?, checked_at = ?
		WHERE user_id = ? AND entry_id = ? AND sealed_password = ?`

	result, err := r.db.ExecContext(ctx, query, string(res.Status), res.Count, checkedAt, userID, entryID, sealed)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBreachStale
	}
	return nil
}

// Delete removes an entry.
func (r *VaultRepository) Delete(ctx context.Context, userID int64, entryID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vault_entries WHERE user_id = ? AND entry_id = ?`, userID, entryID)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*model.VaultEntry, error) {
	var (
		e            model.VaultEntry
		label, state string
		checkedAt    sql.NullTime
	)
	err := row.Scan(
		&e.ID, &e.UserID, &e.EntryID, &e.Website, &e.Username, &e.SealedPassword,
		&e.StrengthScore, &label, &state, &e.BreachCount, &checkedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.StrengthLabel = strength.Label(label)
	e.BreachStatus = breach.Status(state)
	if checkedAt.Valid {
		t := checkedAt.Time
		e.CheckedAt = &t
	}
	return &e, nil
}
