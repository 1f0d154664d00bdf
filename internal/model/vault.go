package model

import (
	"time"

	"github.com/vaultpass/passgen-go/internal/breach"
	"github.com/vaultpass/passgen-go/internal/strength"
)

// BreachPending marks an entry whose breach check has not completed yet.
const BreachPending breach.Status = "pending"

// VaultEntry is a saved password as stored in the database. SealedPassword is
// the XChaCha20-Poly1305 ciphertext of the password.
type VaultEntry struct {
	ID             int64
	UserID         int64
	EntryID        string
	Website        string
	Username       string
	SealedPassword []byte
	StrengthScore  int
	StrengthLabel  strength.Label
	BreachStatus   breach.Status
	BreachCount    int
	CheckedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// VaultEntryRequest is the body of create and update requests.
type VaultEntryRequest struct {
	Website  string `json:"website"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// VaultEntryResponse is a decrypted entry returned to its owner.
type VaultEntryResponse struct {
	EntryID       string         `json:"entry_id"`
	Website       string         `json:"website"`
	Username      string         `json:"username"`
	Password      string         `json:"password"`
	StrengthScore int            `json:"strength_score"`
	StrengthLabel strength.Label `json:"strength_label"`
	BreachStatus  breach.Status  `json:"breach_status"`
	BreachCount   int            `json:"breach_count"`
	CheckedAt     *time.Time     `json:"checked_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// AuditResponse summarises a breach re-check across a user's vault.
type AuditResponse struct {
	Checked     int       `json:"checked"`
	Compromised int       `json:"compromised"`
	Unavailable int       `json:"unavailable"`
	Weak        int       `json:"weak"`
	AuditedAt   time.Time `json:"audited_at"`
}
