package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vaultpass/passgen-go/internal/breach"
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/events"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/strength"
)

const (
	maxWebsiteLength  = 255
	maxUsernameLength = 255
	recheckTimeout    = 30 * time.Second
)

var (
	ErrWebsiteRequired = errors.New("website is required")
	ErrFieldTooLong    = errors.New("website and username must be at most 255 characters")
	ErrEntryNotFound   = errors.New("vault entry not found")
	// ErrEntryChanged means the entry was updated or deleted while its breach
	// check was running; the result was discarded.
	ErrEntryChanged = errors.New("vault entry changed during breach check")
)

// VaultStore persists saved passwords.
type VaultStore interface {
	Create(ctx context.Context, e *model.VaultEntry) error
	GetByEntryID(ctx context.Context, userID int64, entryID string) (*model.VaultEntry, error)
	ListByUser(ctx context.Context, userID int64) ([]model.VaultEntry, error)
	Update(ctx context.Context, e *model.VaultEntry) error
	UpdateBreach(ctx context.Context, userID int64, entryID string, sealed []byte, res breach.Result, checkedAt time.Time) error
	Delete(ctx context.Context, userID int64, entryID string) error
}

// VaultService manages a user's saved passwords. Passwords are sealed at rest,
// scored on write and checked for breaches after the write completes.
type VaultService struct {
	store    VaultStore
	sealer   *crypto.Sealer
	breaches BreachChecker
	events   events.Publisher
	now      func() time.Time
}

// NewVaultService creates a new VaultService. A nil pub discards events, in
// which case breach status is only settled by Recheck or Audit.
func NewVaultService(store VaultStore, sealer *crypto.Sealer, bc BreachChecker, pub events.Publisher) *VaultService {
	if pub == nil {
		pub = events.Discard{}
	}
	return &VaultService{
		store:    store,
		sealer:   sealer,
		breaches: bc,
		events:   pub,
		now:      time.Now,
	}
}

// CreateEntry saves a new password for userID.
func (s *VaultService) CreateEntry(ctx context.Context, userID int64, req model.VaultEntryRequest) (model.VaultEntryResponse, error) {
	if err := validateEntry(req); err != nil {
		return model.VaultEntryResponse{}, err
	}

	entry := model.VaultEntry{
		UserID:   userID,
		EntryID:  uuid.NewString(),
		Website:  req.Website,
		Username: req.Username,
	}
	if err := s.applyPassword(&entry, req.Password); err != nil {
		return model.VaultEntryResponse{}, err
	}

	if err := s.store.Create(ctx, &entry); err != nil {
		return model.VaultEntryResponse{}, err
	}
	now := s.now().UTC()
	entry.CreatedAt, entry.UpdatedAt = now, now

	s.events.Publish(events.TopicEntrySaved, events.EntrySaved{UserID: userID, EntryID: entry.EntryID})
	return toEntryResponse(entry, req.Password), nil
}

// UpdateEntry replaces an existing entry's website, username and password.
func (s *VaultService) UpdateEntry(ctx context.Context, userID int64, entryID string, req model.VaultEntryRequest) (model.VaultEntryResponse, error) {
	if err := validateEntry(req); err != nil {
		return model.VaultEntryResponse{}, err
	}

	existing, err := s.get(ctx, userID, entryID)
	if err != nil {
		return model.VaultEntryResponse{}, err
	}

	existing.Website = req.Website
	existing.Username = req.Username
	if err := s.applyPassword(existing, req.Password); err != nil {
		return model.VaultEntryResponse{}, err
	}

	if err := s.store.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return model.VaultEntryResponse{}, ErrEntryNotFound
		}
		return model.VaultEntryResponse{}, err
	}
	existing.UpdatedAt = s.now().UTC()

	s.events.Publish(events.TopicEntrySaved, events.EntrySaved{UserID: userID, EntryID: entryID})
	return toEntryResponse(*existing, req.Password), nil
}

// GetEntry returns one decrypted entry.
func (s *VaultService) GetEntry(ctx context.Context, userID int64, entryID string) (model.VaultEntryResponse, error) {
	entry, err := s.get(ctx, userID, entryID)
	if err != nil {
		return model.VaultEntryResponse{}, err
	}
	password, err := s.open(entry)
	if err != nil {
		return model.VaultEntryResponse{}, err
	}
	return toEntryResponse(*entry, password), nil
}

// ListEntries returns all of a user's entries, decrypted.
func (s *VaultService) ListEntries(ctx context.Context, userID int64) ([]model.VaultEntryResponse, error) {
	entries, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.VaultEntryResponse, 0, len(entries))
	for i := range entries {
		password, err := s.open(&entries[i])
		if err != nil {
			return nil, err
		}
		result = append(result, toEntryResponse(entries[i], password))
	}
	return result, nil
}

// DeleteEntry removes an entry.
func (s *VaultService) DeleteEntry(ctx context.Context, userID int64, entryID string) error {
	err := s.store.Delete(ctx, userID, entryID)
	if errors.Is(err, repository.ErrEntryNotFound) {
		return ErrEntryNotFound
	}
	return err
}

// Recheck runs a breach check for one entry and stores the outcome, including
// an "unavailable" outcome so a failed check is never recorded as clean.
func (s *VaultService) Recheck(ctx context.Context, userID int64, entryID string) (breach.Result, error) {
	entry, err := s.get(ctx, userID, entryID)
	if err != nil {
		return breach.Result{}, err
	}
	return s.recheck(ctx, entry)
}

// HandleEntrySaved is the async subscriber for events.TopicEntrySaved.
func (s *VaultService) HandleEntrySaved(ev events.EntrySaved) {
	ctx, cancel := context.WithTimeout(context.Background(), recheckTimeout)
	defer cancel()

	res, err := s.Recheck(ctx, ev.UserID, ev.EntryID)
	if errors.Is(err, ErrEntryChanged) || errors.Is(err, ErrEntryNotFound) {
		slog.Debug("vault breach recheck superseded", "user_id", ev.UserID, "entry_id", ev.EntryID)
		return
	}
	if err != nil {
		slog.Warn("vault breach recheck failed", "user_id", ev.UserID, "entry_id", ev.EntryID, "error", err)
		return
	}
	slog.Info("vault breach recheck", "user_id", ev.UserID, "entry_id", ev.EntryID, "status", res.Status)
}

// Audit re-checks every entry of userID and summarises the outcome.
func (s *VaultService) Audit(ctx context.Context, userID int64) (model.AuditResponse, error) {
	entries, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return model.AuditResponse{}, err
	}

	var summary model.AuditResponse
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return model.AuditResponse{}, err
		}
		res, err := s.recheck(ctx, &entries[i])
		if errors.Is(err, ErrEntryChanged) {
			// Updated or deleted mid-audit; its own recheck settles it.
			continue
		}
		if err != nil {
			return model.AuditResponse{}, err
		}
		summary.Checked++
		switch res.Status {
		case breach.StatusCompromised:
			summary.Compromised++
		case breach.StatusUnavailable:
			summary.Unavailable++
		}
		if entries[i].StrengthLabel == strength.LabelWeak {
			summary.Weak++
		}
	}
	summary.AuditedAt = s.now().UTC()
	return summary, nil
}

func (s *VaultService) recheck(ctx context.Context, entry *model.VaultEntry) (breach.Result, error) {
	password, err := s.open(entry)
	if err != nil {
		return breach.Result{}, err
	}

	res := s.breaches.Check(ctx, password)
	if err := s.store.UpdateBreach(ctx, entry.UserID, entry.EntryID, entry.SealedPassword, res, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrBreachStale) {
			return breach.Result{}, ErrEntryChanged
		}
		return breach.Result{}, err
	}
	return res, nil
}

func (s *VaultService) get(ctx context.Context, userID int64, entryID string) (*model.VaultEntry, error) {
	entry, err := s.store.GetByEntryID(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// applyPassword seals password into entry, scores it and marks its breach
// status pending.
func (s *VaultService) applyPassword(entry *model.VaultEntry, password string) error {
	sealed, err := s.sealer.Seal([]byte(password), entryAAD(entry))
	if err != nil {
		return err
	}
	score := strength.Evaluate(password)

	entry.SealedPassword = sealed
	entry.StrengthScore = score.Score
	entry.StrengthLabel = score.Label
	entry.BreachStatus = model.BreachPending
	entry.BreachCount = 0
	entry.CheckedAt = nil
	return nil
}

func (s *VaultService) open(entry *model.VaultEntry) (string, error) {
	plain, err := s.sealer.Open(entry.SealedPassword, entryAAD(entry))
	if err != nil {
		return "", fmt.Errorf("entry %s: %w", entry.EntryID, err)
	}
	return string(plain), nil
}

// entryAAD binds a sealed password to its owner and entry so ciphertexts
// cannot be swapped between rows.
func entryAAD(entry *model.VaultEntry) []byte {
	return fmt.Appendf(nil, "%d/%s", entry.UserID, entry.EntryID)
}

func validateEntry(req model.VaultEntryRequest) error {
	if req.Website == "" {
		return ErrWebsiteRequired
	}
	if req.Password == "" {
		return ErrPasswordRequired
	}
	if len(req.Website) > maxWebsiteLength || len(req.Username) > maxUsernameLength {
		return ErrFieldTooLong
	}
	if len(req.Password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func toEntryResponse(e model.VaultEntry, password string) model.VaultEntryResponse {
	return model.VaultEntryResponse{
		EntryID:       e.EntryID,
		Website:       e.Website,
		Username:      e.Username,
		Password:      password,
		StrengthScore: e.StrengthScore,
		StrengthLabel: e.StrengthLabel,
		BreachStatus:  e.BreachStatus,
		BreachCount:   e.BreachCount,
		CheckedAt:     e.CheckedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
