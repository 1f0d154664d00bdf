package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vaultpass/passgen-go/internal/middleware"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

// VaultHandler handles HTTP requests for saved passwords.
type VaultHandler struct {
	service *service.VaultService
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(svc *service.VaultService) *VaultHandler {
	return &VaultHandler{service: svc}
}

// HandleListEntries handles GET /api/v1/vault requests.
func (h *VaultHandler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.service.ListEntries(r.Context(), userID)
	if err != nil {
		internalError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, entries)
}

// HandleCreateEntry handles POST /api/v1/vault requests.
func (h *VaultHandler) HandleCreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.VaultEntryRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.CreateEntry(r.Context(), userID, req)
	if err != nil {
		writeVaultError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleGetEntry handles GET /api/v1/vault/{entry_id} requests.
func (h *VaultHandler) HandleGetEntry(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := requireUserAndEntry(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetEntry(r.Context(), userID, entryID)
	if err != nil {
		writeVaultError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateEntry handles PUT /api/v1/vault/{entry_id} requests.
func (h *VaultHandler) HandleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := requireUserAndEntry(w, r)
	if !ok {
		return
	}

	var req model.VaultEntryRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.UpdateEntry(r.Context(), userID, entryID, req)
	if err != nil {
		writeVaultError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDeleteEntry handles DELETE /api/v1/vault/{entry_id} requests.
func (h *VaultHandler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := requireUserAndEntry(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteEntry(r.Context(), userID, entryID); err != nil {
		writeVaultError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAudit handles POST /api/v1/vault/audit requests.
func (h *VaultHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Audit(r.Context(), userID)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
	}
	return userID, ok
}

func requireUserAndEntry(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return 0, "", false
	}

	entryID := chi.URLParam(r, "entry_id")
	if err := uuid.Validate(entryID); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid entry id"))
		return 0, "", false
	}
	return userID, entryID, true
}

func writeVaultError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrWebsiteRequired),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooLong),
		errors.Is(err, service.ErrFieldTooLong):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrEntryNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		internalError(w, r, err)
	}
}
