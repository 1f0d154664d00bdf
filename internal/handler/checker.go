package handler

import (
	"errors"
	"net/http"

	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

// CheckerHandler serves strength scoring and breach checks.
type CheckerHandler struct {
	service *service.CheckerService
}

// NewCheckerHandler creates a new CheckerHandler.
func NewCheckerHandler(svc *service.CheckerService) *CheckerHandler {
	return &CheckerHandler{service: svc}
}

// HandleStrength handles POST /api/v1/strength requests.
func (h *CheckerHandler) HandleStrength(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.Strength(req)
	if err != nil {
		writeCheckerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleBreach handles POST /api/v1/breach requests. A lookup that could not
// be completed still answers 200, with status "unavailable".
func (h *CheckerHandler) HandleBreach(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.Breach(r.Context(), req)
	if err != nil {
		writeCheckerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCheckerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrPasswordRequired), errors.Is(err, service.ErrPasswordTooLong):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	default:
		internalError(w, r, err)
	}
}
