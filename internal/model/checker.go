package model

import (
	"github.com/vaultpass/passgen-go/internal/breach"
	"github.com/vaultpass/passgen-go/internal/strength"
)

// PasswordRequest carries a password to score or check.
type PasswordRequest struct {
	Password string `json:"password"`
}

// StrengthResponse is the body of POST /api/v1/strength.
type StrengthResponse struct {
	strength.Result
}

// BreachResponse is the body of POST /api/v1/breach. Status is "unavailable"
// when the lookup failed, in which case Compromised carries no information.
type BreachResponse struct {
	Compromised bool          `json:"compromised"`
	Count       int           `json:"count"`
	Status      breach.Status `json:"status"`
	Message     string        `json:"message"`
}
