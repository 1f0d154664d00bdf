package model

import "github.com/vaultpass/passgen-go/internal/strength"

// GenerateRequest represents a password generation request.
// Pointer bools allow distinguishing between missing (nil -> default true) and explicit false.
type GenerateRequest struct {
	Length    int   `json:"length"`
	Uppercase *bool `json:"uppercase"`
	Lowercase *bool `json:"lowercase"`
	Numbers   *bool `json:"numbers"`
	Symbols   *bool `json:"symbols"`
}

// GenerateResponse carries the generated password and its strength.
type GenerateResponse struct {
	Password string          `json:"password"`
	Length   int             `json:"length"`
	Strength strength.Result `json:"strength"`
}
