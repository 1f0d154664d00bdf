package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaultpass/passgen-go/internal/breach"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/strength"
)

// MaxPasswordLength bounds passwords accepted for scoring and checking.
const MaxPasswordLength = 1024

var (
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooLong  = errors.New("password must be at most 1024 characters")
)

// BreachChecker looks passwords up in a breach corpus.
type BreachChecker interface {
	Check(ctx context.Context, password string) breach.Result
}

// CheckerService scores passwords and checks them for breaches.
type CheckerService struct {
	breaches BreachChecker
}

// NewCheckerService creates a new CheckerService.
func NewCheckerService(bc BreachChecker) *CheckerService {
	return &CheckerService{breaches: bc}
}

// Strength scores the password in req. An empty password is not an error; it
// yields the "none" label.
func (s *CheckerService) Strength(req model.PasswordRequest) (model.StrengthResponse, error) {
	if len(req.Password) > MaxPasswordLength {
		return model.StrengthResponse{}, ErrPasswordTooLong
	}
	return model.StrengthResponse{Result: strength.Evaluate(req.Password)}, nil
}

// Breach checks the password in req against the breach corpus.
func (s *CheckerService) Breach(ctx context.Context, req model.PasswordRequest) (model.BreachResponse, error) {
	if req.Password == "" {
		return model.BreachResponse{}, ErrPasswordRequired
	}
	if len(req.Password) > MaxPasswordLength {
		return model.BreachResponse{}, ErrPasswordTooLong
	}

	res := s.breaches.Check(ctx, req.Password)
	return model.BreachResponse{
		Compromised: res.Compromised,
		Count:       res.Count,
		Status:      res.Status,
		Message:     breachMessage(res),
	}, nil
}

func breachMessage(res breach.Result) string {
	switch res.Status {
	case breach.StatusCompromised:
		return fmt.Sprintf("This password has been found %d times in known data breaches. Use a different password.", res.Count)
	case breach.StatusClean:
		return "This password does not appear in any known data breaches."
	default:
		return "The breach database could not be reached; this password has not been verified."
	}
}
