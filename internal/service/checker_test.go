package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vaultpass/passgen-go/internal/breach"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/strength"
)

// stubChecker returns a fixed result and records what it was asked.
type stubChecker struct {
	result breach.Result
	calls  []string
}

func (s *stubChecker) Check(_ context.Context, password string) breach.Result {
	s.calls = append(s.calls, password)
	return s.result
}

func TestStrength(t *testing.T) {
	svc := NewCheckerService(&stubChecker{})

	resp, err := svc.Strength(model.PasswordRequest{Password: "Tr0ub4dor&3xyzPQ"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Label != strength.LabelVeryStrong {
		t.Errorf("expected very strong, got %q", resp.Label)
	}

	resp, err = svc.Strength(model.PasswordRequest{})
	if err != nil {
		t.Fatalf("unexpected error for empty password: %v", err)
	}
	if resp.Score != 0 || resp.Label != strength.LabelNone {
		t.Errorf("empty password = %+v", resp)
	}
}

func TestStrength_TooLong(t *testing.T) {
	svc := NewCheckerService(&stubChecker{})
	_, err := svc.Strength(model.PasswordRequest{Password: strings.Repeat("a", MaxPasswordLength+1)})
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestBreach(t *testing.T) {
	tests := []struct {
		name   string
		result breach.Result
		want   string
	}{
		{name: "compromised", result: breach.Result{Compromised: true, Count: 3, Status: breach.StatusCompromised}, want: "found 3 times"},
		{name: "clean", result: breach.Result{Status: breach.StatusClean}, want: "does not appear"},
		{name: "unavailable", result: breach.Result{Status: breach.StatusUnavailable}, want: "not been verified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubChecker{result: tt.result}
			svc := NewCheckerService(stub)

			resp, err := svc.Breach(context.Background(), model.PasswordRequest{Password: "password"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Status != tt.result.Status || resp.Compromised != tt.result.Compromised || resp.Count != tt.result.Count {
				t.Errorf("response = %+v, want %+v", resp, tt.result)
			}
			if !strings.Contains(resp.Message, tt.want) {
				t.Errorf("message %q does not contain %q", resp.Message, tt.want)
			}
		})
	}
}

func TestBreach_EmptyPassword(t *testing.T) {
	stub := &stubChecker{}
	svc := NewCheckerService(stub)

	_, err := svc.Breach(context.Background(), model.PasswordRequest{})
	if err != ErrPasswordRequired {
		t.Errorf("expected ErrPasswordRequired, got %v", err)
	}
	if len(stub.calls) != 0 {
		t.Error("breach checker should not be called for an empty password")
	}
}
