package service

import (
	"context"
	"testing"
	"time"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
)

// memUsers is an in-memory UserStore.
type memUsers struct {
	byID   map[int64]*model.User
	nextID int64
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[int64]*model.User)}
}

func (m *memUsers) Create(_ context.Context, user *model.User) error {
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func newTestAuthService() (*AuthService, *crypto.TokenIssuer) {
	tokens := crypto.NewTokenIssuer("test-secret", time.Hour)
	return NewAuthService(newMemUsers(), tokens), tokens
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  model.CredentialsRequest
		want error
	}{
		{name: "empty email", req: model.CredentialsRequest{Password: "password123"}, want: ErrEmailRequired},
		{name: "bad email", req: model.CredentialsRequest{Email: "not-an-email", Password: "password123"}, want: ErrEmailInvalid},
		{name: "empty password", req: model.CredentialsRequest{Email: "test@example.com"}, want: ErrPasswordRequired},
		{name: "short password", req: model.CredentialsRequest{Email: "test@example.com", Password: "short"}, want: ErrAccountPasswordWeak},
	}

	svc, _ := newTestAuthService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tt.req); err != tt.want {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens := newTestAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, model.CredentialsRequest{Email: " Alice@Example.com ", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if reg.User.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", reg.User.Email)
	}
	claims, err := tokens.Validate(reg.Token)
	if err != nil || claims.UserID != reg.User.ID {
		t.Fatalf("register token invalid: claims %+v, err %v", claims, err)
	}

	if _, err := svc.Register(ctx, model.CredentialsRequest{Email: "alice@example.com", Password: "another-pass"}); err != ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	login, err := svc.Login(ctx, model.CredentialsRequest{Email: "ALICE@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("login user = %d, want %d", login.User.ID, reg.User.ID)
	}

	if _, err := svc.Login(ctx, model.CredentialsRequest{Email: "alice@example.com", Password: "wrong-horse"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(ctx, model.CredentialsRequest{Email: "bob@example.com", Password: "correct-horse"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	me, err := svc.GetUser(ctx, reg.User.ID)
	if err != nil || me.Email != "alice@example.com" {
		t.Errorf("GetUser() = %+v, %v", me, err)
	}
}
