package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
)

func newAuthFixture() (*AuthUseCase, *fakeDenylist) {
	denylist := &fakeDenylist{}
	uc := NewAuthUC(&fakeUserRepo{}, fakeHasher{}, newFakeTokens(), denylist, logger.Nop{}, []string{"Admin@Example.com"})
	return uc, denylist
}

func TestAuthUseCase_SignupValidation(t *testing.T) {
	uc, _ := newAuthFixture()

	tests := []struct {
		name  string
		req   SignupReq
		field string
		msg   string
	}{
		{"short name", SignupReq{Name: "J", Email: "j@example.com", Password: "secret1", ConfirmPassword: "secret1"}, "name", "Name must be at least 2 characters"},
		{"bad email", SignupReq{Name: "Jane", Email: "jane", Password: "secret1", ConfirmPassword: "secret1"}, "email", "Please enter a valid email address"},
		{"short password", SignupReq{Name: "Jane", Email: "j@example.com", Password: "12345", ConfirmPassword: "12345"}, "password", "Password must be at least 6 characters"},
		{"mismatch", SignupReq{Name: "Jane", Email: "j@example.com", Password: "secret1", ConfirmPassword: "secret2"}, "confirmPassword", "Passwords don't match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := uc.Signup(context.Background(), &req)
			v, ok := e.AsValidation(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if v.Fields[tt.field] != tt.msg {
				t.Fatalf("fields = %v", v.Fields)
			}
		})
	}
}

func TestAuthUseCase_SignupLoginLogout(t *testing.T) {
	uc, denylist := newAuthFixture()
	ctx := context.Background()

	res, err := uc.Signup(ctx, &SignupReq{Name: " Jane ", Email: "Jane@Example.com", Password: "secret1", ConfirmPassword: "secret1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Session.Email != "jane@example.com" || res.Session.Name != "Jane" || res.Session.Role != domain.RoleCustomer {
		t.Fatalf("session = %+v", res.Session)
	}

	if _, err := uc.Signup(ctx, &SignupReq{Name: "Jane", Email: "jane@example.com", Password: "secret1", ConfirmPassword: "secret1"}); !errors.Is(err, e.ErrValidation) {
		t.Fatalf("expected validation error for taken email, got %v", err)
	}

	if _, err := uc.Login(ctx, &LoginReq{Email: "jane@example.com", Password: "wrong"}); !errors.Is(err, e.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := uc.Login(ctx, &LoginReq{Email: "nobody@example.com", Password: "secret1"}); !errors.Is(err, e.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	login, err := uc.Login(ctx, &LoginReq{Email: "JANE@example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session, err := uc.Authenticate(ctx, login.Token)
	if err != nil || session.UserID != res.Session.UserID {
		t.Fatalf("authenticate = %+v, %v", session, err)
	}

	if err := uc.Logout(ctx, session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := denylist.revoked[session.TokenID]; !ok {
		t.Fatal("token was not revoked")
	}
	if _, err := uc.Authenticate(ctx, login.Token); !errors.Is(err, e.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
	if _, err := uc.Authenticate(ctx, "garbage"); !errors.Is(err, e.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthUseCase_AdminRole(t *testing.T) {
	uc, _ := newAuthFixture()

	res, err := uc.Signup(context.Background(), &SignupReq{Name: "Admin", Email: "admin@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Session.IsAdmin() {
		t.Fatalf("role = %s", res.Session.Role)
	}
}

func TestLuhn(t *testing.T) {
	tests := map[string]bool{
		"4242424242424242": true,
		"4000000000000002": true,
		"4242424242424241": false,
		"":                 false,
		"42424242a4242424": false,
	}
	for number, want := range tests {
		if got := Luhn(number); got != want {
			t.Fatalf("Luhn(%q) = %v", number, got)
		}
	}
}
