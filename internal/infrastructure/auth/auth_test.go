package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, "aircon")

	token, issued, err := m.Issue(&domain.Session{UserID: 7, Email: "admin@example.com", Name: "Admin", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.TokenID == "" || issued.ExpiresAt.IsZero() {
		t.Fatalf("issued session lacks id or expiry: %+v", issued)
	}

	got, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.UserID != 7 || got.Role != domain.RoleAdmin || got.TokenID != issued.TokenID || !got.ExpiresAt.Equal(issued.ExpiresAt) {
		t.Fatalf("parsed %+v, issued %+v", got, issued)
	}
}

func TestParseRejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, "aircon")
	token, _, err := m.Issue(&domain.Session{UserID: 1, Role: domain.RoleCustomer})
	if err != nil {
		t.Fatal(err)
	}

	expired := NewTokenManager("secret", time.Hour, "aircon")
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	tests := []struct {
		name  string
		m     *TokenManager
		token string
	}{
		{"wrong secret", NewTokenManager("other", time.Hour, "aircon"), token},
		{"wrong issuer", NewTokenManager("secret", time.Hour, "someone"), token},
		{"expired", expired, token},
		{"garbage", m, "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.m.Parse(tt.token); !errors.Is(err, e.ErrUnauthorized) {
				t.Fatalf("err = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Compare(hash, "secret1"); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, e.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}
