package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User учетная запись клиента или администратора
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func NewUser(name, email, passwordHash string, role Role) *User {
	return &User{
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Session данные аутентифицированного пользователя, которые несет токен.
type Session struct {
	TokenID   string
	UserID    int64
	Email     string
	Name      string
	Role      Role
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
