package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager выпускает и проверяет HS256-токены сессии.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration, issuer string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue подписывает токен для сессии и возвращает сессию с ID токена и сроком действия.
func (m *TokenManager) Issue(session *domain.Session) (string, *domain.Session, error) {
	const op = "TokenManager.Issue"

	now := m.now()
	issued := *session
	issued.TokenID = uuid.NewString()
	issued.ExpiresAt = now.Add(m.ttl).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: issued.Email,
		Name:  issued.Name,
		Role:  issued.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        issued.TokenID,
			Subject:   strconv.FormatInt(issued.UserID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(issued.ExpiresAt),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, e.Wrap(op, err)
	}

	return signed, &issued, nil
}

// Parse проверяет подпись, издателя и срок действия токена.
func (m *TokenManager) Parse(token string) (*domain.Session, error) {
	const op = "TokenManager.Parse"

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %v", e.ErrUnauthorized, err))
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: bad subject", e.ErrUnauthorized))
	}

	return &domain.Session{
		TokenID:   c.ID,
		UserID:    userID,
		Email:     c.Email,
		Name:      c.Name,
		Role:      c.Role,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
