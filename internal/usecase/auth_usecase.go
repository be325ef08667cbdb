package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
)

type AuthUseCase struct {
	userRepo    UserRepository
	hasher      PasswordHasher
	tokens      TokenManager
	denylist    TokenDenylist
	logger      logger.Logger
	adminEmails map[string]struct{}
}

func NewAuthUC(
	userRepo UserRepository,
	hasher PasswordHasher,
	tokens TokenManager,
	denylist TokenDenylist,
	logger logger.Logger,
	adminEmails []string,
) *AuthUseCase {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[domain.NormalizeEmail(email)] = struct{}{}
	}

	return &AuthUseCase{
		userRepo:    userRepo,
		hasher:      hasher,
		tokens:      tokens,
		denylist:    denylist,
		logger:      logger,
		adminEmails: admins,
	}
}

func (a *AuthUseCase) Signup(ctx context.Context, req *SignupReq) (*AuthRes, error) {
	const op = "AuthUseCase.Signup"

	req.Name = strings.TrimSpace(req.Name)
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	user, err := a.userRepo.Create(ctx, domain.NewUser(req.Name, req.Email, hash, a.roleFor(req.Email)))
	if err != nil {
		if errors.Is(err, e.ErrEmailTaken) {
			return nil, e.Wrap(op, e.NewValidationError(map[string]string{"email": e.ErrEmailTaken.Error()}))
		}
		return nil, e.Wrap(op, err)
	}

	a.logger.Infof("user registered: id=%d role=%s", user.ID, user.Role)
	return a.issue(user)
}

func (a *AuthUseCase) Login(ctx context.Context, req *LoginReq) (*AuthRes, error) {
	const op = "AuthUseCase.Login"

	req.Email = domain.NormalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	user, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, e.ErrUserNotFound) {
			return nil, e.Wrap(op, e.ErrInvalidCredentials)
		}
		return nil, e.Wrap(op, err)
	}

	if err := a.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	// Список администраторов задается конфигурацией и может измениться после регистрации
	user.Role = a.roleFor(user.Email)

	return a.issue(user)
}

func (a *AuthUseCase) Logout(ctx context.Context, session *domain.Session) error {
	const op = "AuthUseCase.Logout"

	if err := a.denylist.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (a *AuthUseCase) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	const op = "AuthUseCase.Authenticate"

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	session, err := a.tokens.Parse(token)
	if err != nil {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	revoked, err := a.denylist.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if revoked {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	return session, nil
}

func (a *AuthUseCase) issue(user *domain.User) (*AuthRes, error) {
	const op = "AuthUseCase.issue"

	token, session, err := a.tokens.Issue(&domain.Session{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &AuthRes{Token: token, Session: *session}, nil
}

func (a *AuthUseCase) roleFor(email string) domain.Role {
	if _, ok := a.adminEmails[domain.NormalizeEmail(email)]; ok {
		return domain.RoleAdmin
	}
	return domain.RoleCustomer
}
