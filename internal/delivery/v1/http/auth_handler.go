package http

import (
	"net/http"

	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
)

type AuthHandler struct {
	authUsecase usecase.AuthUC
	logger      logger.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUC, logger logger.Logger) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, logger: logger}
}

// signup
//
//	@Summary	Регистрация
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		usecase.SignupReq	true	"Имя, e-mail, пароль и подтверждение"
//	@Success	201		{object}	AuthResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/auth/signup [post]
func (a *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var body usecase.SignupReq
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	res, err := a.authUsecase.Signup(r.Context(), &body)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toAuthResponse(res))
}

// login
//
//	@Summary	Вход
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		usecase.LoginReq	true	"E-mail и пароль"
//	@Success	200		{object}	AuthResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/auth/login [post]
func (a *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var body usecase.LoginReq
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	res, err := a.authUsecase.Login(r.Context(), &body)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toAuthResponse(res))
}

// logout
//
//	@Summary	Выход
//	@Tags		auth
//	@Security	BearerAuth
//	@Success	204
//	@Router		/auth/logout [post]
func (a *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	if err := a.authUsecase.Logout(r.Context(), session); err != nil {
		a.logger.Warnf("logout user %d: %v", session.UserID, err)
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// me
//
//	@Summary	Текущая сессия
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	SessionResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/auth/me [get]
func (a *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	WriteSuccess(w, http.StatusOK, toSessionResponse(session))
}

func toAuthResponse(res *usecase.AuthRes) AuthResponse {
	return AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.Session.ExpiresAt,
		Session:   toSessionResponse(&res.Session),
	}
}
