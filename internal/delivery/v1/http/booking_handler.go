package http

import (
	"net/http"
	"strings"

	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const (
	idempotencyHeader = "Idempotency-Key"
	maxIdempotencyKey = 128
	replayedHeader    = "Idempotent-Replayed"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUC
	logger         logger.Logger
}

func NewBookingHandler(bookingUsecase usecase.BookingUC, logger logger.Logger) *BookingHandler {
	return &BookingHandler{bookingUsecase: bookingUsecase, logger: logger}
}

// confirm
//
//	@Summary		Подтверждение записи с оплатой
//	@Description	Повтор запроса с тем же Idempotency-Key возвращает исходное подтверждение
//	@Tags			wizard
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id				path		string			true	"ID сессии записи"
//	@Param			Idempotency-Key	header		string			true	"Ключ идемпотентности"
//	@Param			body			body		ConfirmRequest	true	"Данные карты"
//	@Success		201				{object}	ConfirmationResponse
//	@Success		200				{object}	ConfirmationResponse	"Повтор"
//	@Failure		402				{object}	ErrorResponse			"Платеж отклонен"
//	@Failure		409				{object}	ErrorResponse			"Слот занят"
//	@Failure		502				{object}	ErrorResponse			"Сбой платежа"
//	@Failure		503				{object}	ErrorResponse			"Запись не сохранена, платеж возвращен"
//	@Router			/wizard/{id}/confirm [post]
func (b *BookingHandler) confirm(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if key == "" || len(key) > maxIdempotencyKey {
		WriteError(w, e.Field("idempotencyKey", "Idempotency-Key header is required (at most 128 characters)"))
		return
	}

	var body ConfirmRequest
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	res, err := b.bookingUsecase.Confirm(r.Context(), &usecase.ConfirmBookingReq{
		SessionID:      chi.URLParam(r, "id"),
		Customer:       *session,
		Payment:        body.Payment,
		IdempotencyKey: key,
		Notes:          body.Notes,
	})
	if err != nil {
		b.logger.Warnf("confirm booking %s: %v", chi.URLParam(r, "id"), err)
		WriteError(w, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
		w.Header().Set(replayedHeader, "true")
	}

	WriteSuccess(w, status, toConfirmationResponse(res))
}
