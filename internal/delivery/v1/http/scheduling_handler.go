package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// SchedulingHandler справочники услуг и мастеров, слоты и мастер записи.
// Даты без времени разбираются в часовом поясе компании.
type SchedulingHandler struct {
	schedulingUsecase usecase.SchedulingUC
	loc               *time.Location
	logger            logger.Logger
}

func NewSchedulingHandler(schedulingUsecase usecase.SchedulingUC, loc *time.Location, logger logger.Logger) *SchedulingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &SchedulingHandler{schedulingUsecase: schedulingUsecase, loc: loc, logger: logger}
}

// listServices
//
//	@Summary	Услуги
//	@Tags		scheduling
//	@Produce	json
//	@Success	200	{array}	ServiceTypeResponse
//	@Router		/services [get]
func (s *SchedulingHandler) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.schedulingUsecase.ListServiceTypes(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	res := make([]ServiceTypeResponse, 0, len(services))
	for _, st := range services {
		res = append(res, ServiceTypeResponse{
			ID:          st.ID,
			Name:        st.Name,
			Duration:    st.DurationMinutes,
			Price:       domain.CentsToDecimal(st.Price),
			Description: st.Description,
		})
	}

	WriteSuccess(w, http.StatusOK, res)
}

// listTechnicians
//
//	@Summary	Мастера
//	@Tags		scheduling
//	@Produce	json
//	@Success	200	{array}	TechnicianResponse
//	@Router		/technicians [get]
func (s *SchedulingHandler) listTechnicians(w http.ResponseWriter, r *http.Request) {
	techs, err := s.schedulingUsecase.ListTechnicians(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	res := make([]TechnicianResponse, 0, len(techs))
	for _, t := range techs {
		res = append(res, TechnicianResponse{
			ID:             t.ID,
			Name:           t.Name,
			Specialization: t.Specialization,
			Rating:         t.Rating,
			Available:      t.Available,
			Image:          t.ImageURL,
		})
	}

	WriteSuccess(w, http.StatusOK, res)
}

// getTimeSlots
//
//	@Summary	Слоты на дату
//	@Tags		scheduling
//	@Produce	json
//	@Param		date		query	string	true	"YYYY-MM-DD"
//	@Param		technician	query	string	false	"ID мастера"
//	@Success	200			{array}	SlotResponse
//	@Failure	422			{object}	ErrorResponse
//	@Router		/slots [get]
func (s *SchedulingHandler) getTimeSlots(w http.ResponseWriter, r *http.Request) {
	date, err := s.parseDate(r.URL.Query().Get("date"))
	if err != nil {
		WriteError(w, err)
		return
	}

	slots, err := s.schedulingUsecase.GetTimeSlots(r.Context(), date, r.URL.Query().Get("technician"))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSlotResponses(slots))
}

// startWizard
//
//	@Summary	Начать запись
//	@Tags		wizard
//	@Produce	json
//	@Security	BearerAuth
//	@Success	201	{object}	WizardResponse
//	@Router		/wizard [post]
func (s *SchedulingHandler) startWizard(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	view, err := s.schedulingUsecase.StartWizard(r.Context(), session.UserID)
	if err != nil {
		s.logger.Warnf("start wizard: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toWizardResponse(view))
}

// getWizard
//
//	@Summary	Состояние записи
//	@Tags		wizard
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID сессии записи"
//	@Success	200	{object}	WizardResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/wizard/{id} [get]
func (s *SchedulingHandler) getWizard(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	view, err := s.schedulingUsecase.GetWizard(r.Context(), chi.URLParam(r, "id"), session.UserID)
	s.writeView(w, view, err)
}

// discardWizard закрытие окна записи
//
//	@Summary	Отменить запись
//	@Tags		wizard
//	@Security	BearerAuth
//	@Param		id	path	string	true	"ID сессии записи"
//	@Success	204
//	@Router		/wizard/{id} [delete]
func (s *SchedulingHandler) discardWizard(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	if err := s.schedulingUsecase.DiscardWizard(r.Context(), chi.URLParam(r, "id"), session.UserID); err != nil {
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// selectDateTime
//
//	@Summary	Шаг 1: дата и время
//	@Tags		wizard
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"ID сессии записи"
//	@Param		body	body		SelectDateTimeRequest	true	"Дата YYYY-MM-DD и слот, например 10:00 AM"
//	@Success	200		{object}	WizardResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/wizard/{id}/datetime [put]
func (s *SchedulingHandler) selectDateTime(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	var body SelectDateTimeRequest
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	date, err := s.parseDate(body.Date)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := s.schedulingUsecase.SelectDateTime(r.Context(), chi.URLParam(r, "id"), session.UserID, usecase.SelectDateTimeReq{
		Date: date,
		Time: body.Time,
	})
	s.writeView(w, view, err)
}

// selectService
//
//	@Summary	Шаг 2: услуга
//	@Tags		wizard
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"ID сессии записи"
//	@Param		body	body		SelectServiceRequest	true	"ID услуги"
//	@Success	200		{object}	WizardResponse
//	@Router		/wizard/{id}/service [put]
func (s *SchedulingHandler) selectService(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	var body SelectServiceRequest
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	view, err := s.schedulingUsecase.SelectService(r.Context(), chi.URLParam(r, "id"), session.UserID, body.ServiceType)
	s.writeView(w, view, err)
}

// selectTechnician
//
//	@Summary	Шаг 3: мастер
//	@Tags		wizard
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"ID сессии записи"
//	@Param		body	body		SelectTechnicianRequest	true	"ID мастера"
//	@Success	200		{object}	WizardResponse
//	@Router		/wizard/{id}/technician [put]
func (s *SchedulingHandler) selectTechnician(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	var body SelectTechnicianRequest
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	view, err := s.schedulingUsecase.SelectTechnician(r.Context(), chi.URLParam(r, "id"), session.UserID, body.Technician)
	s.writeView(w, view, err)
}

// setAddress
//
//	@Summary	Шаг 3: адрес
//	@Tags		wizard
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"ID сессии записи"
//	@Param		body	body		SetAddressRequest	true	"Адрес"
//	@Success	200		{object}	WizardResponse
//	@Router		/wizard/{id}/address [put]
func (s *SchedulingHandler) setAddress(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	var body SetAddressRequest
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	view, err := s.schedulingUsecase.SetAddress(r.Context(), chi.URLParam(r, "id"), session.UserID, body.Address)
	s.writeView(w, view, err)
}

// next
//
//	@Summary	Следующий шаг
//	@Tags		wizard
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID сессии записи"
//	@Success	200	{object}	WizardResponse
//	@Failure	409	{object}	ErrorResponse	"Шаг не заполнен"
//	@Router		/wizard/{id}/next [post]
func (s *SchedulingHandler) next(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	view, err := s.schedulingUsecase.Next(r.Context(), chi.URLParam(r, "id"), session.UserID)
	s.writeView(w, view, err)
}

// back
//
//	@Summary	Предыдущий шаг
//	@Tags		wizard
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID сессии записи"
//	@Success	200	{object}	WizardResponse
//	@Router		/wizard/{id}/back [post]
func (s *SchedulingHandler) back(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	view, err := s.schedulingUsecase.Back(r.Context(), chi.URLParam(r, "id"), session.UserID)
	s.writeView(w, view, err)
}

func (s *SchedulingHandler) writeView(w http.ResponseWriter, view *usecase.WizardView, err error) {
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, toWizardResponse(view))
}

func (s *SchedulingHandler) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, e.Field("date", "date is required")
	}

	date, err := time.ParseInLocation(time.DateOnly, raw, s.loc)
	if err != nil {
		return time.Time{}, e.Field("date", "must be in YYYY-MM-DD format")
	}

	return date, nil
}
