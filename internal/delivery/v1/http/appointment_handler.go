package http

import (
	"net/http"

	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUC
	logger             logger.Logger
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUC, logger logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{appointmentUsecase: appointmentUsecase, logger: logger}
}

// listMine
//
//	@Summary	Мои визиты
//	@Tags		appointments
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	AppointmentResponse
//	@Router		/appointments [get]
func (a *AppointmentHandler) listMine(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	apps, err := a.appointmentUsecase.ListForCustomer(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toAppointmentResponses(apps))
}

// cancel
//
//	@Summary	Отмена визита клиентом
//	@Tags		appointments
//	@Produce	json
//	@Security	BearerAuth
//	@Param		ref	path		string	true	"Номер визита"
//	@Success	200	{object}	AppointmentResponse
//	@Failure	409	{object}	ErrorResponse	"Менее 24 часов до визита"
//	@Router		/appointments/{ref}/cancel [post]
func (a *AppointmentHandler) cancel(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())

	app, err := a.appointmentUsecase.Cancel(r.Context(), chi.URLParam(r, "ref"), *session)
	if err != nil {
		WriteError(w, err)
		return
	}

	a.logger.Infof("appointment %s cancelled by user %d", app.Reference, session.UserID)
	WriteSuccess(w, http.StatusOK, toAppointmentResponse(app))
}

// listAll
//
//	@Summary	Все визиты
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		search	query	string	false	"Имя клиента или номер визита"
//	@Param		status	query	string	false	"all, scheduled, in-progress, completed, cancelled"
//	@Success	200		{array}	AppointmentResponse
//	@Router		/admin/appointments [get]
func (a *AppointmentHandler) listAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	apps, err := a.appointmentUsecase.ListForAdmin(r.Context(), usecase.AppointmentFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toAppointmentResponses(apps))
}

// updateStatus
//
//	@Summary	Смена статуса визита
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		ref		path		string				true	"Номер визита"
//	@Param		body	body		UpdateStatusRequest	true	"Новый статус"
//	@Success	200		{object}	AppointmentResponse
//	@Failure	409		{object}	ErrorResponse	"Недопустимый переход"
//	@Router		/admin/appointments/{ref}/status [put]
func (a *AppointmentHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var body UpdateStatusRequest
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	app, err := a.appointmentUsecase.UpdateStatus(r.Context(), chi.URLParam(r, "ref"), body.Status)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toAppointmentResponse(app))
}

// assignTechnician
//
//	@Summary	Назначение мастера
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		ref		path		string					true	"Номер визита"
//	@Param		body	body		AssignTechnicianRequest	true	"ID мастера"
//	@Success	200		{object}	AppointmentResponse
//	@Failure	409		{object}	ErrorResponse	"Мастер занят"
//	@Router		/admin/appointments/{ref}/technician [put]
func (a *AppointmentHandler) assignTechnician(w http.ResponseWriter, r *http.Request) {
	var body AssignTechnicianRequest
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	app, err := a.appointmentUsecase.AssignTechnician(r.Context(), chi.URLParam(r, "ref"), body.Technician)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toAppointmentResponse(app))
}
