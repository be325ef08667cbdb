package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
)

// AppointmentUseCase управление визитами клиентами и администраторами.
type AppointmentUseCase struct {
	appointmentRepo    AppointmentRepository
	technicianRepo     TechnicianRepository
	outboxRepo         OutboxRepository
	lockRepo           LockRepository
	txManager          TxManager
	availability       AvailabilityChecker
	logger             logger.Logger
	cancellationWindow time.Duration
	loc                *time.Location // пояс, в котором считается дата блокировки
	now                func() time.Time
}

func NewAppointmentUC(
	appointmentRepo AppointmentRepository,
	technicianRepo TechnicianRepository,
	outboxRepo OutboxRepository,
	lockRepo LockRepository,
	txManager TxManager,
	availability AvailabilityChecker,
	logger logger.Logger,
	cancellationWindow time.Duration,
	loc *time.Location,
) *AppointmentUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentUseCase{
		appointmentRepo:    appointmentRepo,
		technicianRepo:     technicianRepo,
		outboxRepo:         outboxRepo,
		lockRepo:           lockRepo,
		txManager:          txManager,
		availability:       availability,
		logger:             logger,
		cancellationWindow: cancellationWindow,
		loc:                loc,
		now:                time.Now,
	}
}

func (a *AppointmentUseCase) ListForCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
	const op = "AppointmentUseCase.ListForCustomer"

	apps, err := a.appointmentRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	domain.SortForCustomer(apps)
	return apps, nil
}

func (a *AppointmentUseCase) ListForAdmin(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error) {
	const op = "AppointmentUseCase.ListForAdmin"

	filter.Search = strings.TrimSpace(filter.Search)
	filter.Status = strings.TrimSpace(filter.Status)
	if filter.Status == "" {
		filter.Status = domain.FilterAll
	}
	if filter.Status != domain.FilterAll {
		if _, ok := domain.ParseAppointmentStatus(filter.Status); !ok {
			return nil, e.Wrap(op, e.Field("status", "unknown appointment status"))
		}
	}

	apps, err := a.appointmentRepo.Search(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return apps, nil
}

// Cancel отменяет визит по запросу клиента. Чужой визит не отличается от несуществующего.
func (a *AppointmentUseCase) Cancel(ctx context.Context, reference string, customer domain.Session) (*domain.Appointment, error) {
	const op = "AppointmentUseCase.Cancel"

	app, err := a.appointmentRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if app.CustomerID != customer.UserID && !customer.IsAdmin() {
		return nil, e.Wrap(op, e.ErrAppointmentNotFound)
	}

	if app.Status != domain.StatusScheduled {
		return nil, e.Wrap(op, e.ErrInvalidStatusTransition)
	}
	if !app.Cancellable(a.now(), a.cancellationWindow) {
		return nil, e.Wrap(op, e.ErrCancellationWindow)
	}

	updated, err := a.changeStatus(ctx, app, domain.StatusCancelled, AppointmentCancelled)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	a.logger.Infof("appointment %s cancelled by user %d", updated.Reference, customer.UserID)
	return updated, nil
}

func (a *AppointmentUseCase) UpdateStatus(ctx context.Context, reference string, status string) (*domain.Appointment, error) {
	const op = "AppointmentUseCase.UpdateStatus"

	next, ok := domain.ParseAppointmentStatus(strings.TrimSpace(status))
	if !ok {
		return nil, e.Wrap(op, e.Field("status", "unknown appointment status"))
	}

	app, err := a.appointmentRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !app.Status.CanTransitionTo(next) {
		return nil, e.Wrap(op, e.ErrInvalidStatusTransition)
	}

	eventType := AppointmentStatusChanged
	if next == domain.StatusCancelled {
		eventType = AppointmentCancelled
	}

	updated, err := a.changeStatus(ctx, app, next, eventType)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	a.logger.Infof("appointment %s status %s -> %s", updated.Reference, app.Status, updated.Status)
	return updated, nil
}

func (a *AppointmentUseCase) AssignTechnician(ctx context.Context, reference string, technicianID string) (*domain.Appointment, error) {
	const op = "AppointmentUseCase.AssignTechnician"

	app, err := a.appointmentRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if app.Status.IsTerminal() {
		return nil, e.Wrap(op, e.ErrInvalidStatusTransition)
	}

	technician, err := a.technicianRepo.GetByID(ctx, strings.TrimSpace(technicianID))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if technician.ID == app.TechnicianID {
		return app, nil
	}
	if !technician.Selectable() {
		return nil, e.Wrap(op, e.Field("technician", "technician is not available"))
	}

	// ключ общий с BookingUseCase.Confirm
	release, err := a.lockRepo.Acquire(ctx, lockKey(technician.ID, app.StartsAt.In(a.loc)))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warnf("Failed to release booking lock: %v", e.Wrap(op, err))
		}
	}()

	free, err := a.availability.TechnicianFree(ctx, technician.ID, app.StartsAt, time.Duration(app.DurationMinutes)*time.Minute, app.Reference)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !free {
		return nil, e.Wrap(op, e.ErrAvailabilityConflict)
	}

	var updated *domain.Appointment
	err = a.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = a.appointmentRepo.UpdateTechnician(ctx, app.Reference, technician)
		if err != nil {
			return err
		}

		fields := appointmentEventFields(updated)
		fields["previous_technician_id"] = app.TechnicianID
		return a.emit(ctx, AppointmentTechnicianAssigned, updated, fields)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	a.logger.Infof("appointment %s assigned to technician %s", updated.Reference, technician.ID)
	return updated, nil
}

func (a *AppointmentUseCase) changeStatus(ctx context.Context, app *domain.Appointment, next domain.AppointmentStatus, eventType OutboxEventType) (*domain.Appointment, error) {
	var updated *domain.Appointment
	err := a.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = a.appointmentRepo.UpdateStatus(ctx, app.Reference, app.Status, next)
		if err != nil {
			return err
		}

		fields := appointmentEventFields(updated)
		fields["previous_status"] = string(app.Status)
		return a.emit(ctx, eventType, updated, fields)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (a *AppointmentUseCase) emit(ctx context.Context, eventType OutboxEventType, app *domain.Appointment, fields map[string]any) error {
	event, err := NewOutboxEvent(eventType, AggregateAppointment, app.Reference, fields)
	if err != nil {
		return err
	}

	_, err = a.outboxRepo.Create(ctx, event)
	return err
}
