package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/jitter"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
)

// PaymentRetry настройки повторов временных сбоев шлюза.
type PaymentRetry struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Currency   string
}

// BookingUseCase подтверждает запись: оплата и создание визита с серверной ссылкой.
type BookingUseCase struct {
	wizardRepo      WizardRepository
	serviceRepo     ServiceTypeRepository
	technicianRepo  TechnicianRepository
	appointmentRepo AppointmentRepository
	outboxRepo      OutboxRepository
	idempotencyRepo IdempotencyRepository
	lockRepo        LockRepository
	txManager       TxManager
	availability    AvailabilityChecker
	payment         PaymentGateway
	refs            ReferenceGenerator
	logger          logger.Logger
	hours           domain.WorkingHours
	retry           PaymentRetry
	now             func() time.Time
	sleep           func(ctx context.Context, d time.Duration) error
}

func NewBookingUC(
	wizardRepo WizardRepository,
	serviceRepo ServiceTypeRepository,
	technicianRepo TechnicianRepository,
	appointmentRepo AppointmentRepository,
	outboxRepo OutboxRepository,
	idempotencyRepo IdempotencyRepository,
	lockRepo LockRepository,
	txManager TxManager,
	availability AvailabilityChecker,
	payment PaymentGateway,
	refs ReferenceGenerator,
	logger logger.Logger,
	hours domain.WorkingHours,
	retry PaymentRetry,
) *BookingUseCase {
	return &BookingUseCase{
		wizardRepo:      wizardRepo,
		serviceRepo:     serviceRepo,
		technicianRepo:  technicianRepo,
		appointmentRepo: appointmentRepo,
		outboxRepo:      outboxRepo,
		idempotencyRepo: idempotencyRepo,
		lockRepo:        lockRepo,
		txManager:       txManager,
		availability:    availability,
		payment:         payment,
		refs:            refs,
		logger:          logger,
		hours:           hours,
		retry:           retry,
		now:             time.Now,
		sleep:           sleepCtx,
	}
}

// Confirm подтверждает черновик: проверка идемпотентности, данных карты и слота,
// оплата, запись визита и события в одной транзакции. Если запись не удалась,
// платеж возвращается.
func (b *BookingUseCase) Confirm(ctx context.Context, req *ConfirmBookingReq) (*BookingConfirmation, error) {
	const op = "BookingUseCase.Confirm"

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		return nil, e.Wrap(op, e.Field("idempotencyKey", "Idempotency-Key header is required"))
	}

	// Повтор с тем же ключом возвращает исходное подтверждение
	if prev, err := b.findConfirmed(ctx, key, req.Customer.UserID); err != nil || prev != nil {
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		return prev, nil
	}

	wizard, err := b.wizardRepo.Get(ctx, req.SessionID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if wizard.UserID != req.Customer.UserID {
		return nil, e.Wrap(op, e.ErrWizardNotFound)
	}
	if wizard.Step != domain.StepConfirm || !wizard.Complete() {
		return nil, e.Wrap(op, e.ErrStepIncomplete)
	}

	card := normalizeCard(req.Payment)
	if err := b.validatePayment(card); err != nil {
		return nil, e.Wrap(op, err)
	}

	service, err := b.serviceRepo.GetByID(ctx, wizard.ServiceTypeID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	technician, err := b.technicianRepo.GetByID(ctx, wizard.TechnicianID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	start, err := domain.SlotStart(wizard.Date, b.hours, wizard.Time)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	release, err := b.lockRepo.Acquire(ctx, lockKey(technician.ID, start))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			b.logger.Warnf("Failed to release booking lock: %v", e.Wrap(op, err))
		}
	}()

	// Пока ждали блокировку, запрос с тем же ключом мог завершиться
	if prev, err := b.findConfirmed(ctx, key, req.Customer.UserID); err != nil || prev != nil {
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		return prev, nil
	}

	if err := b.ensureAvailable(ctx, technician, start, service.Duration()); err != nil {
		return nil, e.Wrap(op, err)
	}

	charge, err := b.charge(ctx, NewChargeReq(
		service.Price,
		b.retry.Currency,
		card,
		fmt.Sprintf("%s on %s at %s", service.Name, start.Format(time.DateOnly), wizard.Time),
		key,
	))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	appointment := &domain.Appointment{
		Reference:        b.refs.NewReference(),
		CustomerID:       req.Customer.UserID,
		CustomerName:     req.Customer.Name,
		CustomerEmail:    req.Customer.Email,
		ServiceTypeID:    service.ID,
		ServiceName:      service.Name,
		TechnicianID:     technician.ID,
		TechnicianName:   technician.Name,
		Address:          strings.TrimSpace(wizard.Address),
		StartsAt:         start,
		DurationMinutes:  service.DurationMinutes,
		Price:            service.Price,
		PaymentReference: charge.PaymentReference,
		Status:           domain.StatusScheduled,
		Notes:            strings.TrimSpace(req.Notes),
		IdempotencyKey:   key,
		CreatedAt:        b.now(),
	}

	saved, err := b.persist(ctx, appointment)
	if err != nil {
		b.refund(ctx, charge)
		return nil, e.Wrap(op, fmt.Errorf("%w: %v", e.ErrPersistence, err))
	}

	if err := b.idempotencyRepo.SaveReference(ctx, req.Customer.UserID, key, saved.Reference); err != nil {
		b.logger.Warnf("Failed to save idempotency key: %v", e.Wrap(op, err))
	}
	if err := b.wizardRepo.Delete(ctx, wizard.ID); err != nil {
		b.logger.Warnf("Failed to delete confirmed wizard %s: %v", wizard.ID, e.Wrap(op, err))
	}

	b.logger.Infof("appointment confirmed: reference=%s technician=%s starts_at=%s",
		saved.Reference, saved.TechnicianID, saved.StartsAt.Format(time.RFC3339))

	return NewBookingConfirmation(saved, false), nil
}

// findConfirmed ищет визит по ключу идемпотентности сначала в Redis, затем в БД.
func (b *BookingUseCase) findConfirmed(ctx context.Context, key string, customerID int64) (*BookingConfirmation, error) {
	var (
		appointment *domain.Appointment
		err         error
	)

	ref, ok, cacheErr := b.idempotencyRepo.GetReference(ctx, customerID, key)
	if cacheErr != nil {
		b.logger.Warnf("Idempotency cache read failed: %v", cacheErr)
	}

	if ok {
		appointment, err = b.appointmentRepo.GetByReference(ctx, ref)
	} else {
		appointment, err = b.appointmentRepo.GetByIdempotencyKey(ctx, customerID, key)
	}
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// ссылка из кэша могла указать на чужой визит только при битом кэше
	if appointment.CustomerID != customerID {
		return nil, nil
	}

	return NewBookingConfirmation(appointment, true), nil
}

func (b *BookingUseCase) validatePayment(card PaymentDetails) error {
	if err := validateStruct(card); err != nil {
		return err
	}

	month, year, _ := parseExpiry(card.Expiry)
	now := b.now()
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return e.Field("expiry", "Card has expired")
	}

	return nil
}

// ensureAvailable повторно проверяет слот и мастера под блокировкой.
func (b *BookingUseCase) ensureAvailable(ctx context.Context, technician *domain.Technician, start time.Time, duration time.Duration) error {
	if !technician.Selectable() || !start.After(b.now()) {
		return e.ErrAvailabilityConflict
	}

	free, err := b.availability.TechnicianFree(ctx, technician.ID, start, duration, "")
	if err != nil {
		return err
	}
	if !free {
		return e.ErrAvailabilityConflict
	}

	return nil
}

// charge списывает оплату, повторяя временные сбои с экспоненциальной задержкой и jitter.
func (b *BookingUseCase) charge(ctx context.Context, req *ChargeReq) (*ChargeRes, error) {
	var lastErr error
	for attempt := 0; attempt <= b.retry.MaxRetries; attempt++ {
		res, err := b.payment.Charge(ctx, req)
		if err == nil {
			return res, nil
		}

		var payErr *e.PaymentError
		if errors.As(err, &payErr) {
			return nil, payErr
		}
		if !errors.Is(err, e.ErrGatewayUnavailable) {
			return nil, e.NewPaymentFailed(err.Error())
		}

		lastErr = err
		if attempt == b.retry.MaxRetries {
			break
		}

		b.logger.Warnf("payment gateway unavailable, attempt %d: %v", attempt+1, err)
		if err := b.sleep(ctx, jitter.NewBackoff(b.retry.BaseDelay, b.retry.MaxDelay).Next(attempt)); err != nil {
			return nil, e.NewPaymentFailed(err.Error())
		}
	}

	return nil, e.NewPaymentFailed(lastErr.Error())
}

func (b *BookingUseCase) persist(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	var saved *domain.Appointment
	err := b.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		saved, err = b.appointmentRepo.Create(ctx, appointment)
		if err != nil {
			return err
		}

		event, err := NewOutboxEvent(AppointmentConfirmed, AggregateAppointment, saved.Reference, appointmentEventFields(saved))
		if err != nil {
			return err
		}

		_, err = b.outboxRepo.Create(ctx, event)
		return err
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// refund компенсирует списание после неудачной записи.
func (b *BookingUseCase) refund(ctx context.Context, charge *ChargeRes) {
	const op = "BookingUseCase.refund"

	if err := b.payment.Refund(context.WithoutCancel(ctx), charge.PaymentReference, charge.Amount); err != nil {
		b.logger.Errorf(e.Wrap(op, err), "refund failed for payment %s, manual action required", charge.PaymentReference)
		return
	}

	b.logger.Warnf("payment %s refunded after failed booking write", charge.PaymentReference)
}

func normalizeCard(card PaymentDetails) PaymentDetails {
	card.CardNumber = strings.NewReplacer(" ", "", "-", "").Replace(card.CardNumber)
	card.CardholderName = strings.TrimSpace(card.CardholderName)
	card.Expiry = strings.TrimSpace(card.Expiry)
	card.CVV = strings.TrimSpace(card.CVV)
	return card
}

// lockKey ключ блокировки мастера на день; start должен быть в поясе бизнеса.
func lockKey(technicianID string, start time.Time) string {
	return technicianID + ":" + start.Format(time.DateOnly)
}

func appointmentEventFields(a *domain.Appointment) map[string]any {
	return map[string]any{
		"reference":      a.Reference,
		"customer_id":    a.CustomerID,
		"customer_email": a.CustomerEmail,
		"service_type":   a.ServiceTypeID,
		"technician_id":  a.TechnicianID,
		"address":        a.Address,
		"starts_at":      a.StartsAt.UTC().Format(time.RFC3339),
		"price":          domain.FormatPrice(a.Price),
		"status":         string(a.Status),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
