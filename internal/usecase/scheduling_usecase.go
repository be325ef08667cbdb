package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/google/uuid"
)

const maxAddressLength = 300

// SchedulingUseCase ведет мастер записи: каталоги услуг и мастеров, слоты и черновики.
type SchedulingUseCase struct {
	serviceRepo    ServiceTypeRepository
	technicianRepo TechnicianRepository
	wizardRepo     WizardRepository
	availability   AvailabilityChecker
	logger         logger.Logger
	hours          domain.WorkingHours
	window         domain.BookingWindow
	loc            *time.Location
	now            func() time.Time
}

func NewSchedulingUC(
	serviceRepo ServiceTypeRepository,
	technicianRepo TechnicianRepository,
	wizardRepo WizardRepository,
	availability AvailabilityChecker,
	logger logger.Logger,
	hours domain.WorkingHours,
	window domain.BookingWindow,
	loc *time.Location,
) *SchedulingUseCase {
	if loc == nil {
		loc = time.UTC
	}

	return &SchedulingUseCase{
		serviceRepo:    serviceRepo,
		technicianRepo: technicianRepo,
		wizardRepo:     wizardRepo,
		availability:   availability,
		logger:         logger,
		hours:          hours,
		window:         window,
		loc:            loc,
		now:            time.Now,
	}
}

func (s *SchedulingUseCase) ListServiceTypes(ctx context.Context) ([]domain.ServiceType, error) {
	const op = "SchedulingUseCase.ListServiceTypes"

	services, err := s.serviceRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return services, nil
}

func (s *SchedulingUseCase) ListTechnicians(ctx context.Context) ([]domain.Technician, error) {
	const op = "SchedulingUseCase.ListTechnicians"

	technicians, err := s.technicianRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return technicians, nil
}

// GetTimeSlots возвращает сетку слотов на дату в окне записи.
func (s *SchedulingUseCase) GetTimeSlots(ctx context.Context, date time.Time, technicianID string) ([]domain.Slot, error) {
	const op = "SchedulingUseCase.GetTimeSlots"

	date = s.inLocation(date)
	if !s.window.Allows(date, s.now().In(s.loc)) {
		return nil, e.Wrap(op, e.Field("date", "date is outside the booking window"))
	}

	slots, err := s.availability.Slots(ctx, date, technicianID, s.hours.Step)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return slots, nil
}

func (s *SchedulingUseCase) StartWizard(ctx context.Context, userID int64) (*WizardView, error) {
	const op = "SchedulingUseCase.StartWizard"

	wizard := domain.NewWizard(uuid.NewString(), userID, s.now())
	if err := s.wizardRepo.Save(ctx, wizard); err != nil {
		return nil, e.Wrap(op, err)
	}

	return s.view(ctx, wizard)
}

func (s *SchedulingUseCase) GetWizard(ctx context.Context, id string, userID int64) (*WizardView, error) {
	const op = "SchedulingUseCase.GetWizard"

	wizard, err := s.load(ctx, id, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return s.view(ctx, wizard)
}

// DiscardWizard удаляет черновик (закрытие окна записи).
func (s *SchedulingUseCase) DiscardWizard(ctx context.Context, id string, userID int64) error {
	const op = "SchedulingUseCase.DiscardWizard"

	if _, err := s.load(ctx, id, userID); err != nil {
		return e.Wrap(op, err)
	}

	if err := s.wizardRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// SelectDateTime выбирает дату и, если передано, время слота.
func (s *SchedulingUseCase) SelectDateTime(ctx context.Context, id string, userID int64, req SelectDateTimeReq) (*WizardView, error) {
	const op = "SchedulingUseCase.SelectDateTime"

	return s.mutate(ctx, op, id, userID, func(w *domain.Wizard) error {
		if req.Date.IsZero() {
			return e.Field("date", "This field is required")
		}

		date := s.inLocation(req.Date)
		if !s.window.Allows(date, s.now().In(s.loc)) {
			return e.Field("date", "date is outside the booking window")
		}

		if err := w.SelectDate(date); err != nil {
			return err
		}

		display := strings.TrimSpace(req.Time)
		if display == "" {
			return nil
		}

		slot, err := s.findSlot(ctx, date, display)
		if err != nil {
			return err
		}
		if !slot.Available {
			return e.Field("time", "time slot is not available")
		}

		return w.SelectTime(slot.Display)
	})
}

func (s *SchedulingUseCase) SelectService(ctx context.Context, id string, userID int64, serviceID string) (*WizardView, error) {
	const op = "SchedulingUseCase.SelectService"

	return s.mutate(ctx, op, id, userID, func(w *domain.Wizard) error {
		if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return e.Field("serviceType", "unknown service type")
			}
			return err
		}

		return w.SelectService(serviceID)
	})
}

func (s *SchedulingUseCase) SelectTechnician(ctx context.Context, id string, userID int64, technicianID string) (*WizardView, error) {
	const op = "SchedulingUseCase.SelectTechnician"

	return s.mutate(ctx, op, id, userID, func(w *domain.Wizard) error {
		technician, err := s.technicianRepo.GetByID(ctx, technicianID)
		if err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return e.Field("technician", "unknown technician")
			}
			return err
		}
		if !technician.Selectable() {
			return e.Field("technician", "technician is not available")
		}

		free, err := s.technicianFree(ctx, w, technicianID)
		if err != nil {
			return err
		}
		if !free {
			return e.Field("technician", "technician is busy at the selected time")
		}

		return w.SelectTechnician(technicianID)
	})
}

func (s *SchedulingUseCase) SetAddress(ctx context.Context, id string, userID int64, address string) (*WizardView, error) {
	const op = "SchedulingUseCase.SetAddress"

	return s.mutate(ctx, op, id, userID, func(w *domain.Wizard) error {
		address = strings.TrimSpace(address)
		if address == "" {
			return e.Field("address", "This field is required")
		}
		if len(address) > maxAddressLength {
			return e.Field("address", "address is too long")
		}

		return w.SetAddress(address)
	})
}

// Next переводит мастер вперед; при незаполненном шаге черновик не меняется.
func (s *SchedulingUseCase) Next(ctx context.Context, id string, userID int64) (*WizardView, error) {
	const op = "SchedulingUseCase.Next"

	return s.mutate(ctx, op, id, userID, func(w *domain.Wizard) error {
		return w.Next()
	})
}

func (s *SchedulingUseCase) Back(ctx context.Context, id string, userID int64) (*WizardView, error) {
	const op = "SchedulingUseCase.Back"

	return s.mutate(ctx, op, id, userID, func(w *domain.Wizard) error {
		w.Back()
		return nil
	})
}

// mutate загружает черновик, применяет fn и сохраняет только при успехе.
func (s *SchedulingUseCase) mutate(ctx context.Context, op string, id string, userID int64, fn func(w *domain.Wizard) error) (*WizardView, error) {
	wizard, err := s.load(ctx, id, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := fn(wizard); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := s.wizardRepo.Save(ctx, wizard); err != nil {
		return nil, e.Wrap(op, err)
	}

	return s.view(ctx, wizard)
}

func (s *SchedulingUseCase) load(ctx context.Context, id string, userID int64) (*domain.Wizard, error) {
	wizard, err := s.wizardRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// чужой черновик неотличим от отсутствующего
	if wizard.UserID != userID {
		return nil, e.ErrWizardNotFound
	}

	return wizard, nil
}

func (s *SchedulingUseCase) view(ctx context.Context, w *domain.Wizard) (*WizardView, error) {
	res := &WizardView{
		ID:         w.ID,
		Step:       w.Step,
		CanAdvance: w.Step != domain.StepConfirm && w.StepComplete(),
		Draft:      w.Draft(),
	}

	if w.Step == domain.StepSelectDateTime && !w.Date.IsZero() {
		slots, err := s.availability.Slots(ctx, w.Date, "", s.hours.Step)
		if err != nil {
			s.logger.Warnf("Failed to load slots for wizard %s: %v", w.ID, err)
		} else {
			res.Slots = slots
		}
	}

	summary, err := s.summary(ctx, w)
	if err != nil {
		return nil, err
	}
	res.Summary = summary

	return res, nil
}

// summary расшифровывает выбранные услугу и мастера.
func (s *SchedulingUseCase) summary(ctx context.Context, w *domain.Wizard) (*DraftSummary, error) {
	if w.ServiceTypeID == "" && w.TechnicianID == "" {
		return nil, nil
	}

	summary := &DraftSummary{}
	if w.ServiceTypeID != "" {
		service, err := s.serviceRepo.GetByID(ctx, w.ServiceTypeID)
		if err != nil {
			return nil, err
		}
		summary.ServiceName = service.Name
		summary.Price = service.Price
		summary.DurationMinutes = service.DurationMinutes
	}

	if w.TechnicianID != "" {
		technician, err := s.technicianRepo.GetByID(ctx, w.TechnicianID)
		if err != nil {
			return nil, err
		}
		summary.TechnicianName = technician.Name
	}

	return summary, nil
}

func (s *SchedulingUseCase) findSlot(ctx context.Context, date time.Time, display string) (*domain.Slot, error) {
	slots, err := s.availability.Slots(ctx, date, "", s.hours.Step)
	if err != nil {
		return nil, err
	}

	for _, slot := range slots {
		if strings.EqualFold(slot.Display, display) {
			return &slot, nil
		}
	}

	return nil, e.Field("time", "unknown time slot")
}

// technicianFree проверяет занятость мастера на выбранное время с учетом длительности услуги.
func (s *SchedulingUseCase) technicianFree(ctx context.Context, w *domain.Wizard, technicianID string) (bool, error) {
	start, err := domain.SlotStart(w.Date, s.hours, w.Time)
	if err != nil {
		return false, err
	}

	duration := s.hours.Step
	if w.ServiceTypeID != "" {
		service, err := s.serviceRepo.GetByID(ctx, w.ServiceTypeID)
		if err != nil {
			return false, err
		}
		duration = service.Duration()
	}

	return s.availability.TechnicianFree(ctx, technicianID, start, duration, "")
}

func (s *SchedulingUseCase) inLocation(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}
