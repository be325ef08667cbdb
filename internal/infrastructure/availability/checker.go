// Package availability отвечает, свободен ли мастер в заданное время, по
// подтвержденным визитам с учетом времени на дорогу.
package availability

import (
	"context"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// визиты дольше суток не бывают, поэтому окно выборки расширяется на сутки назад
const lookBehind = 24 * time.Hour

type Checker struct {
	appointmentRepo usecase.AppointmentRepository
	technicianRepo  usecase.TechnicianRepository
	hours           domain.WorkingHours
	travelBuffer    time.Duration
	now             func() time.Time
}

func NewChecker(
	appointmentRepo usecase.AppointmentRepository,
	technicianRepo usecase.TechnicianRepository,
	hours domain.WorkingHours,
	travelBuffer time.Duration,
) *Checker {
	return &Checker{
		appointmentRepo: appointmentRepo,
		technicianRepo:  technicianRepo,
		hours:           hours,
		travelBuffer:    travelBuffer,
		now:             time.Now,
	}
}

// Slots строит сетку на дату. Прошедшие слоты недоступны. Без technicianID слот
// свободен, если свободен хотя бы один мастер, доступный для записи.
func (c *Checker) Slots(ctx context.Context, date time.Time, technicianID string, duration time.Duration) ([]domain.Slot, error) {
	day := domain.StartOfDay(date)

	techs, err := c.candidates(ctx, technicianID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	busy, err := c.appointmentRepo.ListBetween(ctx, day.Add(-lookBehind), day.AddDate(0, 0, 1).Add(c.travelBuffer))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	now := c.now()
	slots := domain.GenerateSlots(day, c.hours, func(start time.Time) bool {
		if start.Before(now) {
			return false
		}
		for _, id := range techs {
			if c.free(busy, id, start, duration, "") {
				return true
			}
		}
		return false
	})

	return slots, nil
}

// TechnicianFree проверяет, свободен ли мастер. Визит excludeRef не учитывается,
// чтобы можно было переназначать мастера на уже записанный визит.
func (c *Checker) TechnicianFree(ctx context.Context, technicianID string, start time.Time, duration time.Duration, excludeRef string) (bool, error) {
	busy, err := c.appointmentRepo.ListBetween(ctx, start.Add(-lookBehind), start.Add(duration+c.travelBuffer))
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.free(busy, technicianID, start, duration, excludeRef), nil
}

func (c *Checker) free(busy []domain.Appointment, technicianID string, start time.Time, duration time.Duration, excludeRef string) bool {
	for i := range busy {
		a := &busy[i]
		if a.TechnicianID != technicianID || (excludeRef != "" && a.Reference == excludeRef) {
			continue
		}
		if a.Blocks(start, duration, c.travelBuffer) {
			return false
		}
	}
	return true
}

// candidates возвращает мастеров, которых проверяем на занятость.
func (c *Checker) candidates(ctx context.Context, technicianID string) ([]string, error) {
	if technicianID != "" {
		tech, err := c.technicianRepo.GetByID(ctx, technicianID)
		if err != nil {
			return nil, err
		}
		if !tech.Selectable() {
			return nil, nil
		}
		return []string{tech.ID}, nil
	}

	techs, err := c.technicianRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(techs))
	for _, t := range techs {
		if t.Selectable() {
			ids = append(ids, t.ID)
		}
	}

	return ids, nil
}
