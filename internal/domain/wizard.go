package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/aircon-backend/pkg/e"
)

// WizardStep шаг мастера записи на обслуживание.
type WizardStep int

const (
	StepSelectDateTime WizardStep = iota + 1
	StepSelectService
	StepSelectTechnicianAndAddress
	StepConfirm
)

func (s WizardStep) String() string {
	switch s {
	case StepSelectDateTime:
		return "select_date_time"
	case StepSelectService:
		return "select_service"
	case StepSelectTechnicianAndAddress:
		return "select_technician_and_address"
	case StepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

func (s WizardStep) Valid() bool {
	return s >= StepSelectDateTime && s <= StepConfirm
}

// Draft собранная мастером заявка на визит.
type Draft struct {
	Date        time.Time
	Time        string
	ServiceType string
	Technician  string
	Address     string
}

// Wizard линейный автомат записи: дата и время, услуга, мастер и адрес, подтверждение.
// Переход назад разрешен всегда, вперед только при заполненном текущем шаге.
// Поля можно менять только на шаге, которому они принадлежат.
type Wizard struct {
	ID            string
	UserID        int64
	Step          WizardStep
	Date          time.Time
	Time          string
	ServiceTypeID string
	TechnicianID  string
	Address       string
	CreatedAt     time.Time
}

func NewWizard(id string, userID int64, now time.Time) *Wizard {
	return &Wizard{
		ID:        id,
		UserID:    userID,
		Step:      StepSelectDateTime,
		CreatedAt: now,
	}
}

// SelectDate выбирает дату. Новая дата сбрасывает выбранное время.
func (w *Wizard) SelectDate(date time.Time) error {
	if err := w.requireStep(StepSelectDateTime); err != nil {
		return err
	}

	day := StartOfDay(date)
	if !SameDay(day, w.Date) {
		w.Time = ""
	}
	w.Date = day

	return nil
}

func (w *Wizard) SelectTime(display string) error {
	if err := w.requireStep(StepSelectDateTime); err != nil {
		return err
	}
	if w.Date.IsZero() {
		return e.Field("time", "select a date first")
	}

	w.Time = display
	return nil
}

func (w *Wizard) SelectService(id string) error {
	if err := w.requireStep(StepSelectService); err != nil {
		return err
	}

	w.ServiceTypeID = id
	return nil
}

func (w *Wizard) SelectTechnician(id string) error {
	if err := w.requireStep(StepSelectTechnicianAndAddress); err != nil {
		return err
	}

	w.TechnicianID = id
	return nil
}

func (w *Wizard) SetAddress(address string) error {
	if err := w.requireStep(StepSelectTechnicianAndAddress); err != nil {
		return err
	}

	w.Address = address
	return nil
}

// StepComplete проверяет предикат заполненности текущего шага.
func (w *Wizard) StepComplete() bool {
	return w.stepComplete(w.Step)
}

func (w *Wizard) stepComplete(step WizardStep) bool {
	switch step {
	case StepSelectDateTime:
		return !w.Date.IsZero() && w.Time != ""
	case StepSelectService:
		return w.ServiceTypeID != ""
	case StepSelectTechnicianAndAddress:
		return w.TechnicianID != "" && strings.TrimSpace(w.Address) != ""
	case StepConfirm:
		return true
	default:
		return false
	}
}

// Complete сообщает, заполнены ли все шаги.
func (w *Wizard) Complete() bool {
	for s := StepSelectDateTime; s < StepConfirm; s++ {
		if !w.stepComplete(s) {
			return false
		}
	}
	return true
}

// Next переводит мастер на следующий шаг. При незаполненном шаге состояние
// не меняется и возвращается ErrStepIncomplete.
func (w *Wizard) Next() error {
	if w.Step == StepConfirm || !w.StepComplete() {
		return e.ErrStepIncomplete
	}

	w.Step++
	return nil
}

// Back возвращает на предыдущий шаг, на первом шаге ничего не делает.
func (w *Wizard) Back() {
	if w.Step > StepSelectDateTime {
		w.Step--
	}
}

func (w *Wizard) Draft() Draft {
	return Draft{
		Date:        w.Date,
		Time:        w.Time,
		ServiceType: w.ServiceTypeID,
		Technician:  w.TechnicianID,
		Address:     strings.TrimSpace(w.Address),
	}
}

func (w *Wizard) requireStep(step WizardStep) error {
	if w.Step != step {
		return e.ErrWrongStep
	}
	return nil
}
