package domain

import (
	"sort"
	"time"
)

type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusInProgress AppointmentStatus = "in-progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch st := AppointmentStatus(s); st {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, true
	default:
		return "", false
	}
}

func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo: scheduled -> in-progress -> completed, любой нетерминальный -> cancelled.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s.IsTerminal() {
		return false
	}

	switch next {
	case StatusCancelled:
		return true
	case StatusInProgress:
		return s == StatusScheduled
	case StatusCompleted:
		return s == StatusInProgress
	default:
		return false
	}
}

// Appointment подтвержденный и оплаченный визит мастера
type Appointment struct {
	ID               int64
	Reference        string // APT-...
	CustomerID       int64
	CustomerName     string
	CustomerEmail    string
	ServiceTypeID    string
	ServiceName      string
	TechnicianID     string
	TechnicianName   string
	Address          string
	StartsAt         time.Time
	DurationMinutes  int
	Price            int64 // в центах
	PaymentReference string
	Status           AppointmentStatus
	Notes            string
	IdempotencyKey   string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

func (a *Appointment) EndsAt() time.Time {
	return a.StartsAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Display время визита в формате слота.
func (a *Appointment) Display() string {
	return a.StartsAt.Format(SlotTimeLayout)
}

// Blocks сообщает, пересекается ли визит с новой работой [start, start+duration)
// с учетом времени на дорогу до и после визита.
func (a *Appointment) Blocks(start time.Time, duration time.Duration, travelBuffer time.Duration) bool {
	if a.Status != StatusScheduled && a.Status != StatusInProgress {
		return false
	}

	bufferedStart := a.StartsAt.Add(-travelBuffer)
	bufferedEnd := a.EndsAt().Add(travelBuffer)
	end := start.Add(duration)

	return start.Before(bufferedEnd) && end.After(bufferedStart)
}

// Cancellable сообщает, можно ли клиенту отменить визит в момент now.
func (a *Appointment) Cancellable(now time.Time, window time.Duration) bool {
	return a.Status == StatusScheduled && !now.Add(window).After(a.StartsAt)
}

// SortForCustomer сортирует визиты клиента: сначала предстоящие по возрастанию, затем остальные по убыванию.
func SortForCustomer(apps []Appointment) {
	sort.SliceStable(apps, func(i, j int) bool {
		ui, uj := apps[i].Status == StatusScheduled, apps[j].Status == StatusScheduled
		if ui != uj {
			return ui
		}
		if ui {
			return apps[i].StartsAt.Before(apps[j].StartsAt)
		}
		return apps[i].StartsAt.After(apps[j].StartsAt)
	})
}
