package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/aircon-backend/pkg/e"
)

// SlotTimeLayout формат отображения слота: "8:00 AM", "12:30 PM".
const SlotTimeLayout = "3:04 PM"

// WorkingHours задает окно записи в течение дня.
type WorkingHours struct {
	StartHour int
	EndHour   int // последний слот начинается ровно в EndHour:00
	Step      time.Duration
}

func DefaultWorkingHours() WorkingHours {
	return WorkingHours{StartHour: 8, EndHour: 17, Step: 30 * time.Minute}
}

// Slot описывает окно записи с признаком доступности
type Slot struct {
	Display   string
	Start     time.Time
	Available bool
}

// AvailabilityFunc сообщает, свободен ли слот, начинающийся в start.
type AvailabilityFunc func(start time.Time) bool

// AllAvailable помечает все слоты свободными.
func AllAvailable(time.Time) bool { return true }

// GenerateSlots строит фиксированную сетку слотов на дату. Количество и время
// слотов не зависят от даты, от нее зависит только доступность.
func GenerateSlots(date time.Time, hours WorkingHours, available AvailabilityFunc) []Slot {
	if available == nil {
		available = AllAvailable
	}

	// сетка строится по настенным часам даты, поэтому переход на летнее
	// время не сдвигает первый и последний слоты
	y, month, d := date.Date()
	loc := date.Location()
	step := int(hours.Step / time.Minute)
	if step <= 0 {
		step = 30
	}

	firstMin, lastMin := hours.StartHour*60, hours.EndHour*60
	slots := make([]Slot, 0, (lastMin-firstMin)/step+1)
	for m := firstMin; m <= lastMin; m += step {
		start := time.Date(y, month, d, m/60, m%60, 0, 0, loc)
		slots = append(slots, Slot{
			Display:   start.Format(SlotTimeLayout),
			Start:     start,
			Available: available(start),
		})
	}

	return slots
}

// SlotStart находит слот по отображаемому времени. Возвращает ErrValidation,
// если такого слота в сетке нет.
func SlotStart(date time.Time, hours WorkingHours, display string) (time.Time, error) {
	display = strings.TrimSpace(display)
	for _, s := range GenerateSlots(date, hours, nil) {
		if strings.EqualFold(s.Display, display) {
			return s.Start, nil
		}
	}

	return time.Time{}, e.Field("time", "unknown time slot")
}

// StartOfDay обрезает время до полуночи в часовом поясе даты.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BookingWindow описывает допустимые для записи даты.
type BookingWindow struct {
	HorizonDays   int
	ExcludedDates []time.Time
}

// Allows сообщает, можно ли записаться на дату: позже сегодняшнего дня,
// не дальше горизонта и не в исключенный день.
func (w BookingWindow) Allows(date time.Time, now time.Time) bool {
	day := StartOfDay(date.In(now.Location()))
	today := StartOfDay(now)

	if !day.After(today) {
		return false
	}

	if day.After(today.AddDate(0, 0, w.HorizonDays)) {
		return false
	}

	for _, ex := range w.ExcludedDates {
		if SameDay(ex, day) {
			return false
		}
	}

	return true
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
