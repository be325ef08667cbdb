package domain

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestGenerateSlots_FixedGrid(t *testing.T) {
	dates := []time.Time{
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 15, 13, 45, 0, 0, time.UTC),
		time.Date(2027, 2, 28, 23, 59, 0, 0, time.UTC),
	}

	for _, d := range dates {
		slots := GenerateSlots(d, DefaultWorkingHours(), nil)
		if len(slots) != 19 {
			t.Fatalf("date %s: expected 19 slots, got %d", d.Format(time.DateOnly), len(slots))
		}

		if slots[0].Display != "8:00 AM" {
			t.Errorf("first slot = %q", slots[0].Display)
		}
		if slots[8].Display != "12:00 PM" {
			t.Errorf("ninth slot = %q", slots[8].Display)
		}
		if slots[18].Display != "5:00 PM" {
			t.Errorf("last slot = %q", slots[18].Display)
		}

		for i := 1; i < len(slots); i++ {
			if got := slots[i].Start.Sub(slots[i-1].Start); got != 30*time.Minute {
				t.Fatalf("step between %s and %s = %s", slots[i-1].Display, slots[i].Display, got)
			}
		}
	}
}

func TestGenerateSlots_Availability(t *testing.T) {
	d := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	busy := d.Add(10 * time.Hour)

	slots := GenerateSlots(d, DefaultWorkingHours(), func(start time.Time) bool {
		return !start.Equal(busy)
	})

	for _, s := range slots {
		want := s.Display != "10:00 AM"
		if s.Available != want {
			t.Errorf("slot %s: available=%t, want %t", s.Display, s.Available, want)
		}
	}
}

func TestSlotStart(t *testing.T) {
	d := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	got, err := SlotStart(d, DefaultWorkingHours(), "2:30 PM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := d.Add(14*time.Hour + 30*time.Minute); !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}

	if _, err := SlotStart(d, DefaultWorkingHours(), "5:30 PM"); err == nil {
		t.Error("expected error for slot past working hours")
	}
}

func TestBookingWindow_Allows(t *testing.T) {
	now := time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC)
	w := BookingWindow{
		HorizonDays:   30,
		ExcludedDates: []time.Time{time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)},
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"today", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"yesterday", time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), false},
		{"tomorrow", time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), true},
		{"excluded", time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC), false},
		{"horizon", time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), true},
		{"past horizon", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Allows(tt.date, now); got != tt.want {
				t.Errorf("Allows(%s) = %t, want %t", tt.date.Format(time.DateOnly), got, tt.want)
			}
		})
	}
}

func TestGenerateSlots_DaylightSavingDays(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	dates := []time.Time{
		time.Date(2026, 3, 7, 0, 0, 0, 0, loc),
		time.Date(2026, 3, 8, 0, 0, 0, 0, loc), // переход на летнее время
		time.Date(2026, 11, 1, 0, 0, 0, 0, loc), // возврат на зимнее
	}

	for _, d := range dates {
		slots := GenerateSlots(d, DefaultWorkingHours(), nil)
		if len(slots) != 19 {
			t.Fatalf("%s: %d slots, want 19", d.Format(time.DateOnly), len(slots))
		}
		if first, last := slots[0].Display, slots[18].Display; first != "8:00 AM" || last != "5:00 PM" {
			t.Errorf("%s: grid %s..%s, want 8:00 AM..5:00 PM", d.Format(time.DateOnly), first, last)
		}
		if h := slots[0].Start.Hour(); h != 8 {
			t.Errorf("%s: first slot starts at hour %d", d.Format(time.DateOnly), h)
		}

		start, err := SlotStart(d, DefaultWorkingHours(), "10:00 AM")
		if err != nil {
			t.Fatalf("SlotStart: %v", err)
		}
		if start.Hour() != 10 || start.Minute() != 0 {
			t.Errorf("%s: 10:00 AM resolved to %s", d.Format(time.DateOnly), start.Format(time.Kitchen))
		}
	}
}
