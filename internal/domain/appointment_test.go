package domain

import (
	"testing"
	"time"
)

func TestAppointmentStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{StatusScheduled, StatusInProgress, true},
		{StatusScheduled, StatusCompleted, false},
		{StatusScheduled, StatusCancelled, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusScheduled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %t, want %t", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestAppointment_Blocks(t *testing.T) {
	start := time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)
	a := Appointment{StartsAt: start, DurationMinutes: 60, Status: StatusScheduled}
	buffer := 30 * time.Minute

	tests := []struct {
		name  string
		start time.Time
		dur   time.Duration
		want  bool
	}{
		{"same time", start, time.Hour, true},
		{"ends inside buffer before", start.Add(-80 * time.Minute), time.Hour, true},
		{"ends at buffer start", start.Add(-90 * time.Minute), time.Hour, false},
		{"starts inside buffer after", start.Add(80 * time.Minute), time.Hour, true},
		{"starts after buffer", start.Add(90 * time.Minute), time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Blocks(tt.start, tt.dur, buffer); got != tt.want {
				t.Errorf("Blocks = %t, want %t", got, tt.want)
			}
		})
	}

	a.Status = StatusCancelled
	if a.Blocks(start, time.Hour, buffer) {
		t.Error("cancelled appointment must not block")
	}
}

func TestAppointment_Cancellable(t *testing.T) {
	start := time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)
	a := Appointment{StartsAt: start, Status: StatusScheduled}

	if !a.Cancellable(start.Add(-24*time.Hour), 24*time.Hour) {
		t.Error("exactly 24h before must be cancellable")
	}
	if a.Cancellable(start.Add(-23*time.Hour), 24*time.Hour) {
		t.Error("23h before must not be cancellable")
	}
}

func TestSortForCustomer(t *testing.T) {
	base := time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)
	apps := []Appointment{
		{Reference: "c1", StartsAt: base.Add(-48 * time.Hour), Status: StatusCompleted},
		{Reference: "s2", StartsAt: base.Add(48 * time.Hour), Status: StatusScheduled},
		{Reference: "c2", StartsAt: base.Add(-24 * time.Hour), Status: StatusCancelled},
		{Reference: "s1", StartsAt: base, Status: StatusScheduled},
	}

	SortForCustomer(apps)

	want := []string{"s1", "s2", "c2", "c1"}
	for i, ref := range want {
		if apps[i].Reference != ref {
			t.Fatalf("position %d: got %s, want %s", i, apps[i].Reference, ref)
		}
	}
}
