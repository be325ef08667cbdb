package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
)

type appointmentFixture struct {
	uc           *AppointmentUseCase
	appointments *fakeAppointmentRepo
	outbox       *fakeOutboxRepo
	availability *fakeAvailability
	locks        *fakeLockRepo
}

func newAppointmentFixture(apps ...domain.Appointment) *appointmentFixture {
	f := &appointmentFixture{
		appointments: &fakeAppointmentRepo{appointments: apps},
		outbox:       &fakeOutboxRepo{},
		availability: &fakeAvailability{busyTechs: map[string]bool{}},
		locks:        &fakeLockRepo{held: map[string]bool{}},
	}
	f.uc = NewAppointmentUC(f.appointments, &fakeTechnicianRepo{seedTechnicians()}, f.outbox, f.locks, fakeTxManager{}, f.availability, logger.Nop{}, 24*time.Hour, time.UTC)
	f.uc.now = func() time.Time { return testNow }
	return f
}

func testAppointment(ref string, customerID int64, startsIn time.Duration, status domain.AppointmentStatus) domain.Appointment {
	return domain.Appointment{
		Reference:       ref,
		CustomerID:      customerID,
		CustomerName:    "Jane Doe",
		ServiceTypeID:   "maintenance",
		TechnicianID:    "tech1",
		StartsAt:        testNow.Add(startsIn),
		DurationMinutes: 60,
		Status:          status,
	}
}

func TestAppointmentUseCase_ListForCustomer(t *testing.T) {
	f := newAppointmentFixture(
		testAppointment("APT-1", 7, -72*time.Hour, domain.StatusCompleted),
		testAppointment("APT-2", 7, 96*time.Hour, domain.StatusScheduled),
		testAppointment("APT-3", 8, 48*time.Hour, domain.StatusScheduled),
		testAppointment("APT-4", 7, 48*time.Hour, domain.StatusScheduled),
		testAppointment("APT-5", 7, -24*time.Hour, domain.StatusCancelled),
	)

	apps, err := f.uc.ListForCustomer(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"APT-4", "APT-2", "APT-5", "APT-1"}
	if len(apps) != len(want) {
		t.Fatalf("got %d appointments", len(apps))
	}
	for i, ref := range want {
		if apps[i].Reference != ref {
			t.Fatalf("position %d = %s, want %s", i, apps[i].Reference, ref)
		}
	}
}

func TestAppointmentUseCase_ListForAdmin(t *testing.T) {
	f := newAppointmentFixture(
		testAppointment("APT-1", 7, 48*time.Hour, domain.StatusScheduled),
		testAppointment("APT-2", 8, 48*time.Hour, domain.StatusCompleted),
	)
	f.appointments.appointments[1].CustomerName = "Bob Stone"

	tests := []struct {
		name   string
		filter AppointmentFilter
		want   int
	}{
		{"all", AppointmentFilter{}, 2},
		{"status", AppointmentFilter{Status: "completed"}, 1},
		{"search name", AppointmentFilter{Search: "bob"}, 1},
		{"search reference", AppointmentFilter{Search: "apt-1"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps, err := f.uc.ListForAdmin(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(apps) != tt.want {
				t.Fatalf("got %d, want %d", len(apps), tt.want)
			}
		})
	}

	if _, err := f.uc.ListForAdmin(context.Background(), AppointmentFilter{Status: "done"}); !errors.Is(err, e.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAppointmentUseCase_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		app     domain.Appointment
		userID  int64
		wantErr error
	}{
		{"cancellable", testAppointment("APT-1", 7, 48*time.Hour, domain.StatusScheduled), 7, nil},
		{"exactly at window", testAppointment("APT-1", 7, 24*time.Hour, domain.StatusScheduled), 7, nil},
		{"inside window", testAppointment("APT-1", 7, 23*time.Hour, domain.StatusScheduled), 7, e.ErrCancellationWindow},
		{"completed", testAppointment("APT-1", 7, 48*time.Hour, domain.StatusCompleted), 7, e.ErrInvalidStatusTransition},
		{"foreign", testAppointment("APT-1", 8, 48*time.Hour, domain.StatusScheduled), 7, e.ErrAppointmentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture(tt.app)
			customer := testCustomer
			customer.UserID = tt.userID

			updated, err := f.uc.Cancel(context.Background(), "APT-1", customer)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(f.outbox.events) != 0 {
					t.Fatal("event emitted for rejected cancellation")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if updated.Status != domain.StatusCancelled {
				t.Fatalf("status = %s", updated.Status)
			}
			if got := f.outbox.types(); len(got) != 1 || got[0] != AppointmentCancelled {
				t.Fatalf("events = %v", got)
			}
		})
	}
}

func TestAppointmentUseCase_UpdateStatus(t *testing.T) {
	f := newAppointmentFixture(testAppointment("APT-1", 7, 48*time.Hour, domain.StatusScheduled))
	ctx := context.Background()

	if _, err := f.uc.UpdateStatus(ctx, "APT-1", "completed"); !errors.Is(err, e.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition for skip, got %v", err)
	}

	for _, next := range []string{"in-progress", "completed"} {
		updated, err := f.uc.UpdateStatus(ctx, "APT-1", next)
		if err != nil {
			t.Fatalf("%s: %v", next, err)
		}
		if string(updated.Status) != next {
			t.Fatalf("status = %s", updated.Status)
		}
	}

	if _, err := f.uc.UpdateStatus(ctx, "APT-1", "cancelled"); !errors.Is(err, e.ErrInvalidStatusTransition) {
		t.Fatalf("terminal status changed: %v", err)
	}
	if _, err := f.uc.UpdateStatus(ctx, "APT-1", "paused"); !errors.Is(err, e.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.uc.UpdateStatus(ctx, "APT-404", "completed"); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if got := f.outbox.types(); len(got) != 2 || got[0] != AppointmentStatusChanged {
		t.Fatalf("events = %v", got)
	}
}

func TestAppointmentUseCase_AssignTechnician(t *testing.T) {
	f := newAppointmentFixture(testAppointment("APT-1", 7, 48*time.Hour, domain.StatusScheduled))
	f.availability.busyTechs["tech3"] = true
	ctx := context.Background()

	if _, err := f.uc.AssignTechnician(ctx, "APT-1", "tech4"); !errors.Is(err, e.ErrValidation) {
		t.Fatalf("expected validation error for unavailable technician, got %v", err)
	}
	if _, err := f.uc.AssignTechnician(ctx, "APT-1", "tech3"); !errors.Is(err, e.ErrAvailabilityConflict) {
		t.Fatalf("expected ErrAvailabilityConflict, got %v", err)
	}
	if _, err := f.uc.AssignTechnician(ctx, "APT-1", "tech9"); !errors.Is(err, e.ErrTechnicianNotFound) {
		t.Fatalf("expected ErrTechnicianNotFound, got %v", err)
	}

	updated, err := f.uc.AssignTechnician(ctx, "APT-1", "tech2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.TechnicianID != "tech2" || updated.TechnicianName != "Sarah Johnson" {
		t.Fatalf("updated = %+v", updated)
	}
	if got := f.outbox.types(); len(got) != 1 || got[0] != AppointmentTechnicianAssigned {
		t.Fatalf("events = %v", got)
	}
}

func TestAppointmentUseCase_AssignTechnicianHoldsBookingLock(t *testing.T) {
	app := testAppointment("APT-1", 7, 48*time.Hour, domain.StatusScheduled)
	key := lockKey("tech2", app.StartsAt)

	t.Run("contended", func(t *testing.T) {
		f := newAppointmentFixture(app)
		f.locks.held[key] = true

		_, err := f.uc.AssignTechnician(context.Background(), "APT-1", "tech2")
		if !errors.Is(err, e.ErrBookingInProgress) {
			t.Fatalf("expected ErrBookingInProgress, got %v", err)
		}
		if got := f.appointments.appointments[0].TechnicianID; got != "tech1" {
			t.Fatalf("technician changed to %s while the lock was held", got)
		}
		if got := f.outbox.types(); len(got) != 0 {
			t.Fatalf("events = %v, want none", got)
		}
	})

	t.Run("same key as confirmation", func(t *testing.T) {
		f := newAppointmentFixture(app)

		if _, err := f.uc.AssignTechnician(context.Background(), "APT-1", "tech2"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.locks.acquired) != 1 || f.locks.acquired[0] != key {
			t.Fatalf("acquired = %v, want [%s]", f.locks.acquired, key)
		}
	})
}
