package domain

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/DRSN-tech/aircon-backend/pkg/e"
)

func newTestWizard() *Wizard {
	return NewWizard("w-1", 1, time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
}

func TestWizard_ForwardGating(t *testing.T) {
	w := newTestWizard()

	if err := w.Next(); !errors.Is(err, e.ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete on empty step 1, got %v", err)
	}

	d := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
	_ = w.SelectDate(d)
	before := *w
	if err := w.Next(); !errors.Is(err, e.ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete with date only, got %v", err)
	}
	if !reflect.DeepEqual(before, *w) {
		t.Fatal("failed transition changed wizard state")
	}

	_ = w.SelectTime("10:00 AM")
	if err := w.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Step != StepSelectService {
		t.Fatalf("step = %s", w.Step)
	}

	if err := w.Next(); !errors.Is(err, e.ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete without service, got %v", err)
	}

	_ = w.SelectService("maintenance")
	_ = w.Next()

	_ = w.SelectTechnician("tech2")
	_ = w.SetAddress("   ")
	if err := w.Next(); !errors.Is(err, e.ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete with blank address, got %v", err)
	}

	_ = w.SetAddress("123 Test St")
	if err := w.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Step != StepConfirm || !w.Complete() {
		t.Fatalf("expected complete wizard at confirm, got %s", w.Step)
	}

	if err := w.Next(); !errors.Is(err, e.ErrStepIncomplete) {
		t.Fatalf("expected no transition past confirm, got %v", err)
	}
}

func TestWizard_Back(t *testing.T) {
	w := newTestWizard()
	w.Back()
	if w.Step != StepSelectDateTime {
		t.Fatalf("back on first step moved to %s", w.Step)
	}

	_ = w.SelectDate(time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC))
	_ = w.SelectTime("8:00 AM")
	_ = w.Next()
	w.Back()
	if w.Step != StepSelectDateTime {
		t.Fatalf("step = %s", w.Step)
	}
	if w.Time != "8:00 AM" {
		t.Error("back must keep selections")
	}
}

func TestWizard_NewDateClearsTime(t *testing.T) {
	w := newTestWizard()
	_ = w.SelectDate(time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC))
	_ = w.SelectTime("9:30 AM")

	_ = w.SelectDate(time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC))
	if w.Time != "9:30 AM" {
		t.Error("same date must keep time")
	}

	_ = w.SelectDate(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC))
	if w.Time != "" {
		t.Error("new date must clear time")
	}
}

func TestWizard_FieldsOwnedByStep(t *testing.T) {
	w := newTestWizard()
	if err := w.SelectService("repair"); !errors.Is(err, e.ErrWrongStep) {
		t.Fatalf("expected ErrWrongStep, got %v", err)
	}
	if w.ServiceTypeID != "" {
		t.Error("service must not be set")
	}
}

func TestWizard_Scenario(t *testing.T) {
	d := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	w := newTestWizard()

	steps := []func() error{
		func() error { return w.SelectDate(d) },
		func() error { return w.SelectTime("10:00 AM") },
		w.Next,
		func() error { return w.SelectService("maintenance") },
		w.Next,
		func() error { return w.SelectTechnician("tech2") },
		func() error { return w.SetAddress("123 Test St") },
		w.Next,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	want := Draft{Date: d, Time: "10:00 AM", ServiceType: "maintenance", Technician: "tech2", Address: "123 Test St"}
	if got := w.Draft(); !reflect.DeepEqual(got, want) {
		t.Fatalf("draft = %+v, want %+v", got, want)
	}
}
