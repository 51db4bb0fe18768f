package service

import (
	"context"
	"testing"
	"time"

	"github.com/Leganyst/workshop-platform/internal/apperr"
	"github.com/Leganyst/workshop-platform/internal/model"
	"github.com/Leganyst/workshop-platform/internal/repository"
)

func TestAppointmentService_Create_RejectsSameDayDuplicate(t *testing.T) {
	db := newTestDB(t)
	appointments, _, _ := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	day := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	first, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: day,
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.Status != model.AppointmentStatusScheduled {
		t.Fatalf("status = %s, want scheduled", first.Status)
	}

	// Same vehicle, same calendar day, different hour.
	_, err = appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: day.Add(6 * time.Hour),
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("same-day create: err = %v, want conflict", err)
	}

	// Next day is free.
	if _, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: day.AddDate(0, 0, 1),
	}); err != nil {
		t.Fatalf("create next day: %v", err)
	}
}

func TestAppointmentService_Create_CancelledAppointmentFreesTheDay(t *testing.T) {
	db := newTestDB(t)
	appointments, _, _ := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	day := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	first, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: day,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := appointments.Cancel(ctx, first.ID.String(), nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: day.Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("create after cancel: %v", err)
	}
}

func TestAppointmentService_Create_ValidatesOwnership(t *testing.T) {
	db := newTestDB(t)
	appointments, _, _ := newTestServices(t, db)
	client, _ := seedClientVehicle(t, db)
	ctx := context.Background()

	other := &model.Client{Name: "Otro", Phone: "5215500000000", IsActive: true}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("seed other client: %v", err)
	}
	foreign := &model.Vehicle{ClientID: other.ID, Plate: "XYZ-9876", Brand: "Nissan", Model: "Versa"}
	if err := db.Create(foreign).Error; err != nil {
		t.Fatalf("seed foreign vehicle: %v", err)
	}

	_, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     foreign.ID,
		ScheduledDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("foreign vehicle: err = %v, want not found", err)
	}
}

func TestAppointmentService_Reschedule(t *testing.T) {
	db := newTestDB(t)
	appointments, _, _ := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	day := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	appt, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: day,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Moving within the same day must not conflict with itself.
	moved, err := appointments.Reschedule(ctx, appt.ID.String(), day.Add(4*time.Hour), nil)
	if err != nil {
		t.Fatalf("reschedule same day: %v", err)
	}
	if !moved.ScheduledDate.Equal(day.Add(4 * time.Hour)) {
		t.Fatalf("scheduled date = %s, want %s", moved.ScheduledDate, day.Add(4*time.Hour))
	}

	// An occupied day stays off limits.
	busy := day.AddDate(0, 0, 2)
	if _, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: busy,
	}); err != nil {
		t.Fatalf("create busy day: %v", err)
	}
	_, err = appointments.Reschedule(ctx, appt.ID.String(), busy.Add(time.Hour), nil)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("reschedule to busy day: err = %v, want conflict", err)
	}

	if countEvents(t, db, model.EventTypeAppointmentRescheduled) != 1 {
		t.Fatalf("want exactly one reschedule event")
	}
}

func TestAppointmentService_TransitionGuards(t *testing.T) {
	db := newTestDB(t)
	appointments, _, _ := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	appt, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := appt.ID.String()

	if _, err := appointments.Confirm(ctx, id, nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	// Confirm is not idempotent: confirmed is not a legal source.
	if _, err := appointments.Confirm(ctx, id, nil); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("second confirm: err = %v, want invalid transition", err)
	}

	if _, err := appointments.Receive(ctx, id, nil); err != nil {
		t.Fatalf("receive: %v", err)
	}

	if _, err := appointments.Complete(ctx, id, nil); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := appointments.Cancel(ctx, id, nil); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("cancel completed: err = %v, want invalid transition", err)
	}
	if _, err := appointments.Complete(ctx, id, nil); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("complete completed: err = %v, want invalid transition", err)
	}
}

func TestAppointmentService_Complete_AutoCreatesServiceWhenEmpty(t *testing.T) {
	db := newTestDB(t)
	appointments, _, _ := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	appt, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Notes:         "ruido en la suspensión",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := appointments.Complete(ctx, appt.ID.String(), nil); err != nil {
		t.Fatalf("complete: %v", err)
	}

	services, err := repository.NewGormServiceRepository(db).ListByAppointment(ctx, appt.ID.String())
	if err != nil {
		t.Fatalf("list services: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("services = %d, want exactly 1", len(services))
	}
	svc := services[0]
	if svc.Problem != appt.Notes {
		t.Fatalf("problem = %q, want appointment notes %q", svc.Problem, appt.Notes)
	}

	initial := workStatusByName(t, db, model.WorkStatusNameReceived)
	if svc.StatusID != initial.ID {
		t.Fatalf("auto-created service not in initial status")
	}

	got, err := appointments.Get(ctx, appt.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.AppointmentStatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
}

func TestAppointmentService_Complete_RequiresClosedServices(t *testing.T) {
	db := newTestDB(t)
	appointments, repairs, _ := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	appt, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	apptID := appt.ID
	if _, err := repairs.Create(ctx, CreateServiceInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		AppointmentID: &apptID,
		Problem:       "frenos",
	}); err != nil {
		t.Fatalf("create service: %v", err)
	}

	_, err = appointments.Complete(ctx, appt.ID.String(), nil)
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("complete with open service: err = %v, want invalid transition", err)
	}
}

func TestAppointmentService_Cancel_BlockedByOpenService(t *testing.T) {
	db := newTestDB(t)
	appointments, repairs, _ := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	appt, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	apptID := appt.ID
	svc, err := repairs.Create(ctx, CreateServiceInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		AppointmentID: &apptID,
		Problem:       "frenos",
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	_, err = appointments.Cancel(ctx, appt.ID.String(), nil)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("cancel with open service: err = %v, want conflict", err)
	}

	// "Rechazado" closes the service without finishing it, so it does
	// not auto-complete the appointment and cancellation becomes legal.
	rejected := workStatusByName(t, db, model.WorkStatusNameRejected)
	if _, err := repairs.ChangeStatus(ctx, svc.ID.String(), rejected.ID.String(), "", nil); err != nil {
		t.Fatalf("reject service: %v", err)
	}
	if _, err := appointments.Cancel(ctx, appt.ID.String(), nil); err != nil {
		t.Fatalf("cancel after reject: %v", err)
	}
}

func TestAppointmentService_RevertCompletion(t *testing.T) {
	db := newTestDB(t)
	appointments, _, _ := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	appt, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := appt.ID.String()

	// Revert is only legal from completed.
	if _, err := appointments.RevertCompletion(ctx, id, nil, "typo"); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("revert scheduled: err = %v, want invalid transition", err)
	}

	if _, err := appointments.Complete(ctx, id, nil); err != nil {
		t.Fatalf("complete: %v", err)
	}
	reverted, err := appointments.RevertCompletion(ctx, id, nil, "closed by mistake")
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if reverted.Status != model.AppointmentStatusConfirmed {
		t.Fatalf("status = %s, want confirmed", reverted.Status)
	}
	if countEvents(t, db, model.EventTypeAppointmentReverted) != 1 {
		t.Fatalf("want exactly one revert event")
	}
}

func TestAppointmentService_ListByDay(t *testing.T) {
	db := newTestDB(t)
	appointments, _, _ := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	second := &model.Vehicle{ClientID: client.ID, Plate: "DEF-5678", Brand: "Honda", Model: "Civic"}
	if err := db.Create(second).Error; err != nil {
		t.Fatalf("seed second vehicle: %v", err)
	}

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range []*model.Vehicle{vehicle, second} {
		if _, err := appointments.Create(ctx, CreateAppointmentInput{
			ClientID:      client.ID,
			VehicleID:     v.ID,
			ScheduledDate: day.Add(time.Duration(9+i) * time.Hour),
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if _, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: day.AddDate(0, 0, 1),
	}); err != nil {
		t.Fatalf("create other day: %v", err)
	}

	appts, total, err := appointments.ListByDay(ctx, day, "", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(appts) != 2 {
		t.Fatalf("list day: total = %d, len = %d, want 2/2", total, len(appts))
	}
}
