package service

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/Leganyst/workshop-platform/internal/apperr"
	"github.com/Leganyst/workshop-platform/internal/model"
)

func seedOpportunity(t *testing.T, opportunities *OpportunityService, client *model.Client, vehicle *model.Vehicle) *model.Opportunity {
	t.Helper()

	opp, err := opportunities.Create(context.Background(), CreateOpportunityInput{
		ClientID:     client.ID,
		VehicleID:    vehicle.ID,
		Type:         "revisión de frenos",
		FollowUpDate: datatypes.Date(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("create opportunity: %v", err)
	}
	return opp
}

func TestOpportunityService_ChangeStatus_Transitions(t *testing.T) {
	db := newTestDB(t)
	_, _, opportunities := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	opp := seedOpportunity(t, opportunities, client, vehicle)
	id := opp.ID.String()

	// Skipping contacted is legal: pending -> interested.
	if _, err := opportunities.ChangeStatus(ctx, id, model.OpportunityStatusInterested); err != nil {
		t.Fatalf("pending -> interested: %v", err)
	}

	// Going back is not.
	if _, err := opportunities.ChangeStatus(ctx, id, model.OpportunityStatusContacted); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("interested -> contacted: err = %v, want invalid transition", err)
	}

	// Same status is a no-op error, not a transition.
	if _, err := opportunities.ChangeStatus(ctx, id, model.OpportunityStatusInterested); !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("same status: err = %v, want invalid state", err)
	}

	// converted is never reachable through ChangeStatus.
	if _, err := opportunities.ChangeStatus(ctx, id, model.OpportunityStatusConverted); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("to converted: err = %v, want invalid transition", err)
	}

	if _, err := opportunities.ChangeStatus(ctx, id, model.OpportunityStatusDeclined); err != nil {
		t.Fatalf("interested -> declined: %v", err)
	}
	// declined has no outgoing transitions.
	if _, err := opportunities.ChangeStatus(ctx, id, model.OpportunityStatusContacted); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("declined -> contacted: err = %v, want invalid transition", err)
	}
}

func TestOpportunityService_ConvertToAppointment(t *testing.T) {
	db := newTestDB(t)
	appointments, _, opportunities := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	opp := seedOpportunity(t, opportunities, client, vehicle)
	when := time.Date(2026, 10, 5, 11, 0, 0, 0, time.UTC)

	converted, appt, err := opportunities.ConvertToAppointment(ctx, opp.ID.String(), when, "trae el coche", nil)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if converted.Status != model.OpportunityStatusConverted {
		t.Fatalf("opportunity status = %s, want converted", converted.Status)
	}
	if !appt.IsFromOpportunity {
		t.Fatalf("appointment not marked as from opportunity")
	}
	if appt.OpportunityID == nil || *appt.OpportunityID != opp.ID {
		t.Fatalf("appointment does not reference the opportunity")
	}
	if appt.Status != model.AppointmentStatusScheduled {
		t.Fatalf("appointment status = %s, want scheduled", appt.Status)
	}
	if countEvents(t, db, model.EventTypeOpportunityConverted) != 1 {
		t.Fatalf("want exactly one conversion event")
	}

	// The appointment is live: it participates in day-conflict checks.
	conflict, err := appointments.HasConflict(ctx, vehicle.ID.String(), when.Add(3*time.Hour), "")
	if err != nil {
		t.Fatalf("conflict check: %v", err)
	}
	if !conflict {
		t.Fatalf("converted appointment invisible to conflict checker")
	}

	// Second conversion of the same opportunity must fail.
	if _, _, err := opportunities.ConvertToAppointment(ctx, opp.ID.String(), when.AddDate(0, 0, 1), "", nil); !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("second convert: err = %v, want invalid state", err)
	}
}

func TestOpportunityService_Convert_RejectsDeclinedAndConflicts(t *testing.T) {
	db := newTestDB(t)
	appointments, _, opportunities := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	declined := seedOpportunity(t, opportunities, client, vehicle)
	if _, err := opportunities.ChangeStatus(ctx, declined.ID.String(), model.OpportunityStatusDeclined); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if _, _, err := opportunities.ConvertToAppointment(ctx, declined.ID.String(), time.Date(2026, 10, 5, 11, 0, 0, 0, time.UTC), "", nil); !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("convert declined: err = %v, want invalid state", err)
	}

	// Occupied day blocks conversion and leaves the opportunity as is.
	busy := time.Date(2026, 10, 7, 9, 0, 0, 0, time.UTC)
	if _, err := appointments.Create(ctx, CreateAppointmentInput{
		ClientID:      client.ID,
		VehicleID:     vehicle.ID,
		ScheduledDate: busy,
	}); err != nil {
		t.Fatalf("create busy day: %v", err)
	}

	pending := seedOpportunity(t, opportunities, client, vehicle)
	if _, _, err := opportunities.ConvertToAppointment(ctx, pending.ID.String(), busy.Add(2*time.Hour), "", nil); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("convert to busy day: err = %v, want conflict", err)
	}
	got, err := opportunities.Get(ctx, pending.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.OpportunityStatusPending {
		t.Fatalf("failed conversion changed status to %s", got.Status)
	}
}

func TestOpportunityService_Delete_RefusesConverted(t *testing.T) {
	db := newTestDB(t)
	_, _, opportunities := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	opp := seedOpportunity(t, opportunities, client, vehicle)
	if _, _, err := opportunities.ConvertToAppointment(ctx, opp.ID.String(), time.Date(2026, 10, 5, 11, 0, 0, 0, time.UTC), "", nil); err != nil {
		t.Fatalf("convert: %v", err)
	}

	if err := opportunities.Delete(ctx, opp.ID.String()); !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("delete converted: err = %v, want invalid state", err)
	}
	// converted is immutable for status changes too.
	if _, err := opportunities.ChangeStatus(ctx, opp.ID.String(), model.OpportunityStatusDeclined); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("change converted: err = %v, want invalid transition", err)
	}
}

func TestOpportunityService_Create_Validation(t *testing.T) {
	db := newTestDB(t)
	_, _, opportunities := newTestServices(t, db)
	client, vehicle := seedClientVehicle(t, db)
	ctx := context.Background()

	if _, err := opportunities.Create(ctx, CreateOpportunityInput{
		ClientID:     client.ID,
		VehicleID:    vehicle.ID,
		FollowUpDate: datatypes.Date(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)),
	}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("missing type: err = %v, want validation", err)
	}

	if _, err := opportunities.Create(ctx, CreateOpportunityInput{
		ClientID:  client.ID,
		VehicleID: vehicle.ID,
		Type:      "cambio de aceite",
	}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("missing follow-up date: err = %v, want validation", err)
	}
}
