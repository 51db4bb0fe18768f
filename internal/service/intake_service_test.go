package service

import (
	"context"
	"testing"

	"github.com/Leganyst/workshop-platform/internal/apperr"
	"github.com/Leganyst/workshop-platform/internal/intake"
)

func TestIntakeService_ResolveForPhoneIntake_CreatesClientAndVehicle(t *testing.T) {
	db := newTestDB(t)
	svc := newTestIntake(db)
	ctx := context.Background()

	client, vehicle, err := svc.ResolveForPhoneIntake(ctx, "Juan", "+52 1 55 1234 5678", "Toyota Corolla 2018")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if client.Phone != "5215512345678" {
		t.Fatalf("phone = %q, want normalized digits", client.Phone)
	}
	if client.WhatsApp != client.Phone {
		t.Fatalf("whatsapp = %q, want defaulted to phone", client.WhatsApp)
	}
	if !intake.IsPlaceholderPlate(vehicle.Plate) {
		t.Fatalf("plate = %q, want placeholder", vehicle.Plate)
	}
	if vehicle.Brand != "Toyota" || vehicle.Model != "Corolla 2018" {
		t.Fatalf("vehicle = %q %q", vehicle.Brand, vehicle.Model)
	}
	if vehicle.Notes != intake.PendingVerificationNote {
		t.Fatalf("notes = %q, want pending verification note", vehicle.Notes)
	}
}

func TestIntakeService_ResolveForPhoneIntake_DeduplicatesByPhone(t *testing.T) {
	db := newTestDB(t)
	svc := newTestIntake(db)
	ctx := context.Background()

	first, firstVehicle, err := svc.ResolveForPhoneIntake(ctx, "Juan", "5512345678", "Toyota Corolla")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	// Same phone with punctuation, same vehicle described loosely.
	second, secondVehicle, err := svc.ResolveForPhoneIntake(ctx, "Juan Pérez García", "55-12-34-56-78", "Toyota Corolla")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("phone dedup failed: got a second client")
	}
	if secondVehicle.ID != firstVehicle.ID {
		t.Fatalf("vehicle match failed: got a second vehicle")
	}
	// The longer name wins.
	if second.Name != "Juan Pérez García" {
		t.Fatalf("name = %q, want extended name", second.Name)
	}

	// A shorter name never shrinks the stored one.
	third, _, err := svc.ResolveForPhoneIntake(ctx, "Juan", "5512345678", "Toyota Corolla")
	if err != nil {
		t.Fatalf("third resolve: %v", err)
	}
	if third.Name != "Juan Pérez García" {
		t.Fatalf("name = %q, shorter name overwrote stored", third.Name)
	}
}

func TestIntakeService_ResolveForPhoneIntake_NewVehicleForNewDescription(t *testing.T) {
	db := newTestDB(t)
	svc := newTestIntake(db)
	ctx := context.Background()

	_, firstVehicle, err := svc.ResolveForPhoneIntake(ctx, "Juan", "5512345678", "Toyota Corolla")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	_, secondVehicle, err := svc.ResolveForPhoneIntake(ctx, "Juan", "5512345678", "Honda Civic")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if secondVehicle.ID == firstVehicle.ID {
		t.Fatalf("different description matched the same vehicle")
	}
}

func TestIntakeService_ResolveForPhoneIntake_EmptyDescriptionUsesSentinels(t *testing.T) {
	db := newTestDB(t)
	svc := newTestIntake(db)
	ctx := context.Background()

	_, vehicle, err := svc.ResolveForPhoneIntake(ctx, "Juan", "5512345678", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if vehicle.Brand != intake.UnknownBrand || vehicle.Model != intake.UnknownModel {
		t.Fatalf("vehicle = %q %q, want sentinels", vehicle.Brand, vehicle.Model)
	}
}

func TestIntakeService_ResolveForPhoneIntake_RequiresPhoneAndName(t *testing.T) {
	db := newTestDB(t)
	svc := newTestIntake(db)
	ctx := context.Background()

	if _, _, err := svc.ResolveForPhoneIntake(ctx, "Juan", "---", "Toyota"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("no digits in phone: err = %v, want validation", err)
	}
	if _, _, err := svc.ResolveForPhoneIntake(ctx, "", "5512345678", "Toyota"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("empty name: err = %v, want validation", err)
	}
}
