package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/model"
	"github.com/Leganyst/workshop-platform/internal/repository"
)

// Minimal schema for the query/update logic (sqlite-friendly).
var testSchema = []string{
	`CREATE TABLE clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		whats_app TEXT,
		email TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE vehicles (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		plate TEXT NOT NULL UNIQUE,
		brand TEXT NOT NULL,
		model TEXT NOT NULL,
		year INTEGER,
		color TEXT,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE appointments (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		vehicle_id TEXT NOT NULL,
		opportunity_id TEXT,
		scheduled_date DATETIME NOT NULL,
		status TEXT NOT NULL,
		notes TEXT,
		is_from_opportunity BOOLEAN NOT NULL DEFAULT 0,
		created_by TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE work_statuses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		order_index INTEGER NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE services (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		vehicle_id TEXT NOT NULL,
		mechanic_id TEXT,
		appointment_id TEXT,
		branch_id TEXT,
		status_id TEXT NOT NULL,
		problem TEXT,
		diagnosis TEXT,
		labor_price NUMERIC NOT NULL DEFAULT 0,
		parts_price NUMERIC NOT NULL DEFAULT 0,
		parts_cost NUMERIC NOT NULL DEFAULT 0,
		total_amount NUMERIC NOT NULL DEFAULT 0,
		truput NUMERIC NOT NULL DEFAULT 0,
		mechanic_commission NUMERIC NOT NULL DEFAULT 0,
		started_at DATETIME,
		completed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE status_logs (
		id TEXT PRIMARY KEY,
		service_id TEXT NOT NULL,
		old_status_id TEXT NOT NULL,
		new_status_id TEXT NOT NULL,
		changed_by TEXT,
		notes TEXT,
		created_at DATETIME
	);`,
	`CREATE TABLE opportunities (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		vehicle_id TEXT NOT NULL,
		service_id TEXT,
		type TEXT NOT NULL,
		description TEXT,
		follow_up_date DATE NOT NULL,
		status TEXT NOT NULL,
		notes TEXT,
		created_by TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		display_name TEXT,
		role TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE mechanics (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		commission_pct INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE branches (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		created_at DATETIME,
		user_id TEXT,
		appointment_id TEXT,
		opportunity_id TEXT,
		details TEXT
	);`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range testSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	if err := model.SeedWorkStatuses(db); err != nil {
		t.Fatalf("seed work statuses: %v", err)
	}
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestIntake(db *gorm.DB) *IntakeService {
	return NewIntakeService(
		repository.NewGormClientRepository(db),
		repository.NewGormVehicleRepository(db),
		newTestLogger(),
	)
}

func newTestServices(t *testing.T, db *gorm.DB) (*AppointmentService, *RepairService, *OpportunityService) {
	t.Helper()

	log := newTestLogger()
	appointments := NewAppointmentService(db, newTestIntake(db), log, time.UTC)
	repairs := NewRepairService(db, appointments, log)
	opportunities := NewOpportunityService(db, appointments, log)
	return appointments, repairs, opportunities
}

// seedClientVehicle creates one client with one vehicle and returns both.
func seedClientVehicle(t *testing.T, db *gorm.DB) (*model.Client, *model.Vehicle) {
	t.Helper()

	client := &model.Client{Name: "Juan Pérez", Phone: "5215512345678", IsActive: true}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	vehicle := &model.Vehicle{ClientID: client.ID, Plate: "ABC-1234", Brand: "Toyota", Model: "Corolla"}
	if err := db.Create(vehicle).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	return client, vehicle
}

func workStatusByName(t *testing.T, db *gorm.DB, name string) *model.WorkStatus {
	t.Helper()

	ws, err := repository.NewGormWorkStatusRepository(db).GetByName(context.Background(), name)
	if err != nil {
		t.Fatalf("work status %q: %v", name, err)
	}
	return ws
}

func countEvents(t *testing.T, db *gorm.DB, eventType model.EventType) int64 {
	t.Helper()

	var total int64
	if err := db.Model(&model.Event{}).Where("event_type = ?", eventType).Count(&total).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	return total
}
