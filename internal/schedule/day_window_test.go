package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestDayBounds_InclusiveWindow(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	at := time.Date(2026, 9, 1, 15, 30, 0, 0, loc)
	w, err := DayBounds(at, loc)
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}

	wantStart := time.Date(2026, 9, 1, 0, 0, 0, 0, loc)
	if !w.Start.Equal(wantStart) {
		t.Fatalf("start = %s, want %s", w.Start, wantStart)
	}
	if !w.Contains(wantStart) {
		t.Fatalf("window excludes its own start")
	}

	lastNanosecond := time.Date(2026, 9, 1, 23, 59, 59, 999999999, loc)
	if !w.Contains(lastNanosecond) {
		t.Fatalf("window excludes the last nanosecond of the day")
	}
	if w.Contains(wantStart.AddDate(0, 0, 1)) {
		t.Fatalf("window leaks into the next day")
	}
}

func TestDayBounds_ConvertsToPresentationZone(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2026-09-02 03:00 UTC is still 2026-09-01 in Mexico City.
	at := time.Date(2026, 9, 2, 3, 0, 0, 0, time.UTC)
	w, err := DayBounds(at, loc)
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	wantStart := time.Date(2026, 9, 1, 0, 0, 0, 0, loc)
	if !w.Start.Equal(wantStart) {
		t.Fatalf("start = %s, want %s", w.Start, wantStart)
	}
}

func TestDayBounds_ZeroDate(t *testing.T) {
	if _, err := DayBounds(time.Time{}, time.UTC); !errors.Is(err, ErrZeroDate) {
		t.Fatalf("err = %v, want ErrZeroDate", err)
	}
}

func TestSameDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	morning := time.Date(2026, 9, 1, 9, 0, 0, 0, loc)
	evening := time.Date(2026, 9, 1, 21, 0, 0, 0, loc)
	if !SameDay(morning, evening, loc) {
		t.Fatalf("same local day reported as different")
	}

	// Same UTC instant, different local days across the zone boundary.
	lateUTC := time.Date(2026, 9, 2, 3, 0, 0, 0, time.UTC)
	if SameDay(morning, lateUTC, nil) {
		t.Fatalf("zone-naive comparison matched across days")
	}
	if !SameDay(morning, lateUTC, loc) {
		t.Fatalf("instant in the same local day reported as different")
	}
}
