package schedule

import (
	"errors"
	"time"
)

var ErrZeroDate = errors.New("date must not be zero")

// DayWindow представляет границы календарного дня [Start, End] включительно.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// DayBounds вычисляет включительные границы календарного дня для t
// в часовом поясе loc (локальное презентационное время).
// Если loc == nil, используется пояс самого t.
func DayBounds(t time.Time, loc *time.Location) (DayWindow, error) {
	if t.IsZero() {
		return DayWindow{}, ErrZeroDate
	}
	if loc != nil {
		t = t.In(loc)
	}

	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	// Конец дня — последняя наносекунда, проверка конфликтов включительная.
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	return DayWindow{Start: start, End: end}, nil
}

// Contains — попадает ли t в окно (границы включительно).
func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// SameDay — лежат ли a и b в одном календарном дне пояса loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc != nil {
		a = a.In(loc)
		b = b.In(loc)
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
