package schedule

import "fmt"

// Booked is an existing appointment reduced to what availability needs.
type Booked struct {
	Time            string `db:"time"`
	DurationMinutes int    `db:"duration_minutes"`
}

// Availability classifies grid slots for one (stylist, service, date) query.
// FreeSlots and OccupiedSlots are independent: a slot may appear in neither.
type Availability struct {
	FreeSlots     []string `json:"freeSlots"`
	OccupiedSlots []string `json:"occupiedSlots"`
}

// ValidateDuration checks that a requested duration fits the slot grid.
func ValidateDuration(durationMinutes int) error {
	if durationMinutes <= 0 || durationMinutes%SlotStepMinutes != 0 {
		return ErrInvalidDuration
	}
	return nil
}

// Compute returns the free and occupied grid slots for a new appointment of
// durationMinutes given the appointments already booked that day.
func Compute(booked []Booked, durationMinutes int) (Availability, error) {
	if err := ValidateDuration(durationMinutes); err != nil {
		return Availability{}, err
	}

	busy, err := intervals(booked)
	if err != nil {
		return Availability{}, err
	}

	result := Availability{
		FreeSlots:     make([]string, 0, SlotsPerDay),
		OccupiedSlots: make([]string, 0, SlotsPerDay),
	}
	closing := ClosingMinute()

	for i := 0; i < SlotsPerDay; i++ {
		start := OpeningMinute + i*SlotStepMinutes
		candidate := Interval{Start: start, End: start + durationMinutes}

		if candidate.End <= closing && !overlapsAny(candidate, busy) {
			result.FreeSlots = append(result.FreeSlots, FormatClock(start))
		}
		if containedByAny(start, busy) {
			result.OccupiedSlots = append(result.OccupiedSlots, FormatClock(start))
		}
	}

	return result, nil
}

// IsFree reports whether a new appointment of durationMinutes may start at
// slot. The slot itself must be a grid value.
func IsFree(booked []Booked, slot string, durationMinutes int) (bool, error) {
	if !IsGridSlot(slot) {
		return false, ErrInvalidTime
	}
	if err := ValidateDuration(durationMinutes); err != nil {
		return false, err
	}

	busy, err := intervals(booked)
	if err != nil {
		return false, err
	}

	candidate, err := ToInterval(slot, durationMinutes)
	if err != nil {
		return false, err
	}
	if candidate.End > ClosingMinute() {
		return false, nil
	}
	return !overlapsAny(candidate, busy), nil
}

func intervals(booked []Booked) ([]Interval, error) {
	out := make([]Interval, 0, len(booked))
	for _, b := range booked {
		iv, err := ToInterval(b.Time, b.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("booked appointment at %q (%d min): %w", b.Time, b.DurationMinutes, err)
		}
		out = append(out, iv)
	}
	return out, nil
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

func containedByAny(minute int, busy []Interval) bool {
	for _, b := range busy {
		if b.Contains(minute) {
			return true
		}
	}
	return false
}
