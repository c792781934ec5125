package schedule

// Salon working day: bookings start on the half hour from 09:00 to 17:30.
const (
	OpeningMinute   = 9 * 60
	SlotStepMinutes = 30
	SlotsPerDay     = 18
)

// ClosingMinute is the end-of-day boundary no appointment may run past (18:00).
func ClosingMinute() int {
	return OpeningMinute + SlotsPerDay*SlotStepMinutes
}

// Grid returns the ordered bookable start times of a day.
// A fresh slice is returned on every call so callers may keep or modify it.
func Grid() []string {
	slots := make([]string, 0, SlotsPerDay)
	for i := 0; i < SlotsPerDay; i++ {
		slots = append(slots, FormatClock(OpeningMinute+i*SlotStepMinutes))
	}
	return slots
}

// IsGridSlot reports whether t is one of the fixed slot start times.
func IsGridSlot(t string) bool {
	m, err := ParseClock(t)
	if err != nil {
		return false
	}
	return isGridMinute(m)
}

func isGridMinute(m int) bool {
	if m < OpeningMinute || m >= ClosingMinute() {
		return false
	}
	return (m-OpeningMinute)%SlotStepMinutes == 0
}
