package schedule

import "fmt"

// Day is a weekday label as used by routines and free-schedule windows.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Days lists all weekday labels in order.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// Valid reports whether d is one of the seven weekday labels.
func (d Day) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// Window is a half-open hour range [StartHour, EndHour) on a weekday.
// Hours are plain integers 0-23; there is no timezone handling.
type Window struct {
	Day       Day `json:"day"`
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// Overlaps reports whether two windows collide. Windows on different days
// never collide, and back-to-back windows (one ending at the hour the other
// starts) do not collide.
func (w Window) Overlaps(o Window) bool {
	if w.Day != o.Day {
		return false
	}
	return w.StartHour < o.EndHour && o.StartHour < w.EndHour
}

// Contains reports whether w fully covers o on the same day.
func (w Window) Contains(o Window) bool {
	if w.Day != o.Day {
		return false
	}
	return w.StartHour <= o.StartHour && w.EndHour >= o.EndHour
}

func (w Window) String() string {
	return fmt.Sprintf("%s from %d to %d", w.Day, w.StartHour, w.EndHour)
}
