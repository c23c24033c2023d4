package scheduling

import (
	"sort"
	"time"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

// Slot is a concrete (field, date-time) booking.
type Slot struct {
	FieldID string
	At      time.Time
}

type slotKey struct {
	fieldID string
	unix    int64
}

func keyOf(fieldID string, at time.Time) slotKey {
	return slotKey{fieldID: fieldID, unix: at.Unix()}
}

// OccupiedSlots is the set of booked slots for one allocation operation. It is
// built from the game store at the start of the operation, threaded through
// every placement and dropped afterwards.
type OccupiedSlots struct {
	set map[slotKey]struct{}
}

// NewOccupiedSlots seeds the set from already stored games.
func NewOccupiedSlots(existing []models.GameSlot) *OccupiedSlots {
	o := &OccupiedSlots{set: make(map[slotKey]struct{}, len(existing))}
	for _, s := range existing {
		o.Add(s.FieldID, s.GameDate)
	}
	return o
}

// Add books a slot.
func (o *OccupiedSlots) Add(fieldID string, at time.Time) {
	o.set[keyOf(fieldID, at)] = struct{}{}
}

// Remove frees a slot.
func (o *OccupiedSlots) Remove(fieldID string, at time.Time) {
	delete(o.set, keyOf(fieldID, at))
}

// Has reports whether a slot is booked.
func (o *OccupiedSlots) Has(fieldID string, at time.Time) bool {
	_, ok := o.set[keyOf(fieldID, at)]
	return ok
}

// Len returns the number of booked slots.
func (o *OccupiedSlots) Len() int {
	return len(o.set)
}

// FindNextAvailableSlot walks dates ascending, then the fields offered on that
// weekday ordered by field id and start time, then each field's games in
// order, and returns the first slot not in occupied. ok is false when every
// candidate is taken; callers count that as a failed placement.
func FindNextAvailableSlot(dates []time.Time, fields []FieldWindow, occupied *OccupiedSlots) (Slot, bool) {
	byDay := windowsByWeekday(fields)
	for _, date := range sortedDays(dates) {
		for _, w := range byDay[date.Weekday()] {
			for _, at := range w.SlotTimes(date) {
				if occupied.Has(w.FieldID, at) {
					continue
				}
				return Slot{FieldID: w.FieldID, At: at}, true
			}
		}
	}
	return Slot{}, false
}

// DatesForRound narrows candidate dates for a round. Dates without a round are
// candidates for every round, and a single available date serves all rounds.
func DatesForRound(dates []models.TimeslotDate, round int) []time.Time {
	all := DistinctDays(dates)
	if len(all) == 1 {
		return all
	}
	var out []time.Time
	seen := map[time.Time]struct{}{}
	for _, d := range dates {
		if d.Round != nil && *d.Round != round {
			continue
		}
		day := truncateDay(d.GameDate)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// DistinctDays returns the distinct calendar days of dates in ascending order.
func DistinctDays(dates []models.TimeslotDate) []time.Time {
	raw := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		raw = append(raw, d.GameDate)
	}
	return sortedDays(raw)
}

func sortedDays(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := truncateDay(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
