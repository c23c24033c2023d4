package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/league-scheduler-api/internal/models"
)

// FieldWindow is a parsed field timeslot: MaxGames back-to-back games starting
// at Start on Weekday, Interval apart.
type FieldWindow struct {
	FieldID   string
	FieldName string
	Weekday   time.Weekday
	Start     time.Duration
	Interval  time.Duration
	MaxGames  int
}

// SlotTimes lists the game start times this window offers on date.
func (w FieldWindow) SlotTimes(date time.Time) []time.Time {
	day := truncateDay(date)
	if day.Weekday() != w.Weekday || w.MaxGames <= 0 {
		return nil
	}
	out := make([]time.Time, 0, w.MaxGames)
	for game := 0; game < w.MaxGames; game++ {
		out = append(out, day.Add(w.Start+time.Duration(game)*w.Interval))
	}
	return out
}

// Offers reports whether the window has a game starting exactly at at.
func (w FieldWindow) Offers(at time.Time) bool {
	for _, t := range w.SlotTimes(at) {
		if t.Equal(at) {
			return true
		}
	}
	return false
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full or three-letter English day names in any case.
func ParseWeekday(raw string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if day, ok := weekdays[name]; ok {
		return day, nil
	}
	if len(name) == 3 {
		for full, day := range weekdays {
			if strings.HasPrefix(full, name) {
				return day, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("%w: unknown day of week %q", ErrInvalidTimeslot, raw)
}

// ParseClock parses "HH:MM", "HH:MM:SS" or an RFC3339 timestamp into an
// offset from midnight. Timestamps are read in UTC.
func ParseClock(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return clockOffset(t), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return clockOffset(t.UTC()), nil
	}
	return 0, fmt.Errorf("%w: unparseable start time %q", ErrInvalidTimeslot, raw)
}

func clockOffset(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
}

// FieldWindows converts stored field timeslots into windows.
func FieldWindows(fields []models.TimeslotField) ([]FieldWindow, error) {
	out := make([]FieldWindow, 0, len(fields))
	for _, f := range fields {
		day, err := ParseWeekday(f.DayOfWeek)
		if err != nil {
			return nil, err
		}
		start, err := ParseClock(f.StartTime)
		if err != nil {
			return nil, err
		}
		if f.MaxGamesPerField > 1 && f.IntervalMinutes <= 0 {
			return nil, fmt.Errorf("%w: field %s needs a positive interval for %d games", ErrInvalidTimeslot, f.FieldID, f.MaxGamesPerField)
		}
		out = append(out, FieldWindow{
			FieldID:   f.FieldID,
			FieldName: f.FieldName,
			Weekday:   day,
			Start:     start,
			Interval:  time.Duration(f.IntervalMinutes) * time.Minute,
			MaxGames:  f.MaxGamesPerField,
		})
	}
	return out, nil
}

func windowsByWeekday(fields []FieldWindow) map[time.Weekday][]FieldWindow {
	byDay := make(map[time.Weekday][]FieldWindow, 7)
	for _, w := range fields {
		byDay[w.Weekday] = append(byDay[w.Weekday], w)
	}
	for day := range byDay {
		ws := byDay[day]
		sort.SliceStable(ws, func(i, j int) bool {
			if ws[i].FieldID != ws[j].FieldID {
				return ws[i].FieldID < ws[j].FieldID
			}
			return ws[i].Start < ws[j].Start
		})
	}
	return byDay
}
