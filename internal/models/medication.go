package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/hsnsag/pillbox/internal/constants"
)

// DayNames are the short weekday names in mask order (Monday-first).
var DayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DaysMask is a 7-character "1"/"0" string over Mon..Sun, Monday-first.
type DaysMask string

// AllDays is the mask with every weekday active.
const AllDays DaysMask = "1111111"

// Validate checks that the mask is exactly 7 chars of "1"/"0".
func (m DaysMask) Validate() error {
	if len(m) != 7 {
		return fmt.Errorf("days mask must be 7 characters, got %d", len(m))
	}
	for _, ch := range m {
		if ch != '0' && ch != '1' {
			return fmt.Errorf("days mask may only contain '1' and '0': %q", string(m))
		}
	}
	return nil
}

// IsActiveOn reports whether the weekday of d is set in the mask.
func (m DaysMask) IsActiveOn(d time.Time) bool {
	if len(m) != 7 {
		return false
	}
	return m[MondayIndex(d.Weekday())] == '1'
}

// Names returns the readable day names for the mask, e.g. "Mon Wed Fri".
func (m DaysMask) Names() string {
	if len(m) != 7 {
		return string(m)
	}
	var days []string
	for i, ch := range m {
		if ch == '1' {
			days = append(days, DayNames[i])
		}
	}
	if len(days) == 0 {
		return "(none)"
	}
	return strings.Join(days, " ")
}

// MondayIndex maps a time.Weekday (Sunday=0) to the Monday-first mask index.
func MondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// CoerceDaysMask normalizes user input into a DaysMask. It accepts a literal
// 7-char "1"/"0" mask or a comma-separated list of day names ("Mon,Wed,Fri").
func CoerceDaysMask(s string) (DaysMask, error) {
	s = strings.TrimSpace(s)
	if m := DaysMask(s); m.Validate() == nil {
		return m, nil
	}

	bits := []byte("0000000")
	matched := false
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name := strings.ToLower(part)
		if len(name) > 3 {
			name = name[:3]
		}
		found := false
		for i, d := range DayNames {
			if strings.ToLower(d) == name {
				bits[i] = '1'
				found = true
				matched = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("invalid day name: %q", part)
		}
	}
	if !matched {
		return "", fmt.Errorf("invalid days mask: %q", s)
	}
	return DaysMask(bits), nil
}

// Medication is one recurring dosage plan: a set of times-of-day on a set of
// weekdays. IDs are positive integers assigned as max(existing)+1 and never
// reused. Deletion is soft (Active=false) so dose history stays intact.
type Medication struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Dose   string   `json:"dose"`
	Times  []string `json:"times"` // HH:MM entries
	Days   DaysMask `json:"days"`
	Active bool     `json:"active"`
}

// Validate rejects medications that must never be persisted: missing
// name/dose, no times, duplicate or malformed times, bad masks.
func (m *Medication) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("medication name cannot be empty")
	}
	if strings.TrimSpace(m.Dose) == "" {
		return fmt.Errorf("medication dose cannot be empty")
	}
	if len(m.Times) == 0 {
		return fmt.Errorf("medication must have at least one time")
	}
	seen := make(map[string]bool)
	for _, ts := range m.Times {
		if _, err := time.Parse(constants.TimeFormat, ts); err != nil {
			return fmt.Errorf("invalid time format (expected HH:MM): %q", ts)
		}
		if seen[ts] {
			return fmt.Errorf("duplicate time: %q", ts)
		}
		seen[ts] = true
	}
	return m.Days.Validate()
}

// ParsedTimes parses the medication's times-of-day, silently skipping
// malformed entries. A single bad entry must not sink the whole medication.
func (m *Medication) ParsedTimes() []time.Time {
	var out []time.Time
	for _, ts := range m.Times {
		t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(ts))
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TimesCSV returns the comma-joined persisted form of Times.
func (m *Medication) TimesCSV() string {
	return strings.Join(m.Times, ",")
}

// SplitTimesCSV parses the persisted comma-joined times column. Empty parts
// are dropped; malformed parts are kept verbatim so that expansion can skip
// them per entry rather than losing them at load time.
func SplitTimesCSV(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
