package service

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical daily slot boundaries: twelve 45-minute slots starting at 08:00.
// The index+1 is the period ordinal.
var slotStarts = []string{
	"08:00",
	"08:45",
	"09:30",
	"10:15",
	"11:00",
	"11:45",
	"12:30",
	"13:15",
	"14:00",
	"14:45",
	"15:30",
	"16:15",
}

// PeriodNumberFor maps a start time to its ordinal slot number (1..12).
// Start times off the canonical grid map to 1; irregular slots keep the
// historical label rather than failing.
func PeriodNumberFor(startTime string) int {
	normalized := normalizeClock(startTime)
	for i, slot := range slotStarts {
		if slot == normalized {
			return i + 1
		}
	}
	return 1
}

// Overlaps reports whether two half-open [start, end) ranges intersect.
// Adjacent ranges (a ends exactly when b starts) do not overlap; identical
// ranges always do.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// MinuteOfDay parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
func MinuteOfDay(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour*60 + minute, nil
}

// normalizeClock trims seconds and zero-pads so "8:00:00" and "08:00" compare
// equal against the slot table.
func normalizeClock(value string) string {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 {
		return strings.TrimSpace(value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return strings.TrimSpace(value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return strings.TrimSpace(value)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
