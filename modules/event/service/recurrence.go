package service

import (
	"strings"
	"time"

	"community-calendar/core/constants"
)

// Frequency is a recurrence step size.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// ParseFrequency maps a request's recurrence_type to a Frequency.
func ParseFrequency(s string) (Frequency, bool) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case FrequencyDaily:
		return FrequencyDaily, true
	case FrequencyWeekly:
		return FrequencyWeekly, true
	case FrequencyBiweekly:
		return FrequencyBiweekly, true
	case FrequencyMonthly:
		return FrequencyMonthly, true
	}
	return "", false
}

// RRule returns the stored recurrence rule for a frequency, or "" for an
// unrecognized one.
func (f Frequency) RRule() string {
	switch f {
	case FrequencyDaily:
		return "FREQ=DAILY"
	case FrequencyWeekly:
		return "FREQ=WEEKLY"
	case FrequencyBiweekly:
		return "FREQ=WEEKLY;INTERVAL=2"
	case FrequencyMonthly:
		return "FREQ=MONTHLY"
	}
	return ""
}

// FrequencyFromRule inverts RRule for rules read back from storage or from
// imported calendars.
func FrequencyFromRule(rule string) (Frequency, bool) {
	switch {
	case strings.Contains(rule, "WEEKLY;INTERVAL=2"):
		return FrequencyBiweekly, true
	case strings.Contains(rule, "WEEKLY"):
		return FrequencyWeekly, true
	case strings.Contains(rule, "DAILY"):
		return FrequencyDaily, true
	case strings.Contains(rule, "MONTHLY"):
		return FrequencyMonthly, true
	}
	return "", false
}

// ExpandDates produces the ordered occurrence dates of a series: the start
// date first, then every step that still falls on or before end, capped at
// maxOccurrences.
//
// Monthly advancement uses time.AddDate(0, 1, 0), which normalizes overflow
// (Jan 31 + 1 month = Mar 2 or Mar 3). Each step advances from the previous
// occurrence, so the sequence is strictly increasing and fully determined by
// its inputs.
//
// An unrecognized frequency returns just the start date; callers treat that
// as a non-recurring event rather than an error.
func ExpandDates(start, end time.Time, freq Frequency, maxOccurrences int) []time.Time {
	if maxOccurrences <= 0 {
		maxOccurrences = constants.MaxOccurrences
	}

	dates := []time.Time{start}
	current := start

	for len(dates) < maxOccurrences {
		switch freq {
		case FrequencyDaily:
			current = current.AddDate(0, 0, 1)
		case FrequencyWeekly:
			current = current.AddDate(0, 0, 7)
		case FrequencyBiweekly:
			current = current.AddDate(0, 0, 14)
		case FrequencyMonthly:
			current = current.AddDate(0, 1, 0)
		default:
			return dates
		}

		if current.After(end) {
			break
		}
		dates = append(dates, current)
	}

	return dates
}
