package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"community-calendar/core/constants"
	"community-calendar/core/logger"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
)

// Codec translates between the events table shape and iCalendar text.
type Codec struct {
	// now is injectable so import tests can pin "today".
	now func() time.Time
}

func NewCodec() *Codec {
	return &Codec{now: time.Now}
}

// ImportCandidate is one parsed VEVENT normalized to the events table shape.
// Candidates are not persisted here; the event service applies duplicate
// suppression and materialization per candidate.
type ImportCandidate struct {
	Title       string
	EventDate   time.Time
	StartTime   string
	EndTime     *string
	EndDate     *time.Time
	Location    string
	Description *string

	IsRecurring       bool
	RecurrenceType    string
	RecurrenceEndDate time.Time
}

// ImportResult lists the candidates recovered from an uploaded calendar.
type ImportResult struct {
	Candidates []ImportCandidate
}

// Parse reads an uploaded .ics payload into import candidates.
//
// Per VEVENT: components without a summary or start are skipped; past
// non-recurring events are skipped; recurring events are collapsed to their
// next future occurrence with a synthesized 6-month recurrence window (the
// file's own recurrence end is not trusted). Only weekly rules get the
// explicit weekday search; other frequencies keep the original date when it
// is still in the future and are dropped otherwise.
func (c *Codec) Parse(data []byte) (*ImportResult, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid ICS file format: %w", err)
	}

	now := c.now()
	result := &ImportResult{}

	for _, ve := range cal.Events() {
		summary := propertyValue(ve, ical.ComponentPropertySummary)
		if strings.TrimSpace(summary) == "" {
			continue
		}

		start, err := ve.GetStartAt()
		if err != nil || start.IsZero() {
			continue
		}
		// Calendars serialize instants; the app stores local wall-clock
		// fields, so shift before splitting into date and time.
		start = start.In(time.Local)

		var end time.Time
		if e, err := ve.GetEndAt(); err == nil && !e.IsZero() {
			end = e.In(time.Local)
		}

		var candidate *ImportCandidate
		if rruleProp := ve.GetProperty(ical.ComponentPropertyRrule); rruleProp != nil {
			candidate = c.recurringCandidate(summary, start, end, rruleProp.Value, now)
		} else {
			candidate = singleCandidate(summary, start, end, now)
		}
		if candidate == nil {
			continue
		}

		candidate.Location = clip(orDefault(strings.TrimSpace(propertyValue(ve, ical.ComponentPropertyLocation)), "Location TBD"), constants.LocationMaxLength)
		if desc := strings.TrimSpace(propertyValue(ve, ical.ComponentPropertyDescription)); desc != "" {
			clipped := clip(desc, constants.DescriptionMaxLength)
			candidate.Description = &clipped
		}
		candidate.Title = clip(strings.TrimSpace(candidate.Title), constants.TitleMaxLength)

		result.Candidates = append(result.Candidates, *candidate)
	}

	return result, nil
}

func singleCandidate(summary string, start, end, now time.Time) *ImportCandidate {
	// Past one-off events are not worth importing.
	if start.Before(now) {
		return nil
	}

	c := &ImportCandidate{
		Title:     summary,
		EventDate: dateOnly(start),
		StartTime: start.Format("15:04"),
	}
	if !end.IsZero() {
		t := end.Format("15:04")
		c.EndTime = &t
		if !sameDate(start, end) {
			d := dateOnly(end)
			c.EndDate = &d
		}
	}
	return c
}

func (c *Codec) recurringCandidate(summary string, start, end time.Time, rawRule string, now time.Time) *ImportCandidate {
	ropt, err := rrule.StrToROption(rawRule)
	if err != nil {
		logger.Warn("ICSCodec:Parse:BadRRule", "summary", summary, "rrule", rawRule, "error", err)
		return nil
	}

	next := nextOccurrence(start, ropt, now)
	if next.IsZero() {
		return nil
	}

	candidate := &ImportCandidate{
		Title:             summary,
		EventDate:         dateOnly(next),
		StartTime:         next.Format("15:04"),
		IsRecurring:       true,
		RecurrenceType:    recurrenceType(ropt),
		RecurrenceEndDate: dateOnly(next.AddDate(0, 6, 0)),
	}

	// Preserve the original start→end duration across the shift.
	if !end.IsZero() && end.After(start) {
		nextEnd := next.Add(end.Sub(start))
		t := nextEnd.Format("15:04")
		candidate.EndTime = &t
		if !sameDate(next, nextEnd) {
			d := dateOnly(nextEnd)
			candidate.EndDate = &d
		}
	}

	return candidate
}

// nextOccurrence finds the first occurrence on or after today. Weekly rules
// search the next 14 days for a weekday in the rule's BYDAY set (falling back
// to the original start's weekday), keeping the original time-of-day. Other
// frequencies keep the original start when it is still in the future and
// return zero otherwise — a known limitation carried over deliberately.
func nextOccurrence(start time.Time, ropt *rrule.ROption, now time.Time) time.Time {
	if ropt.Freq != rrule.WEEKLY {
		if start.After(now) {
			return start
		}
		return time.Time{}
	}

	targetDays := make(map[time.Weekday]bool)
	for _, wd := range ropt.Byweekday {
		// rrule weekdays are Monday-based; time.Weekday is Sunday-based.
		targetDays[time.Weekday((wd.Day()+1)%7)] = true
	}
	if len(targetDays) == 0 {
		targetDays[start.Weekday()] = true
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < 14; i++ {
		d := day.AddDate(0, 0, i)
		if !targetDays[d.Weekday()] {
			continue
		}
		occurrence := time.Date(d.Year(), d.Month(), d.Day(),
			start.Hour(), start.Minute(), start.Second(), 0, now.Location())
		if occurrence.After(now) {
			return occurrence
		}
	}

	return time.Time{}
}

func recurrenceType(ropt *rrule.ROption) string {
	switch ropt.Freq {
	case rrule.DAILY:
		return "daily"
	case rrule.WEEKLY:
		if ropt.Interval == 2 {
			return "biweekly"
		}
		return "weekly"
	case rrule.MONTHLY:
		return "monthly"
	default:
		return "weekly"
	}
}

func propertyValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// clip truncates s to at most max bytes, backing off to the previous rune
// boundary so a multibyte character is never cut in half.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
