package service

import (
	"fmt"
	"strings"
	"time"

	"community-calendar/modules/event/entity"

	ical "github.com/arran4/golang-ical"
	"github.com/gosimple/slug"
)

const (
	productID  = "-//Community Calendar//Event Export//EN"
	uidDomain  = "community-calendar"
	dateLayout = "2006-01-02"
)

// Generate renders one or more events as a single VCALENDAR. Export is
// all-or-nothing: if any event fails to encode, no calendar text is returned.
func (c *Codec) Generate(events []entity.Event) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for i := range events {
		if err := addVEvent(cal, &events[i]); err != nil {
			return "", fmt.Errorf("encode event %s: %w", events[i].ID, err)
		}
	}

	return cal.Serialize(), nil
}

// GenerateSingle is Generate for one event.
func (c *Codec) GenerateSingle(event *entity.Event) (string, error) {
	return c.Generate([]entity.Event{*event})
}

func addVEvent(cal *ical.Calendar, e *entity.Event) error {
	start, err := combineDateTime(e.EventDate, e.StartTime)
	if err != nil {
		return err
	}

	// Missing end pieces fall back to the start side: same-day when end_date
	// is absent, zero duration when end_time is absent.
	endDate := e.EventDate
	if e.EndDate != nil {
		endDate = *e.EndDate
	}
	endTime := e.StartTime
	if e.EndTime != nil {
		endTime = *e.EndTime
	}
	end, err := combineDateTime(endDate, endTime)
	if err != nil {
		return err
	}

	ve := cal.AddEvent(fmt.Sprintf("%s@%s", e.ID, uidDomain))
	ve.SetSummary(e.Title)
	ve.SetLocation(e.Location)
	if e.Description != nil && *e.Description != "" {
		ve.SetDescription(*e.Description)
	}
	if e.CreatorName != "" {
		ve.SetOrganizer(e.CreatorName)
	}
	ve.SetStatus(ical.ObjectStatusConfirmed)

	if e.IsAllDay {
		ve.SetAllDayStartAt(e.EventDate)
		ve.SetAllDayEndAt(endDate)
	} else {
		ve.SetStartAt(start)
		ve.SetEndAt(end)
	}

	if e.IsRecurring && e.RecurrenceRule != nil && e.RecurrenceEndDate != nil {
		ve.AddRrule(rruleWithUntil(*e.RecurrenceRule, *e.RecurrenceEndDate))
	}

	return nil
}

// rruleWithUntil appends the series end as UNTIL=YYYYMMDDT235959Z, replacing
// any UNTIL already present in the stored rule.
func rruleWithUntil(rule string, recurrenceEnd time.Time) string {
	parts := make([]string, 0, 3)
	for _, p := range strings.Split(rule, ";") {
		if p == "" || strings.HasPrefix(strings.ToUpper(p), "UNTIL=") {
			continue
		}
		parts = append(parts, p)
	}
	parts = append(parts, fmt.Sprintf("UNTIL=%sT235959Z", recurrenceEnd.Format("20060102")))
	return strings.Join(parts, ";")
}

func combineDateTime(date time.Time, hhmm string) (time.Time, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid time %q", hhmm)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.Local), nil
}

// AttachmentFilename builds a safe Content-Disposition filename from an
// event title.
func AttachmentFilename(title string) string {
	s := slug.Make(title)
	if len(s) > 50 {
		s = s[:50]
	}
	if s == "" {
		s = "event"
	}
	return s + ".ics"
}
