package service

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"community-calendar/core/constants"
	"community-calendar/core/errors"
	"community-calendar/modules/event/dto"
)

const dateLayout = "2006-01-02"

var timePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(value), time.Local)
}

func combineDateTime(date time.Time, hhmm string) (time.Time, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, time.Local), nil
}

// validatedEvent carries the parsed fields of a create/update payload so the
// service does not re-parse the raw strings.
type validatedEvent struct {
	Title             string
	EventDate         time.Time
	StartTime         string
	EndTime           *string
	EndDate           *time.Time
	Location          string
	Description       *string
	Link              *string
	IsAllDay          bool
	IsRecurring       bool
	Frequency         Frequency
	RecurrenceEndDate time.Time
}

func validateEventPayload(req *dto.CreateEventRequest) (*validatedEvent, *errors.AppError) {
	v := &validatedEvent{
		Title:    strings.TrimSpace(req.Title),
		Location: strings.TrimSpace(req.Location),
		IsAllDay: req.IsAllDay,
	}

	if v.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	if len(v.Title) > constants.TitleMaxLength {
		return nil, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("Title must be %d characters or fewer", constants.TitleMaxLength), nil)
	}
	if v.Location == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Location is required", nil)
	}
	if len(v.Location) > constants.LocationMaxLength {
		return nil, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("Location must be %d characters or fewer", constants.LocationMaxLength), nil)
	}

	if desc := strings.TrimSpace(req.Description); desc != "" {
		if len(desc) > constants.DescriptionMaxLength {
			return nil, errors.NewAppError(errors.ErrInvalidInput,
				fmt.Sprintf("Description must be %d characters or fewer", constants.DescriptionMaxLength), nil)
		}
		v.Description = &desc
	}

	if link := strings.TrimSpace(req.Link); link != "" {
		u, err := url.Parse(link)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Link must be a valid http or https URL", err)
		}
		v.Link = &link
	}

	eventDate, err := parseDate(req.EventDate)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Event date must be in YYYY-MM-DD format", err)
	}
	v.EventDate = eventDate

	if v.IsAllDay {
		v.StartTime = "00:00"
	} else {
		start := strings.TrimSpace(req.StartTime)
		if !timePattern.MatchString(start) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Start time must be in HH:MM format", nil)
		}
		v.StartTime = start

		if end := strings.TrimSpace(req.EndTime); end != "" {
			if !timePattern.MatchString(end) {
				return nil, errors.NewAppError(errors.ErrInvalidInput, "End time must be in HH:MM format", nil)
			}
			v.EndTime = &end
		}
	}

	if endDateRaw := strings.TrimSpace(req.EndDate); endDateRaw != "" {
		endDate, err := parseDate(endDateRaw)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "End date must be in YYYY-MM-DD format", err)
		}
		if endDate.Before(v.EventDate) {
			return nil, errors.NewAppErrorWithSuggestion(errors.ErrInvalidInput,
				"End date cannot be before the event date",
				"Check that the end date falls on or after the start date")
		}
		v.EndDate = &endDate
	}

	// Same-day events must end after they start.
	if v.EndTime != nil && v.EndDate == nil {
		start, _ := combineDateTime(v.EventDate, v.StartTime)
		end, _ := combineDateTime(v.EventDate, *v.EndTime)
		if !end.After(start) {
			return nil, errors.NewAppErrorWithSuggestion(errors.ErrInvalidInput,
				"End time must be after start time",
				"For events crossing midnight, set an end date on the following day")
		}
	}

	if req.IsRecurring {
		freq, ok := ParseFrequency(req.RecurrenceType)
		if !ok {
			return nil, errors.NewAppError(errors.ErrInvalidInput,
				"Recurrence type must be one of daily, weekly, biweekly, monthly", nil)
		}
		recEnd, err := parseDate(req.RecurrenceEndDate)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Recurrence end date must be in YYYY-MM-DD format", err)
		}
		if !recEnd.After(v.EventDate) {
			return nil, errors.NewAppErrorWithSuggestion(errors.ErrInvalidInput,
				"Recurrence end date must be after the event date",
				"Pick a recurrence end date at least one period after the first occurrence")
		}
		v.IsRecurring = true
		v.Frequency = freq
		v.RecurrenceEndDate = recEnd
	}

	return v, nil
}

// startsInPast reports whether the event's first occurrence is already behind
// the given instant. All-day events count as starting at midnight.
func startsInPast(eventDate time.Time, startTime string, now time.Time) bool {
	start, err := combineDateTime(eventDate, startTime)
	if err != nil {
		return false
	}
	return start.Before(now)
}
