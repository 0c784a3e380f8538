package dto

import (
	"time"

	"community-calendar/modules/event/entity"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// CreateEventRequest is the body of POST /events.
type CreateEventRequest struct {
	Title             string `json:"title"`
	EventDate         string `json:"event_date"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time,omitempty"`
	EndDate           string `json:"end_date,omitempty"`
	Location          string `json:"location"`
	Description       string `json:"description,omitempty"`
	Link              string `json:"link,omitempty"`
	IsAllDay          bool   `json:"is_all_day,omitempty"`
	IsRecurring       bool   `json:"is_recurring,omitempty"`
	RecurrenceType    string `json:"recurrence_type,omitempty"`
	RecurrenceEndDate string `json:"recurrence_end_date,omitempty"`
}

// UpdateEventRequest is the body of PUT /events/:id. Same shape as create;
// the recurrence fields drive the series transitions.
type UpdateEventRequest = CreateEventRequest

// EventResponse is the JSON shape events are served in.
type EventResponse struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	EventDate         string     `json:"event_date"`
	StartTime         string     `json:"start_time"`
	EndTime           *string    `json:"end_time,omitempty"`
	EndDate           *string    `json:"end_date,omitempty"`
	Location          string     `json:"location"`
	Description       *string    `json:"description,omitempty"`
	Link              *string    `json:"link,omitempty"`
	IsAllDay          bool       `json:"is_all_day"`
	IsRecurring       bool       `json:"is_recurring"`
	RecurrenceRule    *string    `json:"recurrence_rule,omitempty"`
	RecurrenceEndDate *string    `json:"recurrence_end_date,omitempty"`
	ParentEventID     *uuid.UUID `json:"parent_event_id,omitempty"`
	Color             string     `json:"color"`
	CreatedBy         uuid.UUID  `json:"created_by"`
	CreatorName       string     `json:"creator_name"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func ToEventResponse(e *entity.Event) *EventResponse {
	resp := &EventResponse{
		ID:            e.ID,
		Title:         e.Title,
		EventDate:     e.EventDate.Format(dateLayout),
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		Location:      e.Location,
		Description:   e.Description,
		Link:          e.Link,
		IsAllDay:      e.IsAllDay,
		IsRecurring:   e.IsRecurring,
		ParentEventID: e.ParentEventID,
		Color:         e.Color,
		CreatedBy:     e.CreatedBy,
		CreatorName:   e.CreatorName,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.EndDate != nil {
		s := e.EndDate.Format(dateLayout)
		resp.EndDate = &s
	}
	if e.RecurrenceRule != nil {
		resp.RecurrenceRule = e.RecurrenceRule
	}
	if e.RecurrenceEndDate != nil {
		s := e.RecurrenceEndDate.Format(dateLayout)
		resp.RecurrenceEndDate = &s
	}
	return resp
}

func ToEventResponses(events []entity.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, *ToEventResponse(&events[i]))
	}
	return out
}

// DeleteEventResponse is returned by DELETE /events/:id. When the target is a
// series root with children and no force flag was sent, HasChildren is true
// and nothing was deleted.
type DeleteEventResponse struct {
	Message     string `json:"message"`
	HasChildren bool   `json:"hasChildren,omitempty"`
	ChildCount  int    `json:"childCount,omitempty"`
}

// DeleteSeriesResponse is returned by DELETE /events/:id/series.
type DeleteSeriesResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deletedCount"`
}

// ImportedEventInfo identifies one successfully imported event.
type ImportedEventInfo struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// ImportDetails lists per-item outcomes of an ICS upload.
type ImportDetails struct {
	ImportedEvents  []ImportedEventInfo `json:"imported_events"`
	DuplicateEvents []string            `json:"duplicate_events"`
	ErrorEvents     []string            `json:"error_events"`
}

// ImportSummary is returned by POST /events/upload-ics.
type ImportSummary struct {
	Message    string        `json:"message"`
	Imported   int           `json:"imported"`
	Duplicates int           `json:"duplicates"`
	Errors     int           `json:"errors"`
	Details    ImportDetails `json:"details"`
}
