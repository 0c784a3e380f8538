package entity

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single calendar entry. A recurring series is stored as one root
// row (ParentEventID nil, IsRecurring true) plus one row per later occurrence
// pointing back at the root.
type Event struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Title string    `db:"title" json:"title"`

	EventDate time.Time  `db:"event_date" json:"event_date"`
	StartTime string     `db:"start_time" json:"start_time"`
	EndTime   *string    `db:"end_time" json:"end_time,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`

	Location    string  `db:"location" json:"location"`
	Description *string `db:"description" json:"description,omitempty"`
	Link        *string `db:"link" json:"link,omitempty"`
	IsAllDay    bool    `db:"is_all_day" json:"is_all_day"`

	IsRecurring       bool       `db:"is_recurring" json:"is_recurring"`
	RecurrenceRule    *string    `db:"recurrence_rule" json:"recurrence_rule,omitempty"`
	RecurrenceEndDate *time.Time `db:"recurrence_end_date" json:"recurrence_end_date,omitempty"`
	ParentEventID     *uuid.UUID `db:"parent_event_id" json:"parent_event_id,omitempty"`

	// Color groups a series visually; every member shares the root's color.
	Color string `db:"color" json:"color"`

	CreatedBy   uuid.UUID `db:"created_by" json:"created_by"`
	CreatorName string    `db:"creator_name" json:"creator_name"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsSeriesRoot reports whether this row is the first occurrence of a
// recurring series.
func (e *Event) IsSeriesRoot() bool {
	return e.IsRecurring && e.ParentEventID == nil
}

// IsChild reports whether this row was generated from a series root.
func (e *Event) IsChild() bool {
	return e.ParentEventID != nil
}
