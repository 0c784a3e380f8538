package repository

import (
	"context"
	"database/sql"
	"time"

	"community-calendar/core/database"
	"community-calendar/core/logger"
	"community-calendar/modules/event/entity"

	"github.com/google/uuid"
)

const eventColumns = `id, title, event_date, start_time, end_time, end_date, location, description,
	       link, is_all_day, is_recurring, recurrence_rule, recurrence_end_date,
	       parent_event_id, color, created_by, creator_name, created_at, updated_at`

// EventRepository handles event database operations
type EventRepository struct {
	DB database.IDatabase
}

// NewEventRepository creates a new repository instance
func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	ListEvents(ctx context.Context) ([]entity.Event, error)
	ListEventsBetween(ctx context.Context, start, end time.Time) ([]entity.Event, error)
	UpdateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	DeleteChildren(ctx context.Context, parentID uuid.UUID) error
	DetachChildren(ctx context.Context, parentID uuid.UUID) error
	DeleteSeries(ctx context.Context, rootID uuid.UUID) (int64, error)
	CountChildren(ctx context.Context, parentID uuid.UUID) (int, error)
	HasDuplicate(ctx context.Context, title string, eventDate time.Time, startTime, location string) (bool, error)
}

func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (title, event_date, start_time, end_time, end_date, location, description,
		                    link, is_all_day, is_recurring, recurrence_rule, recurrence_end_date,
		                    parent_event_id, color, created_by, creator_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + eventColumns

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.Title, event.EventDate, event.StartTime, event.EndTime, event.EndDate,
		event.Location, event.Description, event.Link, event.IsAllDay,
		event.IsRecurring, event.RecurrenceRule, event.RecurrenceEndDate,
		event.ParentEventID, event.Color, event.CreatedBy, event.CreatorName)
	if err != nil {
		logger.Error("EventRepository:CreateEvent", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY event_date ASC, start_time ASC`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query)
	if err != nil {
		logger.Error("EventRepository:ListEvents", err)
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) ListEventsBetween(ctx context.Context, start, end time.Time) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE event_date >= $1 AND event_date <= $2
		ORDER BY event_date ASC, start_time ASC`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, start, end)
	if err != nil {
		logger.Error("EventRepository:ListEventsBetween", err)
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		UPDATE events
		SET title = $2, event_date = $3, start_time = $4, end_time = $5, end_date = $6,
		    location = $7, description = $8, link = $9, is_all_day = $10,
		    is_recurring = $11, recurrence_rule = $12, recurrence_end_date = $13,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns

	var updated entity.Event
	err := r.DB.GetContext(ctx, &updated, query,
		event.ID, event.Title, event.EventDate, event.StartTime, event.EndTime, event.EndDate,
		event.Location, event.Description, event.Link, event.IsAllDay,
		event.IsRecurring, event.RecurrenceRule, event.RecurrenceEndDate)
	if err != nil {
		logger.Error("EventRepository:UpdateEvent", err)
		return nil, err
	}

	return &updated, nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("EventRepository:DeleteEvent", err)
		return err
	}
	return nil
}

func (r *EventRepository) DeleteChildren(ctx context.Context, parentID uuid.UUID) error {
	query := `DELETE FROM events WHERE parent_event_id = $1`
	if err := r.DB.ExecContext(ctx, query, parentID); err != nil {
		logger.Error("EventRepository:DeleteChildren", err)
		return err
	}
	return nil
}

// DetachChildren severs children from their root so the root can be deleted
// alone (force-single deletion). Recurrence fields are cleared as well, so
// each detached row survives as a standalone one-off event rather than a
// childless series root.
func (r *EventRepository) DetachChildren(ctx context.Context, parentID uuid.UUID) error {
	query := `
		UPDATE events
		SET parent_event_id = NULL,
			is_recurring = FALSE,
			recurrence_rule = NULL,
			recurrence_end_date = NULL
		WHERE parent_event_id = $1`
	if err := r.DB.ExecContext(ctx, query, parentID); err != nil {
		logger.Error("EventRepository:DetachChildren", err)
		return err
	}
	return nil
}

// DeleteSeries removes the root and every child in one statement, so the
// series is deleted atomically or not at all.
func (r *EventRepository) DeleteSeries(ctx context.Context, rootID uuid.UUID) (int64, error) {
	query := `DELETE FROM events WHERE id = $1 OR parent_event_id = $1`
	res, err := r.DB.ExecResultContext(ctx, query, rootID)
	if err != nil {
		logger.Error("EventRepository:DeleteSeries", err)
		return 0, err
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		logger.Error("EventRepository:DeleteSeries:RowsAffected", err)
		return 0, err
	}
	return deleted, nil
}

func (r *EventRepository) CountChildren(ctx context.Context, parentID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM events WHERE parent_event_id = $1`

	var count int
	err := r.DB.GetContext(ctx, &count, query, parentID)
	if err != nil {
		logger.Error("EventRepository:CountChildren", err)
		return 0, err
	}
	return count, nil
}

// HasDuplicate reports whether an event with the same title, date, start time,
// and location already exists. Title and location match case-insensitively.
func (r *EventRepository) HasDuplicate(ctx context.Context, title string, eventDate time.Time, startTime, location string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM events
		WHERE LOWER(title) = LOWER($1)
		AND event_date = $2
		AND start_time = $3
		AND LOWER(location) = LOWER($4)`

	var count int
	err := r.DB.GetContext(ctx, &count, query, title, eventDate, startTime, location)
	if err != nil {
		logger.Error("EventRepository:HasDuplicate", err)
		return false, err
	}
	return count > 0, nil
}
