package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"community-calendar/core/cache"
	"community-calendar/core/constants"
	"community-calendar/core/errors"
	"community-calendar/core/logger"
	"community-calendar/core/middleware"
	"community-calendar/modules/event/dto"
	"community-calendar/modules/event/entity"
	"community-calendar/modules/event/repository"
	icssvc "community-calendar/modules/ics/service"

	"github.com/google/uuid"
)

const (
	eventListCacheKey = "events:all"
	eventListCacheTTL = 60 * time.Second
)

type EventServiceInterface interface {
	ListEvents(ctx context.Context) ([]dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest, user *middleware.AuthenticatedUser) (*dto.EventResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, id uuid.UUID, req *dto.UpdateEventRequest, userID uuid.UUID) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, id, userID uuid.UUID, forceSingle bool) (*dto.DeleteEventResponse, *errors.AppError)
	DeleteSeries(ctx context.Context, id, userID uuid.UUID) (*dto.DeleteSeriesResponse, *errors.AppError)
	ImportICS(ctx context.Context, data []byte, user *middleware.AuthenticatedUser) (*dto.ImportSummary, *errors.AppError)
}

type EventService struct {
	repo   repository.EventRepositoryInterface
	cache  cache.Cache
	colors *ColorPicker
	codec  *icssvc.Codec
	now    func() time.Time
}

func NewEventService(repo repository.EventRepositoryInterface, cacheClient cache.Cache) *EventService {
	return &EventService{
		repo:   repo,
		cache:  cacheClient,
		colors: NewColorPicker(),
		codec:  icssvc.NewCodec(),
		now:    time.Now,
	}
}

func (s *EventService) ListEvents(ctx context.Context) ([]dto.EventResponse, *errors.AppError) {
	if cached, ok := s.cache.Get(ctx, eventListCacheKey); ok {
		var out []dto.EventResponse
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return out, nil
		}
		s.cache.Delete(ctx, eventListCacheKey)
	}

	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		logger.Error("EventService:ListEvents", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}

	out := dto.ToEventResponses(events)
	if raw, err := json.Marshal(out); err == nil {
		s.cache.Set(ctx, eventListCacheKey, string(raw), eventListCacheTTL)
	}
	return out, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		logger.Error("EventService:GetEvent", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return dto.ToEventResponse(event), nil
}

func (s *EventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest, user *middleware.AuthenticatedUser) (*dto.EventResponse, *errors.AppError) {
	v, appErr := validateEventPayload(req)
	if appErr != nil {
		return nil, appErr
	}

	dup, err := s.repo.HasDuplicate(ctx, v.Title, v.EventDate, v.StartTime, v.Location)
	if err != nil {
		logger.Error("EventService:CreateEvent:Duplicate", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check for duplicates", err)
	}
	if dup {
		return nil, errors.NewAppErrorWithSuggestion(errors.ErrAlreadyExists,
			"An event with the same title, date, time and location already exists",
			"Change the title or time if this is a different event")
	}

	root := s.buildRoot(v, user)
	created, err := s.repo.CreateEvent(ctx, root)
	if err != nil {
		logger.Error("EventService:CreateEvent", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event", err)
	}

	if v.IsRecurring {
		batch := s.materializeChildren(ctx, created, v)
		if batch.Failed > 0 {
			logger.Warn("EventService:CreateEvent:PartialSeries",
				"event_id", created.ID, "succeeded", batch.Succeeded, "failed", batch.Failed)
		}
	}

	s.cache.Delete(ctx, eventListCacheKey)
	return dto.ToEventResponse(created), nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id uuid.UUID, req *dto.UpdateEventRequest, userID uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	existing, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		logger.Error("EventService:UpdateEvent:Load", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if existing == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if existing.CreatedBy != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "You can only edit your own events", nil)
	}

	v, appErr := validateEventPayload(req)
	if appErr != nil {
		return nil, appErr
	}

	now := s.now()
	if startsInPast(existing.EventDate, existing.StartTime, now) {
		return nil, errors.NewAppErrorWithSuggestion(errors.ErrPastEvent,
			"Events that have already started cannot be edited",
			"Create a new event instead of editing a past one")
	}
	if startsInPast(v.EventDate, v.StartTime, now) {
		return nil, errors.NewAppErrorWithSuggestion(errors.ErrPastEvent,
			"Events cannot be moved into the past",
			"Pick a start on or after the current time")
	}

	childCount := 0
	if existing.ParentEventID == nil {
		childCount, err = s.repo.CountChildren(ctx, existing.ID)
		if err != nil {
			logger.Error("EventService:UpdateEvent:CountChildren", err)
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to inspect series", err)
		}
	}
	state := ClassifySeries(existing, childCount)

	updated := s.applyUpdate(existing, v)
	saved, err := s.repo.UpdateEvent(ctx, updated)
	if err != nil {
		logger.Error("EventService:UpdateEvent:Save", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update event", err)
	}

	// Series transitions only apply when editing a root. Editing a child
	// touches that one row and leaves its siblings alone.
	if state != SeriesChild {
		switch {
		case !v.IsRecurring && state == SeriesRootWithChildren:
			// Root turned into a one-off: the generated occurrences go away.
			if err := s.repo.DeleteChildren(ctx, saved.ID); err != nil {
				logger.Error("EventService:UpdateEvent:DeleteChildren", err)
				return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to remove series occurrences", err)
			}
		case v.IsRecurring:
			// Recurrence added or changed: regenerate from scratch so the
			// children always match the root's current schedule.
			if state == SeriesRootWithChildren {
				if err := s.repo.DeleteChildren(ctx, saved.ID); err != nil {
					logger.Error("EventService:UpdateEvent:DeleteChildren", err)
					return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to remove series occurrences", err)
				}
			}
			batch := s.materializeChildren(ctx, saved, v)
			if batch.Failed > 0 {
				logger.Warn("EventService:UpdateEvent:PartialSeries",
					"event_id", saved.ID, "succeeded", batch.Succeeded, "failed", batch.Failed)
			}
		}
	}

	s.cache.Delete(ctx, eventListCacheKey)
	return dto.ToEventResponse(saved), nil
}

// DeleteEvent removes a single event. Deleting a series root with children is
// a two-phase operation: without the force flag nothing is deleted and the
// response reports the child count so the caller can confirm; with it, the
// children are detached to standalone events and only the root is removed.
func (s *EventService) DeleteEvent(ctx context.Context, id, userID uuid.UUID, forceSingle bool) (*dto.DeleteEventResponse, *errors.AppError) {
	existing, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		logger.Error("EventService:DeleteEvent:Load", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if existing == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if existing.CreatedBy != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "You can only delete your own events", nil)
	}

	childCount := 0
	if existing.ParentEventID == nil {
		childCount, err = s.repo.CountChildren(ctx, existing.ID)
		if err != nil {
			logger.Error("EventService:DeleteEvent:CountChildren", err)
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to inspect series", err)
		}
	}

	if ClassifySeries(existing, childCount) == SeriesRootWithChildren {
		if !forceSingle {
			return &dto.DeleteEventResponse{
				Message:     "This event has recurring occurrences. Delete the whole series or confirm deleting just this one.",
				HasChildren: true,
				ChildCount:  childCount,
			}, nil
		}
		if err := s.repo.DetachChildren(ctx, existing.ID); err != nil {
			logger.Error("EventService:DeleteEvent:DetachChildren", err)
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to detach series occurrences", err)
		}
	}

	if err := s.repo.DeleteEvent(ctx, existing.ID); err != nil {
		logger.Error("EventService:DeleteEvent", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to delete event", err)
	}

	s.cache.Delete(ctx, eventListCacheKey)
	return &dto.DeleteEventResponse{Message: "Event deleted"}, nil
}

// DeleteSeries removes a whole recurring series in one statement, resolving
// to the root first when the given id is a child occurrence.
func (s *EventService) DeleteSeries(ctx context.Context, id, userID uuid.UUID) (*dto.DeleteSeriesResponse, *errors.AppError) {
	existing, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		logger.Error("EventService:DeleteSeries:Load", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if existing == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if existing.CreatedBy != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "You can only delete your own events", nil)
	}

	rootID := existing.ID
	if existing.ParentEventID != nil {
		rootID = *existing.ParentEventID
	}

	deleted, err := s.repo.DeleteSeries(ctx, rootID)
	if err != nil {
		logger.Error("EventService:DeleteSeries", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to delete series", err)
	}

	s.cache.Delete(ctx, eventListCacheKey)
	return &dto.DeleteSeriesResponse{
		Message:      "Series deleted",
		DeletedCount: int(deleted),
	}, nil
}

func (s *EventService) ImportICS(ctx context.Context, data []byte, user *middleware.AuthenticatedUser) (*dto.ImportSummary, *errors.AppError) {
	parsed, err := s.codec.Parse(data)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid ICS file format", err)
	}
	if len(parsed.Candidates) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "No valid future events found in ICS file", nil)
	}

	now := s.now()
	summary := &dto.ImportSummary{
		Details: dto.ImportDetails{
			ImportedEvents:  []dto.ImportedEventInfo{},
			DuplicateEvents: []string{},
			ErrorEvents:     []string{},
		},
	}

	for i := range parsed.Candidates {
		cand := &parsed.Candidates[i]
		if startsInPast(cand.EventDate, cand.StartTime, now) && !cand.IsRecurring {
			continue
		}

		dup, err := s.repo.HasDuplicate(ctx, cand.Title, cand.EventDate, cand.StartTime, cand.Location)
		if err != nil {
			logger.Error("EventService:ImportICS:Duplicate", err)
			summary.Errors++
			summary.Details.ErrorEvents = append(summary.Details.ErrorEvents, cand.Title)
			continue
		}
		if dup {
			summary.Duplicates++
			summary.Details.DuplicateEvents = append(summary.Details.DuplicateEvents, cand.Title)
			continue
		}

		v := candidateToValidated(cand)
		root := s.buildRoot(v, user)
		created, err := s.repo.CreateEvent(ctx, root)
		if err != nil {
			logger.Error("EventService:ImportICS:Create", err)
			summary.Errors++
			summary.Details.ErrorEvents = append(summary.Details.ErrorEvents, cand.Title)
			continue
		}

		if v.IsRecurring {
			batch := s.materializeChildren(ctx, created, v)
			if batch.Failed > 0 {
				logger.Warn("EventService:ImportICS:PartialSeries",
					"event_id", created.ID, "failed", batch.Failed)
			}
		}

		summary.Imported++
		summary.Details.ImportedEvents = append(summary.Details.ImportedEvents, dto.ImportedEventInfo{
			Title: created.Title,
			Date:  created.EventDate.Format(dateLayout),
		})
	}

	summary.Message = fmt.Sprintf("Imported %d events (%d duplicates skipped, %d errors)",
		summary.Imported, summary.Duplicates, summary.Errors)
	s.cache.Delete(ctx, eventListCacheKey)
	return summary, nil
}

func (s *EventService) buildRoot(v *validatedEvent, user *middleware.AuthenticatedUser) *entity.Event {
	e := &entity.Event{
		ID:          uuid.New(),
		Title:       v.Title,
		EventDate:   v.EventDate,
		StartTime:   v.StartTime,
		EndTime:     v.EndTime,
		EndDate:     v.EndDate,
		Location:    v.Location,
		Description: v.Description,
		Link:        v.Link,
		IsAllDay:    v.IsAllDay,
		IsRecurring: v.IsRecurring,
		Color:       s.colors.Next(),
		CreatedBy:   user.ID,
		CreatorName: user.DisplayName,
	}
	if v.IsRecurring {
		rule := v.Frequency.RRule()
		e.RecurrenceRule = &rule
		recEnd := v.RecurrenceEndDate
		e.RecurrenceEndDate = &recEnd
	}
	return e
}

func (s *EventService) applyUpdate(existing *entity.Event, v *validatedEvent) *entity.Event {
	updated := *existing
	updated.Title = v.Title
	updated.EventDate = v.EventDate
	updated.StartTime = v.StartTime
	updated.EndTime = v.EndTime
	updated.EndDate = v.EndDate
	updated.Location = v.Location
	updated.Description = v.Description
	updated.Link = v.Link
	updated.IsAllDay = v.IsAllDay
	updated.IsRecurring = v.IsRecurring
	if v.IsRecurring {
		rule := v.Frequency.RRule()
		updated.RecurrenceRule = &rule
		recEnd := v.RecurrenceEndDate
		updated.RecurrenceEndDate = &recEnd
	} else {
		updated.RecurrenceRule = nil
		updated.RecurrenceEndDate = nil
	}
	return &updated
}

// materializeChildren inserts one row per occurrence after the root's date,
// each sharing the root's color and pointing back at it. Insert failures are
// collected instead of aborting so one bad row does not lose the series.
func (s *EventService) materializeChildren(ctx context.Context, root *entity.Event, v *validatedEvent) *BatchResult {
	batch := &BatchResult{}
	dates := ExpandDates(v.EventDate, v.RecurrenceEndDate, v.Frequency, constants.MaxOccurrences)

	for _, date := range dates[1:] {
		child := *root
		child.ID = uuid.New()
		child.EventDate = date
		parentID := root.ID
		child.ParentEventID = &parentID

		if root.EndDate != nil {
			shifted := root.EndDate.AddDate(0, 0, daysBetween(root.EventDate, date))
			child.EndDate = &shifted
		}

		if _, err := s.repo.CreateEvent(ctx, &child); err != nil {
			logger.Error("EventService:MaterializeChild", err)
			batch.failure(date.Format(dateLayout), err)
			continue
		}
		batch.success()
	}
	return batch
}

func candidateToValidated(c *icssvc.ImportCandidate) *validatedEvent {
	v := &validatedEvent{
		Title:       c.Title,
		EventDate:   c.EventDate,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		EndDate:     c.EndDate,
		Location:    c.Location,
		Description: c.Description,
	}
	if c.IsRecurring {
		if freq, ok := ParseFrequency(c.RecurrenceType); ok {
			v.IsRecurring = true
			v.Frequency = freq
			v.RecurrenceEndDate = c.RecurrenceEndDate
		}
	}
	return v
}

// daysBetween counts civil days from a to b. Both are normalized to UTC
// midnight first so a step across a DST transition still counts whole days.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
