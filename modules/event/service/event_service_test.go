package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"community-calendar/core/cache"
	"community-calendar/core/errors"
	"community-calendar/core/middleware"
	"community-calendar/modules/event/dto"
	"community-calendar/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepository is an in-memory stand-in for the Postgres repository.
type fakeEventRepository struct {
	events map[uuid.UUID]*entity.Event
	// insert calls for these event dates fail, to exercise partial batches
	failDates map[string]bool
}

func newFakeEventRepository() *fakeEventRepository {
	return &fakeEventRepository{
		events:    make(map[uuid.UUID]*entity.Event),
		failDates: make(map[string]bool),
	}
}

func (f *fakeEventRepository) CreateEvent(_ context.Context, event *entity.Event) (*entity.Event, error) {
	if f.failDates[event.EventDate.Format("2006-01-02")] {
		return nil, fmt.Errorf("insert failed")
	}
	stored := *event
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.events[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeEventRepository) GetEventByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventRepository) ListEvents(_ context.Context) ([]entity.Event, error) {
	out := make([]entity.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEventRepository) ListEventsBetween(_ context.Context, start, end time.Time) ([]entity.Event, error) {
	var out []entity.Event
	for _, e := range f.events {
		if !e.EventDate.Before(start) && !e.EventDate.After(end) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepository) UpdateEvent(_ context.Context, event *entity.Event) (*entity.Event, error) {
	existing, ok := f.events[event.ID]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	updated := *event
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	f.events[updated.ID] = &updated
	copied := updated
	return &copied, nil
}

func (f *fakeEventRepository) DeleteEvent(_ context.Context, id uuid.UUID) error {
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepository) DeleteChildren(_ context.Context, parentID uuid.UUID) error {
	for id, e := range f.events {
		if e.ParentEventID != nil && *e.ParentEventID == parentID {
			delete(f.events, id)
		}
	}
	return nil
}

func (f *fakeEventRepository) DetachChildren(_ context.Context, parentID uuid.UUID) error {
	for _, e := range f.events {
		if e.ParentEventID != nil && *e.ParentEventID == parentID {
			e.ParentEventID = nil
			e.IsRecurring = false
			e.RecurrenceRule = nil
			e.RecurrenceEndDate = nil
		}
	}
	return nil
}

func (f *fakeEventRepository) DeleteSeries(_ context.Context, rootID uuid.UUID) (int64, error) {
	var deleted int64
	for id, e := range f.events {
		if id == rootID || (e.ParentEventID != nil && *e.ParentEventID == rootID) {
			delete(f.events, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeEventRepository) CountChildren(_ context.Context, parentID uuid.UUID) (int, error) {
	count := 0
	for _, e := range f.events {
		if e.ParentEventID != nil && *e.ParentEventID == parentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeEventRepository) HasDuplicate(_ context.Context, title string, eventDate time.Time, startTime, location string) (bool, error) {
	for _, e := range f.events {
		if strings.EqualFold(e.Title, title) &&
			e.EventDate.Equal(eventDate) &&
			e.StartTime == startTime &&
			strings.EqualFold(e.Location, location) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEventRepository) childrenOf(parentID uuid.UUID) []*entity.Event {
	var out []*entity.Event
	for _, e := range f.events {
		if e.ParentEventID != nil && *e.ParentEventID == parentID {
			out = append(out, e)
		}
	}
	return out
}

var testNow = time.Date(2030, time.January, 1, 12, 0, 0, 0, time.Local)

func newTestService(repo *fakeEventRepository) *EventService {
	svc := NewEventService(repo, cache.NewNoopCache())
	svc.now = func() time.Time { return testNow }
	return svc
}

func testUser() *middleware.AuthenticatedUser {
	return &middleware.AuthenticatedUser{
		ID:          uuid.New(),
		Email:       "organizer@example.com",
		DisplayName: "Organizer",
	}
}

func weeklyCreateRequest() *dto.CreateEventRequest {
	return &dto.CreateEventRequest{
		Title:             "Jazz Night",
		EventDate:         "2030-06-07",
		StartTime:         "19:00",
		EndTime:           "21:00",
		Location:          "The Blue Room",
		IsRecurring:       true,
		RecurrenceType:    "weekly",
		RecurrenceEndDate: "2030-06-28",
	}
}

func TestCreateRecurringEventMaterializesSeries(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	user := testUser()

	resp, appErr := svc.CreateEvent(context.Background(), weeklyCreateRequest(), user)
	require.Nil(t, appErr)
	require.NotNil(t, resp)
	assert.True(t, resp.IsRecurring)
	assert.Nil(t, resp.ParentEventID)

	// Jun 7, 14, 21, 28: one root plus three children.
	require.Len(t, repo.events, 4)
	children := repo.childrenOf(resp.ID)
	require.Len(t, children, 3)

	for _, child := range children {
		assert.Equal(t, resp.Color, child.Color, "series members share the root's color")
		assert.Equal(t, resp.ID, *child.ParentEventID)
		assert.Equal(t, "Jazz Night", child.Title)
		assert.True(t, child.IsRecurring)
	}
}

func TestCreateEventRejectsDuplicate(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	user := testUser()

	req := &dto.CreateEventRequest{
		Title:     "Book Club",
		EventDate: "2030-03-10",
		StartTime: "18:00",
		Location:  "Library",
	}
	_, appErr := svc.CreateEvent(context.Background(), req, user)
	require.Nil(t, appErr)

	dupReq := *req
	dupReq.Title = "book club"
	_, appErr = svc.CreateEvent(context.Background(), &dupReq, user)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadyExists, appErr.Code)
}

func TestCreateEventPartialSeriesFailureKeepsGoing(t *testing.T) {
	repo := newFakeEventRepository()
	repo.failDates["2030-06-14"] = true
	svc := newTestService(repo)

	resp, appErr := svc.CreateEvent(context.Background(), weeklyCreateRequest(), testUser())
	require.Nil(t, appErr)

	// Root plus Jun 21 and Jun 28; the Jun 14 insert failed.
	children := repo.childrenOf(resp.ID)
	assert.Len(t, children, 2)
	for _, child := range children {
		assert.NotEqual(t, "2030-06-14", child.EventDate.Format("2006-01-02"))
	}
}

func TestUpdateToNonRecurringDeletesChildren(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	user := testUser()

	resp, appErr := svc.CreateEvent(context.Background(), weeklyCreateRequest(), user)
	require.Nil(t, appErr)
	require.Len(t, repo.childrenOf(resp.ID), 3)

	update := &dto.UpdateEventRequest{
		Title:     "Jazz Night",
		EventDate: "2030-06-07",
		StartTime: "19:00",
		Location:  "The Blue Room",
	}
	updated, appErr := svc.UpdateEvent(context.Background(), resp.ID, update, user.ID)
	require.Nil(t, appErr)
	assert.False(t, updated.IsRecurring)
	assert.Empty(t, repo.childrenOf(resp.ID))
	require.Len(t, repo.events, 1)
}

func TestUpdateRecurrenceRegeneratesChildren(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	user := testUser()

	resp, appErr := svc.CreateEvent(context.Background(), weeklyCreateRequest(), user)
	require.Nil(t, appErr)

	update := weeklyCreateRequest()
	update.RecurrenceType = "biweekly"
	updated, appErr := svc.UpdateEvent(context.Background(), resp.ID, update, user.ID)
	require.Nil(t, appErr)

	// Jun 7 + Jun 21: one child now instead of three.
	children := repo.childrenOf(updated.ID)
	require.Len(t, children, 1)
	assert.Equal(t, "2030-06-21", children[0].EventDate.Format("2006-01-02"))
	assert.Equal(t, resp.Color, children[0].Color)
}

func TestUpdateRejectsOtherUsersEvent(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)

	resp, appErr := svc.CreateEvent(context.Background(), weeklyCreateRequest(), testUser())
	require.Nil(t, appErr)

	_, appErr = svc.UpdateEvent(context.Background(), resp.ID, weeklyCreateRequest(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestUpdateRejectsStartedEvent(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	user := testUser()

	req := &dto.CreateEventRequest{
		Title:     "Past Meetup",
		EventDate: "2029-12-01",
		StartTime: "10:00",
		Location:  "Old Hall",
	}
	resp, appErr := svc.CreateEvent(context.Background(), req, user)
	require.Nil(t, appErr)

	update := *req
	update.Title = "Renamed"
	_, appErr = svc.UpdateEvent(context.Background(), resp.ID, &update, user.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrPastEvent, appErr.Code)
}

func TestUpdateRejectsMoveIntoPast(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	user := testUser()

	req := &dto.CreateEventRequest{
		Title:     "Future Meetup",
		EventDate: "2030-05-01",
		StartTime: "10:00",
		Location:  "New Hall",
	}
	resp, appErr := svc.CreateEvent(context.Background(), req, user)
	require.Nil(t, appErr)

	update := *req
	update.EventDate = "2029-01-01"
	_, appErr = svc.UpdateEvent(context.Background(), resp.ID, &update, user.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrPastEvent, appErr.Code)
}

func TestDeleteRootWithChildrenIsTwoPhase(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	user := testUser()

	resp, appErr := svc.CreateEvent(context.Background(), weeklyCreateRequest(), user)
	require.Nil(t, appErr)

	// Without the force flag nothing is deleted.
	result, appErr := svc.DeleteEvent(context.Background(), resp.ID, user.ID, false)
	require.Nil(t, appErr)
	assert.True(t, result.HasChildren)
	assert.Equal(t, 3, result.ChildCount)
	assert.Len(t, repo.events, 4)

	// With it, the root goes and its occurrences become standalone events.
	result, appErr = svc.DeleteEvent(context.Background(), resp.ID, user.ID, true)
	require.Nil(t, appErr)
	assert.False(t, result.HasChildren)
	assert.Len(t, repo.events, 3)
	for _, e := range repo.events {
		assert.Nil(t, e.ParentEventID)
		assert.False(t, e.IsRecurring, "detached occurrences are one-off events")
		assert.Nil(t, e.RecurrenceRule)
		assert.Nil(t, e.RecurrenceEndDate)
	}
}

func TestMaterializeChildrenKeepsSpanAcrossSpringForward(t *testing.T) {
	// US DST starts Mar 8 2026, so the weekly step from Mar 7 is only
	// 167 hours of wall time. The shifted end_date must still land a
	// full civil week later.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	repo := newFakeEventRepository()
	svc := newTestService(repo)

	rootEnd := time.Date(2026, time.March, 8, 0, 0, 0, 0, loc)
	root := &entity.Event{
		ID:        uuid.New(),
		Title:     "Weekend Retreat",
		EventDate: time.Date(2026, time.March, 7, 0, 0, 0, 0, loc),
		EndDate:   &rootEnd,
		StartTime: "10:00",
		Location:  "Camp Hillside",
	}
	v := &validatedEvent{
		EventDate:         root.EventDate,
		Frequency:         FrequencyWeekly,
		RecurrenceEndDate: time.Date(2026, time.March, 14, 0, 0, 0, 0, loc),
	}

	batch := svc.materializeChildren(context.Background(), root, v)
	assert.Equal(t, 1, batch.Succeeded)
	assert.Zero(t, batch.Failed)

	children := repo.childrenOf(root.ID)
	require.Len(t, children, 1)
	assert.Equal(t, "2026-03-14", children[0].EventDate.Format("2006-01-02"))
	require.NotNil(t, children[0].EndDate)
	assert.Equal(t, "2026-03-15", children[0].EndDate.Format("2006-01-02"))
}

func TestDeleteChildLeavesSeriesAlone(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	user := testUser()

	resp, appErr := svc.CreateEvent(context.Background(), weeklyCreateRequest(), user)
	require.Nil(t, appErr)

	children := repo.childrenOf(resp.ID)
	require.Len(t, children, 3)

	result, appErr := svc.DeleteEvent(context.Background(), children[0].ID, user.ID, false)
	require.Nil(t, appErr)
	assert.False(t, result.HasChildren)
	assert.Len(t, repo.events, 3)
	assert.Contains(t, repo.events, resp.ID)
}

func TestDeleteSeriesFromChildRemovesEverything(t *testing.T) {
	repo := newFakeEventRepository()
	svc := newTestService(repo)
	user := testUser()

	resp, appErr := svc.CreateEvent(context.Background(), weeklyCreateRequest(), user)
	require.Nil(t, appErr)

	children := repo.childrenOf(resp.ID)
	require.Len(t, children, 3)

	result, appErr := svc.DeleteSeries(context.Background(), children[1].ID, user.ID)
	require.Nil(t, appErr)
	assert.Equal(t, 4, result.DeletedCount)
	assert.Empty(t, repo.events)
}

func TestValidateEventPayloadRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*dto.CreateEventRequest)
	}{
		{"missing title", func(r *dto.CreateEventRequest) { r.Title = " " }},
		{"missing location", func(r *dto.CreateEventRequest) { r.Location = "" }},
		{"bad date", func(r *dto.CreateEventRequest) { r.EventDate = "06/07/2030" }},
		{"bad time", func(r *dto.CreateEventRequest) { r.StartTime = "7pm" }},
		{"end before start", func(r *dto.CreateEventRequest) { r.EndTime = "18:00" }},
		{"bad link", func(r *dto.CreateEventRequest) { r.Link = "javascript:alert(1)" }},
		{"recurrence end before start", func(r *dto.CreateEventRequest) { r.RecurrenceEndDate = "2030-06-01" }},
		{"unknown recurrence type", func(r *dto.CreateEventRequest) { r.RecurrenceType = "yearly" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := weeklyCreateRequest()
			tc.mut(req)
			_, appErr := validateEventPayload(req)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
		})
	}
}

func TestValidateEventPayloadAllDay(t *testing.T) {
	req := &dto.CreateEventRequest{
		Title:     "Street Fair",
		EventDate: "2030-07-04",
		Location:  "Main Street",
		IsAllDay:  true,
	}
	v, appErr := validateEventPayload(req)
	require.Nil(t, appErr)
	assert.Equal(t, "00:00", v.StartTime)
	assert.Nil(t, v.EndTime)
}
