package service

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"community-calendar/modules/event/entity"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() entity.Event {
	endTime := "21:00"
	rule := "FREQ=WEEKLY"
	recEnd := time.Date(2030, time.June, 28, 0, 0, 0, 0, time.UTC)
	return entity.Event{
		ID:                uuid.New(),
		Title:             "Jazz Night",
		EventDate:         time.Date(2030, time.June, 7, 0, 0, 0, 0, time.UTC),
		StartTime:         "19:00",
		EndTime:           &endTime,
		Location:          "The Blue Room",
		IsRecurring:       true,
		RecurrenceRule:    &rule,
		RecurrenceEndDate: &recEnd,
		Color:             "#1e3a5f",
		CreatorName:       "Organizer",
	}
}

func TestGenerateEmitsRecurringEvent(t *testing.T) {
	c := NewCodec()
	e := testEvent()

	out, err := c.GenerateSingle(&e)
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Jazz Night")
	assert.Contains(t, out, "LOCATION:The Blue Room")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;UNTIL=20300628T235959Z")
	assert.Contains(t, out, e.ID.String()+"@"+uidDomain)
}

func TestGenerateZeroDurationFallback(t *testing.T) {
	c := NewCodec()
	e := testEvent()
	e.EndTime = nil
	e.IsRecurring = false
	e.RecurrenceRule = nil
	e.RecurrenceEndDate = nil

	out, err := c.GenerateSingle(&e)
	require.NoError(t, err)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)

	start, err := cal.Events()[0].GetStartAt()
	require.NoError(t, err)
	end, err := cal.Events()[0].GetEndAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(end), "missing end time falls back to the start")
}

func TestGenerateFailsOnBadStoredTime(t *testing.T) {
	c := NewCodec()
	good := testEvent()
	bad := testEvent()
	bad.StartTime = "sometime"

	_, err := c.Generate([]entity.Event{good, bad})
	assert.Error(t, err, "export is all-or-nothing")
}

func TestRruleWithUntilReplacesExisting(t *testing.T) {
	recEnd := time.Date(2030, time.December, 31, 0, 0, 0, 0, time.UTC)
	got := rruleWithUntil("FREQ=WEEKLY;UNTIL=20250101T000000Z;INTERVAL=2", recEnd)
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=2;UNTIL=20301231T235959Z", got)
}

func TestAttachmentFilename(t *testing.T) {
	assert.Equal(t, "jazz-night.ics", AttachmentFilename("Jazz Night!"))
	assert.Equal(t, "event.ics", AttachmentFilename("???"))

	long := AttachmentFilename(strings.Repeat("community potluck ", 10))
	assert.True(t, len(long) <= 54)
	assert.True(t, strings.HasSuffix(long, ".ics"))
}

// parserNow is a Monday so the weekly search math below is easy to follow.
var parserNow = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.Local)

func newTestCodec() *Codec {
	c := NewCodec()
	c.now = func() time.Time { return parserNow }
	return c
}

func icsFile(vevents ...string) []byte {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Test//EN\r\n")
	for _, ve := range vevents {
		b.WriteString(ve)
	}
	b.WriteString("END:VCALENDAR\r\n")
	return []byte(b.String())
}

func TestParseSkipsUnusableEvents(t *testing.T) {
	c := newTestCodec()

	data := icsFile(
		// No summary.
		"BEGIN:VEVENT\r\nUID:1@test\r\nDTSTART:20270610T140000\r\nEND:VEVENT\r\n",
		// Non-recurring and already over.
		"BEGIN:VEVENT\r\nUID:2@test\r\nSUMMARY:Old Meetup\r\nDTSTART:20200101T100000\r\nEND:VEVENT\r\n",
		// Importable.
		"BEGIN:VEVENT\r\nUID:3@test\r\nSUMMARY:Future Meetup\r\nDTSTART:20270610T140000\r\nDTEND:20270610T160000\r\nLOCATION:Town Hall\r\nEND:VEVENT\r\n",
	)

	result, err := c.Parse(data)
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)

	cand := result.Candidates[0]
	assert.Equal(t, "Future Meetup", cand.Title)
	assert.Equal(t, "2027-06-10", cand.EventDate.Format("2006-01-02"))
	assert.Equal(t, "14:00", cand.StartTime)
	require.NotNil(t, cand.EndTime)
	assert.Equal(t, "16:00", *cand.EndTime)
	assert.Equal(t, "Town Hall", cand.Location)
	assert.False(t, cand.IsRecurring)
}

func TestParseDefaultsMissingLocation(t *testing.T) {
	c := newTestCodec()

	data := icsFile(
		"BEGIN:VEVENT\r\nUID:1@test\r\nSUMMARY:No Venue Yet\r\nDTSTART:20270610T140000\r\nEND:VEVENT\r\n",
	)

	result, err := c.Parse(data)
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "Location TBD", result.Candidates[0].Location)
}

func TestParseRecurringWeeklyShiftsToNextOccurrence(t *testing.T) {
	c := newTestCodec()

	// Started last September, every Wednesday evening.
	data := icsFile(
		"BEGIN:VEVENT\r\nUID:1@test\r\nSUMMARY:Chess Club\r\nDTSTART:20250903T183000\r\nDTEND:20250903T200000\r\nRRULE:FREQ=WEEKLY;BYDAY=WE\r\nEND:VEVENT\r\n",
	)

	result, err := c.Parse(data)
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)

	cand := result.Candidates[0]
	assert.True(t, cand.IsRecurring)
	assert.Equal(t, "weekly", cand.RecurrenceType)
	// First Wednesday after Monday March 2.
	assert.Equal(t, "2026-03-04", cand.EventDate.Format("2006-01-02"))
	assert.Equal(t, "18:30", cand.StartTime)
	require.NotNil(t, cand.EndTime)
	assert.Equal(t, "20:00", *cand.EndTime)
	// Six-month window from the shifted occurrence.
	assert.Equal(t, "2026-09-04", cand.RecurrenceEndDate.Format("2006-01-02"))
}

func TestParseDetectsBiweekly(t *testing.T) {
	c := newTestCodec()

	data := icsFile(
		"BEGIN:VEVENT\r\nUID:1@test\r\nSUMMARY:Game Night\r\nDTSTART:20250902T190000\r\nRRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=TU\r\nEND:VEVENT\r\n",
	)

	result, err := c.Parse(data)
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)

	cand := result.Candidates[0]
	assert.Equal(t, "biweekly", cand.RecurrenceType)
	assert.Equal(t, "2026-03-03", cand.EventDate.Format("2006-01-02"))
}

func TestParseRecurringNonWeeklyKeepsFutureStart(t *testing.T) {
	c := newTestCodec()

	data := icsFile(
		// Monthly and still in the future: keep the original start.
		"BEGIN:VEVENT\r\nUID:1@test\r\nSUMMARY:Board Meeting\r\nDTSTART:20270105T090000\r\nRRULE:FREQ=MONTHLY\r\nEND:VEVENT\r\n",
		// Monthly but already started: no reliable next occurrence, drop it.
		"BEGIN:VEVENT\r\nUID:2@test\r\nSUMMARY:Old Board Meeting\r\nDTSTART:20200105T090000\r\nRRULE:FREQ=MONTHLY\r\nEND:VEVENT\r\n",
	)

	result, err := c.Parse(data)
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "Board Meeting", result.Candidates[0].Title)
	assert.Equal(t, "monthly", result.Candidates[0].RecurrenceType)
}

func TestExportImportRoundTrip(t *testing.T) {
	c := newTestCodec()

	e := testEvent()
	e.IsRecurring = false
	e.RecurrenceRule = nil
	e.RecurrenceEndDate = nil

	out, err := c.GenerateSingle(&e)
	require.NoError(t, err)

	result, err := c.Parse([]byte(out))
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)

	cand := result.Candidates[0]
	assert.Equal(t, e.Title, cand.Title)
	assert.Equal(t, "2030-06-07", cand.EventDate.Format("2006-01-02"))
	assert.Equal(t, e.StartTime, cand.StartTime)
	require.NotNil(t, cand.EndTime)
	assert.Equal(t, *e.EndTime, *cand.EndTime)
	assert.Equal(t, e.Location, cand.Location)
}

func TestParseRejectsGarbage(t *testing.T) {
	c := newTestCodec()
	_, err := c.Parse([]byte("not a calendar"))
	assert.Error(t, err)
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", clip("abc", 5))
	assert.Equal(t, "ab", clip("abcd", 2))
}

func TestClipKeepsRunesWhole(t *testing.T) {
	// "é" is two bytes, so a 255-byte cut would land mid-rune.
	got := clip(strings.Repeat("é", 200), 255)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 254, len(got))
	assert.True(t, strings.HasSuffix(got, "é"))
}
