package service

import "community-calendar/modules/event/entity"

// SeriesState classifies an event row within its series. Edit and delete
// transitions branch on this instead of re-deriving flag/children
// combinations at every call site.
type SeriesState int

const (
	// SeriesSimple is a plain non-recurring event.
	SeriesSimple SeriesState = iota
	// SeriesRootNoChildren is a recurring root whose occurrences have not
	// been materialized (or were all deleted).
	SeriesRootNoChildren
	// SeriesRootWithChildren is a recurring root with generated occurrences.
	SeriesRootWithChildren
	// SeriesChild is a generated occurrence belonging to a root.
	SeriesChild
)

func (s SeriesState) String() string {
	switch s {
	case SeriesSimple:
		return "simple"
	case SeriesRootNoChildren:
		return "root-no-children"
	case SeriesRootWithChildren:
		return "root-with-children"
	case SeriesChild:
		return "child"
	}
	return "unknown"
}

// ClassifySeries derives the series state from the row and its child count.
// A non-recurring row that still has children (recurrence recently switched
// off mid-flight) is treated as a root with children so the cleanup
// transitions still apply.
func ClassifySeries(e *entity.Event, childCount int) SeriesState {
	switch {
	case e.IsChild():
		return SeriesChild
	case childCount > 0:
		return SeriesRootWithChildren
	case e.IsSeriesRoot():
		return SeriesRootNoChildren
	default:
		return SeriesSimple
	}
}
