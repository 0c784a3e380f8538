package service

import (
	"testing"

	"community-calendar/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestClassifySeries(t *testing.T) {
	parent := uuid.New()

	cases := []struct {
		name       string
		event      entity.Event
		childCount int
		want       SeriesState
	}{
		{"plain event", entity.Event{}, 0, SeriesSimple},
		{"recurring root without children", entity.Event{IsRecurring: true}, 0, SeriesRootNoChildren},
		{"recurring root with children", entity.Event{IsRecurring: true}, 3, SeriesRootWithChildren},
		{"non-recurring root with leftover children", entity.Event{}, 2, SeriesRootWithChildren},
		{"child occurrence", entity.Event{ParentEventID: &parent}, 0, SeriesChild},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySeries(&tc.event, tc.childCount))
		})
	}
}
