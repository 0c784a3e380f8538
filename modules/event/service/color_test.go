package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorPickerRoundRobin(t *testing.T) {
	p := NewColorPicker()

	seen := make([]string, 0, len(eventColors)+1)
	for i := 0; i <= len(eventColors); i++ {
		seen = append(seen, p.Next())
	}

	assert.Equal(t, eventColors[0], seen[0])
	assert.Equal(t, eventColors[len(eventColors)-1], seen[len(eventColors)-1])
	// Wraps back to the first color after exhausting the palette.
	assert.Equal(t, eventColors[0], seen[len(eventColors)])
}

func TestColorPickerReset(t *testing.T) {
	p := NewColorPicker()
	first := p.Next()
	p.Next()
	p.Reset()

	assert.Equal(t, first, p.Next())
}
