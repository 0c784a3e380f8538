package service

import "sync"

// Dark colors only for better visibility against white text.
var eventColors = []string{
	"#0d6d6b", // Caribbean Current
	"#a34129", // Chestnut
	"#006494", // Lapis Lazuli
	"#006600", // Office Green
	"#470063", // Indigo
	"#214e34", // Cal Poly Green
	"#a4133a", // Amaranth Purple
	"#7c4413", // Russet
	"#9e2a2b", // Auburn
	"#525252", // Davys Gray
}

// ColorPicker hands out series colors round-robin over a fixed palette. The
// counter is in-memory only and not persisted across restarts; concurrent
// creations may race on it, which is acceptable since the color is cosmetic.
type ColorPicker struct {
	mu   sync.Mutex
	next int
}

func NewColorPicker() *ColorPicker {
	return &ColorPicker{}
}

// Next returns the next palette color.
func (p *ColorPicker) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	color := eventColors[p.next%len(eventColors)]
	p.next++
	return color
}

// Reset rewinds the counter so tests get a deterministic sequence.
func (p *ColorPicker) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next = 0
}
