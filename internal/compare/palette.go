package compare

import "github.com/skymetrics/skymetrics/internal/model"

// DefaultColors is the ordered palette assigned to comparison series.
var DefaultColors = []model.Color{
	{Name: "blue", Hex: "#3b82f6"},
	{Name: "red", Hex: "#ef4444"},
	{Name: "emerald", Hex: "#10b981"},
	{Name: "amber", Hex: "#f59e0b"},
	{Name: "violet", Hex: "#8b5cf6"},
	{Name: "pink", Hex: "#ec4899"},
	{Name: "cyan", Hex: "#06b6d4"},
	{Name: "lime", Hex: "#84cc16"},
	{Name: "indigo", Hex: "#6366f1"},
	{Name: "fuchsia", Hex: "#d946ef"},
}

// Palette hands out colors in palette order, reusing released ones first. Once every color is
// taken it cycles through the palette again.
type Palette struct {
	colors []model.Color
	inUse  []int
	next   int
}

// NewPalette returns an allocator over colors, or DefaultColors when none are given.
func NewPalette(colors ...model.Color) *Palette {
	if len(colors) == 0 {
		colors = DefaultColors
	}
	return &Palette{
		colors: append([]model.Color(nil), colors...),
		inUse:  make([]int, len(colors)),
	}
}

// Acquire returns the first color not currently assigned.
func (p *Palette) Acquire() model.Color {
	for i, n := range p.inUse {
		if n == 0 {
			p.inUse[i]++
			return p.colors[i]
		}
	}
	i := p.next % len(p.colors)
	p.next++
	p.inUse[i]++
	return p.colors[i]
}

// Release returns c to the pool.
func (p *Palette) Release(c model.Color) {
	for i, color := range p.colors {
		if color == c && p.inUse[i] > 0 {
			p.inUse[i]--
			return
		}
	}
}

// Reset releases every color.
func (p *Palette) Reset() {
	for i := range p.inUse {
		p.inUse[i] = 0
	}
	p.next = 0
}
