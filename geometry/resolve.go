package geometry

import (
	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/model"
)

// SnapInput enables snapping in ResolvePosition.
type SnapInput struct {
	Lines     SnapLines
	Threshold float64 // millimeters
}

// PositionInput describes one frame of a move gesture. Delta is measured from
// the gesture origin and applied to Initial, never accumulated.
type PositionInput struct {
	Initial   Point
	Size      Point // width, height
	Delta     Point
	Bounds    Bounds
	Band      *Band
	AvoidBand bool
	Snap      *SnapInput
}

// Position is the resolved location of a moved item.
type Position struct {
	X, Y   float64
	Guides []model.Guide
}

// ResolvePosition applies, in order, snapping (a soft adjustment), the
// printable-area clamp, and band avoidance when requested. Band avoidance is
// meant for the end of a drag only, so intermediate frames may overlap the
// band. Non-finite delta components count as zero.
func ResolvePosition(in PositionInput) Position {
	delta := finiteDelta(in.Delta)
	x := in.Initial.X + delta.X
	y := in.Initial.Y + delta.Y
	w, h := in.Size.X, in.Size.Y

	var guides []model.Guide
	if in.Snap != nil {
		s := SnapToGuides(x, y, w, h, in.Snap.Lines.X, in.Snap.Lines.Y, in.Snap.Threshold)
		x, y, guides = s.X, s.Y, s.Guides
	}

	b := in.Bounds
	x, y = ConstrainToBounds(x, y, w, h, b.PaperWidth, b.PaperHeight, b.Margins)

	if in.AvoidBand && in.Band != nil {
		y = avoidWithinBounds(y, h, *in.Band, b)
	}
	return Position{X: x, Y: y, Guides: guides}
}

// Direction is a resize handle: a compass point naming the edges it moves.
type Direction string

const (
	N  Direction = "n"
	NE Direction = "ne"
	E  Direction = "e"
	SE Direction = "se"
	S  Direction = "s"
	SW Direction = "sw"
	W  Direction = "w"
	NW Direction = "nw"
)

// Directions lists the eight resize handles clockwise from north.
var Directions = []Direction{N, NE, E, SE, S, SW, W, NW}

// ParseDirection validates a handle name.
func ParseDirection(s string) (Direction, bool) {
	for _, d := range Directions {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

func (d Direction) has(c byte) bool {
	for i := 0; i < len(d); i++ {
		if d[i] == c {
			return true
		}
	}
	return false
}

// ResizeInput describes one frame of a resize gesture.
type ResizeInput struct {
	Initial Rect
	Delta   Point
	Dir     Direction
	MinSize float64
	Bounds  Bounds
}

// ResolveResize computes the rectangle produced by dragging a handle by
// Delta; non-finite delta components count as zero. West and north handles move the anchor so the opposite edge stays
// fixed. The minimum size is applied first, anchored on the original
// opposite edge; then each edge is clamped to the printable area by
// shrinking rather than moving; finally the minimum size wins over the
// bounds as a last resort.
func ResolveResize(in ResizeInput) Rect {
	init := in.Initial
	d := in.Dir
	delta := finiteDelta(in.Delta)
	minSize := pagelayout.Positive(in.MinSize, pagelayout.DefaultMinItemSize)
	r := init

	if d.has('e') {
		r.W = init.W + delta.X
	}
	if d.has('w') {
		r.W = init.W - delta.X
		r.X = init.X + delta.X
	}
	if d.has('s') {
		r.H = init.H + delta.Y
	}
	if d.has('n') {
		r.H = init.H - delta.Y
		r.Y = init.Y + delta.Y
	}

	if r.W < minSize {
		r.W = minSize
		if d.has('w') {
			r.X = init.X + init.W - minSize
		}
	}
	if r.H < minSize {
		r.H = minSize
		if d.has('n') {
			r.Y = init.Y + init.H - minSize
		}
	}

	b := in.Bounds
	if r.X < b.left() {
		r.W -= b.left() - r.X
		r.X = b.left()
	}
	if r.X+r.W > b.right() {
		r.W = b.right() - r.X
	}
	if r.Y < b.top() {
		r.H -= b.top() - r.Y
		r.Y = b.top()
	}
	if r.Y+r.H > b.bottom() {
		r.H = b.bottom() - r.Y
	}

	if r.W < minSize {
		if d.has('w') {
			r.X += r.W - minSize
		}
		r.W = minSize
	}
	if r.H < minSize {
		if d.has('n') {
			r.Y += r.H - minSize
		}
		r.H = minSize
	}
	return r
}
