// Package geometry implements the pure constraint math of the layout editor:
// clamping items to the printable area, keeping them off the table band,
// snapping to alignment lines and resolving resize gestures.
//
// Every function is total over finite inputs and never fails; impossible
// requests are clamped instead of rejected.
package geometry

import (
	"math"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/model"
)

// NoopEpsilon is the smallest delta, in millimeters, worth a new frame.
const NoopEpsilon = 1e-3

// Point is a position or a delta in millimeters.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in millimeters.
type Rect struct {
	X, Y, W, H float64
}

// ItemRect returns the rectangle of an item.
func ItemRect(it model.Item) Rect {
	return Rect{X: it.X, Y: it.Y, W: it.Width, H: it.Height}
}

// Bounds is the paper size and its margins.
type Bounds struct {
	PaperWidth  float64
	PaperHeight float64
	Margins     model.Margins
}

// BoundsOf returns the bounds of a document's page.
func BoundsOf(doc *model.Document) Bounds {
	return Bounds{PaperWidth: doc.PaperWidth, PaperHeight: doc.PaperHeight, Margins: doc.Margins}
}

func (b Bounds) left() float64   { return b.Margins.Left }
func (b Bounds) right() float64  { return b.PaperWidth - b.Margins.Right }
func (b Bounds) top() float64    { return b.Margins.Top }
func (b Bounds) bottom() float64 { return b.PaperHeight - b.Margins.Bottom }

// Contains reports whether r lies within the printable area.
func (b Bounds) Contains(r Rect) bool {
	return r.X >= b.left()-model.Epsilon && r.X+r.W <= b.right()+model.Epsilon &&
		r.Y >= b.top()-model.Epsilon && r.Y+r.H <= b.bottom()+model.Epsilon
}

// Band is a reserved vertical extent, the table region.
type Band struct {
	Top, Bottom float64
}

// TableBand returns the document's table band, or nil when it has no table.
func TableBand(doc *model.Document) *Band {
	top, bottom, ok := doc.TableBand()
	if !ok {
		return nil
	}
	return &Band{Top: top, Bottom: bottom}
}

// ConstrainToBounds clamps a w×h rectangle at (x, y) into the printable area
// of a paperW×paperH page. Width and height are never changed; a rectangle
// larger than the printable area is pinned to the top-left margin, and so is
// a non-finite coordinate.
func ConstrainToBounds(x, y, w, h, paperW, paperH float64, m model.Margins) (float64, float64) {
	x = pagelayout.Finite(x, m.Left)
	y = pagelayout.Finite(y, m.Top)
	x = math.Max(m.Left, math.Min(x, paperW-m.Right-w))
	y = math.Max(m.Top, math.Min(y, paperH-m.Bottom-h))
	return x, y
}

// AvoidReservedBand moves a vertical extent [y, y+h] off [bandTop, bandBottom]
// when they intersect, to whichever of bandTop-h or bandBottom is closer to y.
// Ties prefer the position above the band. Touching edges do not intersect.
func AvoidReservedBand(y, h, bandTop, bandBottom float64) float64 {
	if y >= bandBottom || y+h <= bandTop {
		return y
	}
	above := bandTop - h
	below := bandBottom
	if math.Abs(y-above) <= math.Abs(below-y) {
		return above
	}
	return below
}

// avoidWithinBounds applies band avoidance and, when the preferred side
// leaves the printable area, falls back to the opposite side of the band.
// If neither side fits, the avoidance result stands.
func avoidWithinBounds(y, h float64, band Band, b Bounds) float64 {
	ny := AvoidReservedBand(y, h, band.Top, band.Bottom)
	if ny == y || (ny >= b.top()-model.Epsilon && ny+h <= b.bottom()+model.Epsilon) {
		return ny
	}
	alt := band.Bottom
	if ny == band.Bottom {
		alt = band.Top - h
	}
	if alt >= b.top()-model.Epsilon && alt+h <= b.bottom()+model.Epsilon {
		return alt
	}
	return ny
}

// IsFinite reports whether both coordinates of p are finite numbers.
func IsFinite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// finiteDelta replaces non-finite components of d with zero.
func finiteDelta(d Point) Point {
	return Point{X: pagelayout.Finite(d.X, 0), Y: pagelayout.Finite(d.Y, 0)}
}

// IsNoop reports whether a delta is too small to change the layout.
func IsNoop(d Point) bool {
	return math.Abs(d.X) < NoopEpsilon && math.Abs(d.Y) < NoopEpsilon
}
