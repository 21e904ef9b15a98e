package editor

import (
	"fmt"
	"math"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/geometry"
	"github.com/lvillar/pagelayout/model"
)

// DragItem moves the referenced item from origin by delta (millimeters).
// Snapping applies when threshold is positive. Band avoidance applies only
// when final is set, so intermediate frames may overlap the table band.
func DragItem(doc *model.Document, ref model.ItemRef, origin, delta geometry.Point, threshold float64, final bool) (*model.Document, []model.Guide, error) {
	it, err := doc.Item(ref)
	if err != nil {
		return nil, nil, err
	}
	in := geometry.PositionInput{
		Initial:   origin,
		Size:      geometry.Point{X: it.Width, Y: it.Height},
		Delta:     delta,
		Bounds:    geometry.BoundsOf(doc),
		Band:      geometry.TableBand(doc),
		AvoidBand: final,
	}
	if threshold > 0 {
		in.Snap = &geometry.SnapInput{
			Lines:     geometry.CollectSnapLines(doc, &ref),
			Threshold: threshold,
		}
	}
	pos := geometry.ResolvePosition(in)

	next := doc.Clone()
	nit, _ := next.Item(ref)
	nit.X, nit.Y = pos.X, pos.Y
	return next, pos.Guides, nil
}

// ResizeItem resizes the referenced item from its initial rectangle by
// dragging handle dir by delta (millimeters).
func ResizeItem(doc *model.Document, ref model.ItemRef, initial geometry.Rect, dir geometry.Direction, delta geometry.Point, minSize float64) (*model.Document, error) {
	if _, err := doc.Item(ref); err != nil {
		return nil, err
	}
	r := geometry.ResolveResize(geometry.ResizeInput{
		Initial: initial,
		Delta:   delta,
		Dir:     dir,
		MinSize: minSize,
		Bounds:  geometry.BoundsOf(doc),
	})

	next := doc.Clone()
	it, _ := next.Item(ref)
	it.X, it.Y, it.Width, it.Height = r.X, r.Y, r.W, r.H
	return next, nil
}

// ResizeColumns moves the boundary between visible columns index and
// index+1 of a table region by delta width units. Only those two columns
// change; hidden columns are skipped entirely. Neither column may go below
// its minimum, but a column already narrower than its minimum is not forced
// to grow.
func ResizeColumns(doc *model.Document, regionID string, index int, delta, minLeft, minRight float64) (*model.Document, error) {
	ri := doc.RegionIndex(regionID)
	if ri < 0 || doc.Regions[ri].Table == nil {
		return nil, fmt.Errorf("editor: table region %q: %w", regionID, pagelayout.ErrRegionNotFound)
	}
	visible := doc.Regions[ri].Table.VisibleColumns()
	if index < 0 || index+1 >= len(visible) {
		return nil, fmt.Errorf("editor: visible column boundary %d of %d: %w", index, len(visible), pagelayout.ErrColumnNotFound)
	}

	next := doc.Clone()
	cols := next.Regions[ri].Table.Columns
	left, right := &cols[visible[index]], &cols[visible[index+1]]

	lo := math.Min(0, minLeft-left.Width)
	hi := math.Max(0, right.Width-minRight)
	d := math.Max(lo, math.Min(pagelayout.Finite(delta, 0), hi))

	left.Width += d
	right.Width -= d
	return next, nil
}

// BoundaryLimits returns the range the top of region lower may move within.
// The floor keeps the region above at least minHeight tall and, for a
// free-layout region, below its lowest item. The ceiling keeps region lower
// at least minHeight tall and, for a free-layout region, tall enough for its
// content measured from its current top. Table regions add no content limit.
// When the limits cross, ok is false.
func BoundaryLimits(doc *model.Document, lower int, minHeight float64) (lo, hi float64, ok bool) {
	above := lower - 1
	lo = doc.Regions[above].Top + minHeight
	if holdsItems(doc.Regions[above]) {
		lo = math.Max(lo, doc.ContentBottom(above))
	}

	bottom := doc.RegionBottom(lower)
	hi = bottom - minHeight
	if cur := doc.Regions[lower]; holdsItems(cur) && len(cur.Items) > 0 {
		need := doc.ContentBottom(lower) - cur.Top
		ceiling := bottom
		if lower == len(doc.Regions)-1 {
			ceiling = math.Min(ceiling, doc.PaperHeight-doc.Margins.Bottom)
		}
		hi = math.Min(hi, ceiling-need)
	}
	return lo, hi, lo <= hi+model.Epsilon
}

// MoveBoundary moves the top of region lower (the boundary it shares with
// the region above) toward top, clamped by BoundaryLimits. Items of a
// free-layout region ride along by the same delta; table content does not
// move. When the limits cross, or top is not a finite number, the boundary
// stays where it is.
func MoveBoundary(doc *model.Document, lower int, top, minHeight float64) (*model.Document, error) {
	if lower <= 0 || lower >= len(doc.Regions) {
		return nil, fmt.Errorf("editor: region %d has no movable upper boundary: %w", lower, pagelayout.ErrRegionNotFound)
	}
	lo, hi, ok := BoundaryLimits(doc, lower, minHeight)
	if !ok {
		return doc, nil
	}
	top = pagelayout.Finite(top, doc.Regions[lower].Top)
	newTop := math.Max(lo, math.Min(top, hi))
	delta := newTop - doc.Regions[lower].Top

	next := doc.Clone()
	r := &next.Regions[lower]
	r.Top = newTop
	if holdsItems(*r) {
		for i := range r.Items {
			r.Items[i].Y += delta
		}
	}
	return next, nil
}

func holdsItems(r model.Region) bool {
	info, _ := model.LookupRegionKind(r.Type)
	return info.HoldsItems
}
