package editor

import (
	"fmt"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/geometry"
	"github.com/lvillar/pagelayout/model"
)

// gesture computes one frame from the pointer delta in pixels, relative to
// the pointer-down position.
type gesture interface {
	frame(deltaPx geometry.Point, final bool) (*model.Document, []model.Guide, error)
}

// Session drives pointer gestures against a Store. It is not safe for
// concurrent use; pointer events arrive on one goroutine.
type Session struct {
	store Store
	cfg   pagelayout.Config

	active   gesture
	origin   geometry.Point // pointer-down position in pixels
	start    *model.Document
	last     geometry.Point
	applied  bool
	recorded bool
	guides   []model.Guide
}

// NewSession creates a session writing to store.
func NewSession(store Store, cfg pagelayout.Config) *Session {
	return &Session{store: store, cfg: cfg.Sanitized()}
}

// Active reports whether a gesture is in progress.
func (s *Session) Active() bool { return s.active != nil }

// Guides returns the alignment guides of the latest drag frame.
func (s *Session) Guides() []model.Guide { return s.guides }

// BeginDrag selects the item and starts moving it. Clicking an item to
// select it is a drag without movement.
func (s *Session) BeginDrag(ref model.ItemRef, pointer geometry.Point) error {
	doc := s.store.Document()
	it, err := doc.Item(ref)
	if err != nil {
		return pagelayout.NewLayoutError("BeginDrag", err)
	}
	g := &dragGesture{
		doc:       doc,
		ref:       ref,
		origin:    geometry.Point{X: it.X, Y: it.Y},
		scale:     s.cfg.Scale,
		threshold: s.cfg.SnapThresholdMM(),
	}
	return s.begin("BeginDrag", g, pointer, &ref)
}

// BeginItemResize starts resizing the item with handle dir.
func (s *Session) BeginItemResize(ref model.ItemRef, dir geometry.Direction, pointer geometry.Point) error {
	doc := s.store.Document()
	it, err := doc.Item(ref)
	if err != nil {
		return pagelayout.NewLayoutError("BeginItemResize", err)
	}
	if _, ok := geometry.ParseDirection(string(dir)); !ok {
		return pagelayout.NewLayoutError("BeginItemResize", fmt.Errorf("handle %q: %w", dir, pagelayout.ErrUnknownKind))
	}
	g := &itemResizeGesture{
		doc:     doc,
		ref:     ref,
		initial: geometry.ItemRect(*it),
		dir:     dir,
		scale:   s.cfg.Scale,
		minSize: s.cfg.MinItemSize,
	}
	return s.begin("BeginItemResize", g, pointer, &ref)
}

// BeginColumnResize starts dragging the boundary between visible columns
// index and index+1 of a table region. minLeft and minRight are the
// narrowest widths the two columns may take, typically their measured
// title widths.
func (s *Session) BeginColumnResize(regionID string, index int, pointer geometry.Point, minLeft, minRight float64) error {
	doc := s.store.Document()
	if _, err := ResizeColumns(doc, regionID, index, 0, minLeft, minRight); err != nil {
		return pagelayout.NewLayoutError("BeginColumnResize", err)
	}
	g := &columnResizeGesture{
		doc:         doc,
		regionID:    regionID,
		index:       index,
		sensitivity: s.cfg.Sensitivity,
		minLeft:     minLeft,
		minRight:    minRight,
	}
	return s.begin("BeginColumnResize", g, pointer, nil)
}

// BeginRegionResize starts dragging the upper boundary of the region with
// the given id.
func (s *Session) BeginRegionResize(regionID string, pointer geometry.Point) error {
	doc := s.store.Document()
	lower := doc.RegionIndex(regionID)
	if lower <= 0 {
		return pagelayout.NewLayoutError("BeginRegionResize",
			fmt.Errorf("region %q has no movable upper boundary: %w", regionID, pagelayout.ErrRegionNotFound))
	}
	g := &regionResizeGesture{
		doc:       doc,
		lower:     lower,
		top:       doc.Regions[lower].Top,
		scale:     s.cfg.Scale,
		minHeight: s.cfg.MinRegionHeight,
	}
	return s.begin("BeginRegionResize", g, pointer, nil)
}

func (s *Session) begin(op string, g gesture, pointer geometry.Point, sel *model.ItemRef) error {
	if s.active != nil {
		return pagelayout.NewLayoutError(op, pagelayout.ErrGestureActive)
	}
	if sel != nil {
		s.store.Select(*sel)
	}
	s.active = g
	s.origin = pointer
	s.start = s.store.Document()
	s.last = geometry.Point{}
	s.applied = false
	s.recorded = false
	s.guides = nil
	return nil
}

// Move applies one frame of the active gesture for the pointer position.
// Frames whose delta differs from the previous one (or, before any frame,
// from zero) by less than geometry.NoopEpsilon are skipped, as are pointers
// with non-finite coordinates.
func (s *Session) Move(pointer geometry.Point) error {
	if s.active == nil {
		return pagelayout.NewLayoutError("Move", pagelayout.ErrNoGesture)
	}
	delta := geometry.Point{X: pointer.X - s.origin.X, Y: pointer.Y - s.origin.Y}
	if !geometry.IsFinite(delta) ||
		geometry.IsNoop(geometry.Point{X: delta.X - s.last.X, Y: delta.Y - s.last.Y}) {
		return nil
	}
	doc, guides, err := s.active.frame(delta, false)
	if err != nil {
		return pagelayout.NewLayoutError("Move", err)
	}
	s.commit(doc)
	s.guides = guides
	s.last = delta
	s.applied = true
	return nil
}

// End applies the final frame of the active gesture, including band
// avoidance for drags, and clears the guides. A gesture that never moved
// leaves the document and the undo history untouched. A non-finite pointer
// ends the gesture at the last applied frame.
func (s *Session) End(pointer geometry.Point) error {
	if s.active == nil {
		return pagelayout.NewLayoutError("End", pagelayout.ErrNoGesture)
	}
	delta := geometry.Point{X: pointer.X - s.origin.X, Y: pointer.Y - s.origin.Y}
	if !geometry.IsFinite(delta) {
		delta = s.last
	}
	if !s.applied && geometry.IsNoop(delta) {
		s.reset()
		return nil
	}
	doc, _, err := s.active.frame(delta, true)
	if err != nil {
		s.reset()
		return pagelayout.NewLayoutError("End", err)
	}
	s.commit(doc)
	s.reset()
	return nil
}

// commit records the pre-gesture snapshot once, then publishes doc.
func (s *Session) commit(doc *model.Document) {
	if !s.recorded {
		s.store.RecordUndoSnapshot()
		s.recorded = true
	}
	s.store.SetDocument(doc)
}

// Cancel abandons the active gesture and restores the document it started from.
func (s *Session) Cancel() {
	if s.active == nil {
		return
	}
	s.store.SetDocument(s.start)
	s.reset()
}

func (s *Session) reset() {
	s.active = nil
	s.start = nil
	s.last = geometry.Point{}
	s.applied = false
	s.recorded = false
	s.guides = nil
}

type dragGesture struct {
	doc       *model.Document
	ref       model.ItemRef
	origin    geometry.Point
	scale     float64
	threshold float64
}

func (g *dragGesture) frame(d geometry.Point, final bool) (*model.Document, []model.Guide, error) {
	delta := geometry.Point{X: d.X * g.scale, Y: d.Y * g.scale}
	doc, guides, err := DragItem(g.doc, g.ref, g.origin, delta, g.threshold, final)
	if final {
		guides = nil
	}
	return doc, guides, err
}

type itemResizeGesture struct {
	doc     *model.Document
	ref     model.ItemRef
	initial geometry.Rect
	dir     geometry.Direction
	scale   float64
	minSize float64
}

func (g *itemResizeGesture) frame(d geometry.Point, _ bool) (*model.Document, []model.Guide, error) {
	delta := geometry.Point{X: d.X * g.scale, Y: d.Y * g.scale}
	doc, err := ResizeItem(g.doc, g.ref, g.initial, g.dir, delta, g.minSize)
	return doc, nil, err
}

type columnResizeGesture struct {
	doc         *model.Document
	regionID    string
	index       int
	sensitivity float64
	minLeft     float64
	minRight    float64
}

func (g *columnResizeGesture) frame(d geometry.Point, _ bool) (*model.Document, []model.Guide, error) {
	doc, err := ResizeColumns(g.doc, g.regionID, g.index, d.X*g.sensitivity, g.minLeft, g.minRight)
	return doc, nil, err
}

type regionResizeGesture struct {
	doc       *model.Document
	lower     int
	top       float64
	scale     float64
	minHeight float64
}

func (g *regionResizeGesture) frame(d geometry.Point, _ bool) (*model.Document, []model.Guide, error) {
	doc, err := MoveBoundary(g.doc, g.lower, g.top+d.Y*g.scale, g.minHeight)
	return doc, nil, err
}
