package editor

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/geometry"
	"github.com/lvillar/pagelayout/model"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// newTestSession uses one millimeter per pixel so pointer deltas read as
// millimeters.
func newTestSession(t *testing.T) (*Session, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(model.DefaultTemplate(), 0)
	cfg := pagelayout.NewConfig(pagelayout.WithScale(1), pagelayout.WithSnapThreshold(1))
	return NewSession(store, cfg), store
}

type countingStore struct {
	*MemoryStore
	sets int
}

func (c *countingStore) SetDocument(doc *model.Document) {
	c.sets++
	c.MemoryStore.SetDocument(doc)
}

func TestDragPublishesGuidesAndAvoidsBandOnEnd(t *testing.T) {
	s, store := newTestSession(t)
	header := store.Document().Regions[1].ID
	ref := model.ItemRef{RegionID: header, Index: 0} // (10, 34) 100x8

	if err := s.BeginDrag(ref, geometry.Point{X: 500, Y: 500}); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	if sel, ok := store.Selection(); !ok || sel != ref {
		t.Errorf("selection = %+v, %v", sel, ok)
	}

	if err := s.Move(geometry.Point{X: 500, Y: 520}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	it, _ := store.Document().Item(ref)
	if !near(it.Y, 54) {
		t.Errorf("during drag y = %v, want 54 (overlapping the band is allowed)", it.Y)
	}
	if len(s.Guides()) == 0 {
		t.Error("expected alignment guides while the left edge sits on x=10")
	}

	if err := s.End(geometry.Point{X: 500, Y: 520}); err != nil {
		t.Fatalf("End: %v", err)
	}
	it, _ = store.Document().Item(ref)
	if !near(it.Y, 52) {
		t.Errorf("after drag y = %v, want 52 (just above the table band)", it.Y)
	}
	if len(s.Guides()) != 0 {
		t.Errorf("guides not cleared: %+v", s.Guides())
	}
	if err := store.Document().CheckInvariants(); err != nil {
		t.Errorf("invariants after drag: %v", err)
	}

	if !store.Undo() {
		t.Fatal("expected an undo snapshot")
	}
	it, _ = store.Document().Item(ref)
	if !near(it.Y, 34) {
		t.Errorf("after undo y = %v, want 34", it.Y)
	}
}

func TestDragComputesFromOrigin(t *testing.T) {
	s, store := newTestSession(t)
	ref := model.ItemRef{RegionID: store.Document().Regions[0].ID, Index: 0} // (10, 12)

	s.BeginDrag(ref, geometry.Point{})
	for i := 1; i <= 100; i++ {
		if err := s.Move(geometry.Point{X: float64(i) * 0.37, Y: 0}); err != nil {
			t.Fatalf("Move: %v", err)
		}
	}
	s.End(geometry.Point{X: 37, Y: 0})

	it, _ := store.Document().Item(ref)
	if !near(it.X, 47) {
		t.Errorf("x = %v, want exactly 47", it.X)
	}
}

func TestClickWithoutMoveKeepsHistory(t *testing.T) {
	s, store := newTestSession(t)
	before := store.Document()
	ref := model.ItemRef{RegionID: before.Regions[0].ID, Index: 1}

	s.BeginDrag(ref, geometry.Point{X: 3, Y: 3})
	if err := s.End(geometry.Point{X: 3, Y: 3}); err != nil {
		t.Fatalf("End: %v", err)
	}
	if store.Document() != before {
		t.Error("a click replaced the document")
	}
	if store.Undo() {
		t.Error("a click recorded an undo snapshot")
	}
	if sel, ok := store.Selection(); !ok || sel != ref {
		t.Errorf("click did not select the item: %+v", sel)
	}
}

func TestMoveSkipsNoopFrames(t *testing.T) {
	cs := &countingStore{MemoryStore: NewMemoryStore(model.DefaultTemplate(), 0)}
	s := NewSession(cs, pagelayout.NewConfig(pagelayout.WithScale(1)))
	ref := model.ItemRef{RegionID: cs.Document().Regions[0].ID, Index: 0}

	s.BeginDrag(ref, geometry.Point{})
	s.Move(geometry.Point{X: 5})
	s.Move(geometry.Point{X: 5.0000001})
	s.Move(geometry.Point{X: 5})
	if cs.sets != 1 {
		t.Errorf("document replaced %d times, want 1", cs.sets)
	}
}

func TestOneGestureAtATime(t *testing.T) {
	s, store := newTestSession(t)
	doc := store.Document()
	ref := model.ItemRef{RegionID: doc.Regions[0].ID, Index: 0}

	if err := s.BeginDrag(ref, geometry.Point{}); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	err := s.BeginRegionResize(doc.Regions[2].ID, geometry.Point{})
	if !errors.Is(err, pagelayout.ErrGestureActive) {
		t.Errorf("expected ErrGestureActive, got %v", err)
	}
	var le *pagelayout.LayoutError
	if !errors.As(err, &le) || le.Op != "BeginRegionResize" {
		t.Errorf("expected a LayoutError for BeginRegionResize, got %v", err)
	}
	s.End(geometry.Point{})

	if err := s.Move(geometry.Point{}); !errors.Is(err, pagelayout.ErrNoGesture) {
		t.Errorf("expected ErrNoGesture, got %v", err)
	}
}

func TestCancelRestoresDocument(t *testing.T) {
	s, store := newTestSession(t)
	before := store.Document()
	ref := model.ItemRef{RegionID: before.Regions[0].ID, Index: 0}

	s.BeginItemResize(ref, geometry.SE, geometry.Point{})
	s.Move(geometry.Point{X: 30, Y: 30})
	s.Cancel()

	if store.Document() != before {
		t.Error("cancel did not restore the starting document")
	}
	if s.Active() {
		t.Error("gesture still active after cancel")
	}
}

func TestItemResizeFloor(t *testing.T) {
	s, store := newTestSession(t)
	ref := model.ItemRef{RegionID: store.Document().Regions[1].ID, Index: 0} // (10, 34) 100x8

	if err := s.BeginItemResize(ref, geometry.W, geometry.Point{}); err != nil {
		t.Fatalf("BeginItemResize: %v", err)
	}
	s.Move(geometry.Point{X: 200})
	s.End(geometry.Point{X: 200})

	it, _ := store.Document().Item(ref)
	if !near(it.Width, 5) || !near(it.X, 105) {
		t.Errorf("got x=%v width=%v, want x=105 width=5", it.X, it.Width)
	}
}

func TestItemResizeRejectsUnknownHandle(t *testing.T) {
	s, store := newTestSession(t)
	ref := model.ItemRef{RegionID: store.Document().Regions[1].ID, Index: 0}
	if err := s.BeginItemResize(ref, "up", geometry.Point{}); !errors.Is(err, pagelayout.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestColumnResizeSkipsHiddenColumns(t *testing.T) {
	doc := model.DefaultTemplate()
	table := doc.Regions[2]
	table.Table.Columns[2].Visible = false // qty, between name and price
	store := NewMemoryStore(doc, 0)
	s := NewSession(store, pagelayout.NewConfig(pagelayout.WithSensitivity(0.5)))

	// Visible columns: no, name, price, amount. Boundary 1 is name|price.
	if err := s.BeginColumnResize(table.ID, 1, geometry.Point{X: 100}, 5, 5); err != nil {
		t.Fatalf("BeginColumnResize: %v", err)
	}
	s.Move(geometry.Point{X: 120})
	s.End(geometry.Point{X: 120})

	cols := store.Document().Regions[2].Table.Columns
	want := []float64{10, 90, 20, 20, 30, 20}
	for i, w := range want {
		if !near(cols[i].Width, w) {
			t.Errorf("column %s width = %v, want %v", cols[i].Colname, cols[i].Width, w)
		}
	}
}

func TestResizeColumnsClampsToMinimums(t *testing.T) {
	doc := model.DefaultTemplate()
	id := doc.Regions[2].ID

	next, err := ResizeColumns(doc, id, 1, -1000, 15, 5)
	if err != nil {
		t.Fatalf("ResizeColumns: %v", err)
	}
	cols := next.Regions[2].Table.Columns
	if !near(cols[1].Width, 15) || !near(cols[2].Width, 85) {
		t.Errorf("name=%v qty=%v, want 15 and 85", cols[1].Width, cols[2].Width)
	}

	next, _ = ResizeColumns(doc, id, 1, 1000, 5, 12)
	cols = next.Regions[2].Table.Columns
	if !near(cols[2].Width, 12) || !near(cols[1].Width, 88) {
		t.Errorf("name=%v qty=%v, want 88 and 12", cols[1].Width, cols[2].Width)
	}

	if doc.Regions[2].Table.Columns[1].Width != 80 {
		t.Error("ResizeColumns modified its input")
	}
}

func TestResizeColumnsErrors(t *testing.T) {
	doc := model.DefaultTemplate()
	if _, err := ResizeColumns(doc, doc.Regions[0].ID, 0, 1, 1, 1); !errors.Is(err, pagelayout.ErrRegionNotFound) {
		t.Errorf("free region: expected ErrRegionNotFound, got %v", err)
	}
	if _, err := ResizeColumns(doc, doc.Regions[2].ID, 4, 1, 1, 1); !errors.Is(err, pagelayout.ErrColumnNotFound) {
		t.Errorf("last visible column: expected ErrColumnNotFound, got %v", err)
	}

	doc.Regions[2].Table.Columns = nil
	if _, err := ResizeColumns(doc, doc.Regions[2].ID, 0, 1, 1, 1); !errors.Is(err, pagelayout.ErrColumnNotFound) {
		t.Errorf("no columns: expected ErrColumnNotFound, got %v", err)
	}
}

func TestMoveBoundary(t *testing.T) {
	tests := []struct {
		name    string
		lower   int
		top     float64
		wantTop float64
		shift   float64 // expected item translation in region lower
	}{
		{"table top down", 2, 100, 100, 0},
		{"table top stops at header content", 2, 40, 52, 0},
		{"footer up carries items", 3, 200, 200, -50},
		{"footer down keeps items on page", 3, 280, 254, 4},
		{"table compresses to minimum", 3, 10, 65, -185},
		{"header up stops at title content", 1, 20, 24, -6},
		{"header down keeps content above table", 1, 50, 38, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := model.DefaultTemplate()
			next, err := MoveBoundary(doc, tt.lower, tt.top, pagelayout.DefaultMinRegionHeight)
			if err != nil {
				t.Fatalf("MoveBoundary: %v", err)
			}
			if got := next.Regions[tt.lower].Top; !near(got, tt.wantTop) {
				t.Errorf("top = %v, want %v", got, tt.wantTop)
			}
			for i, it := range next.Regions[tt.lower].Items {
				if want := doc.Regions[tt.lower].Items[i].Y + tt.shift; !near(it.Y, want) {
					t.Errorf("item %d y = %v, want %v", i, it.Y, want)
				}
			}
			if err := next.CheckInvariants(); err != nil {
				t.Errorf("invariants: %v", err)
			}
		})
	}
}

func TestMoveBoundaryDoesNotShiftTable(t *testing.T) {
	doc := model.DefaultTemplate()
	before := doc.Regions[2].Table.Columns[1]
	next, _ := MoveBoundary(doc, 2, 120, 5)
	if next.Regions[2].Table.Columns[1] != before {
		t.Error("table content changed when its boundary moved")
	}
}

func TestMoveBoundaryInfeasibleIsNoop(t *testing.T) {
	doc := model.DefaultTemplate()
	// Stretch a header item so the header content reaches below the lowest
	// table top the footer allows.
	doc.Regions[1].Items[0].Height = 220
	next, err := MoveBoundary(doc, 2, 200, 5)
	if err != nil {
		t.Fatalf("MoveBoundary: %v", err)
	}
	if next.Regions[2].Top != 60 {
		t.Errorf("table top = %v, want unchanged 60", next.Regions[2].Top)
	}

	if _, err := MoveBoundary(doc, 0, 10, 5); !errors.Is(err, pagelayout.ErrRegionNotFound) {
		t.Errorf("first region: expected ErrRegionNotFound, got %v", err)
	}
}

// Dragging random boundaries of the four-band template must keep every
// free-layout item inside its own band and clear of the table.
func TestRegionDragKeepsContentInBands(t *testing.T) {
	s, store := newTestSession(t)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		doc := store.Document()
		lower := 1 + rng.Intn(len(doc.Regions)-1)
		if err := s.BeginRegionResize(doc.Regions[lower].ID, geometry.Point{}); err != nil {
			t.Fatalf("BeginRegionResize: %v", err)
		}
		p := geometry.Point{Y: rng.Float64()*300 - 150}
		s.Move(geometry.Point{Y: p.Y / 2})
		s.Move(p)
		if err := s.End(p); err != nil {
			t.Fatalf("End: %v", err)
		}

		doc = store.Document()
		if err := doc.CheckInvariants(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		for ri, r := range doc.Regions {
			if r.Type != model.RegionFree {
				continue
			}
			if doc.RegionHeight(ri) < pagelayout.DefaultMinRegionHeight-model.Epsilon {
				t.Fatalf("step %d: region %d is %.3fmm tall", i, ri, doc.RegionHeight(ri))
			}
			for j, it := range r.Items {
				if it.Y < r.Top-model.Epsilon || it.Bottom() > doc.RegionBottom(ri)+model.Epsilon {
					t.Fatalf("step %d: item %d escaped region %d [%v, %v]: %+v", i, j, ri, r.Top, doc.RegionBottom(ri), it)
				}
			}
		}
	}
}

func TestMemoryStoreUndoRedo(t *testing.T) {
	a := &model.Document{PaperWidth: 1}
	b := &model.Document{PaperWidth: 2}
	store := NewMemoryStore(a, 1)

	store.RecordUndoSnapshot()
	store.SetDocument(b)
	if !store.Undo() || store.Document() != a {
		t.Fatal("undo did not restore a")
	}
	if store.Undo() {
		t.Error("undo past the start")
	}
	if !store.Redo() || store.Document() != b {
		t.Fatal("redo did not restore b")
	}

	store.Update(func(d *model.Document) *model.Document {
		next := d.Clone()
		next.PaperWidth = 3
		return next
	})
	if store.Document().PaperWidth != 3 || b.PaperWidth != 2 {
		t.Error("Update did not replace the snapshot")
	}
}

func TestFirstMoveWithoutDeltaKeepsHistory(t *testing.T) {
	cs := &countingStore{MemoryStore: NewMemoryStore(model.DefaultTemplate(), 0)}
	s := NewSession(cs, pagelayout.NewConfig(pagelayout.WithScale(1)))
	before := cs.Document()
	ref := model.ItemRef{RegionID: before.Regions[0].ID, Index: 0}

	s.BeginDrag(ref, geometry.Point{X: 3, Y: 3})
	if err := s.Move(geometry.Point{X: 3, Y: 3}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := s.End(geometry.Point{X: 3, Y: 3}); err != nil {
		t.Fatalf("End: %v", err)
	}
	if cs.sets != 0 || cs.Document() != before {
		t.Errorf("document replaced %d times, want 0", cs.sets)
	}
	if cs.Undo() {
		t.Error("a press without movement recorded an undo snapshot")
	}
}

func TestNonFinitePointerIsIgnored(t *testing.T) {
	nan := math.NaN()
	s, store := newTestSession(t)
	before := store.Document()
	ref := model.ItemRef{RegionID: before.Regions[0].ID, Index: 0} // (10, 12)

	s.BeginDrag(ref, geometry.Point{})
	if err := s.Move(geometry.Point{X: nan, Y: 1}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if store.Document() != before {
		t.Fatal("a non-finite pointer replaced the document")
	}
	if err := s.Move(geometry.Point{X: 5, Y: 0}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := s.End(geometry.Point{X: math.Inf(1), Y: nan}); err != nil {
		t.Fatalf("End: %v", err)
	}
	doc := store.Document()
	it, _ := doc.Item(ref)
	if !near(it.X, 15) || !near(it.Y, 12) {
		t.Errorf("item at (%v, %v), want the last frame (15, 12)", it.X, it.Y)
	}
	if err := doc.CheckInvariants(); err != nil {
		t.Errorf("invariants: %v", err)
	}
}

func TestPureOperationsIgnoreNonFiniteInput(t *testing.T) {
	nan := math.NaN()
	doc := model.DefaultTemplate()
	ref := model.ItemRef{RegionID: doc.Regions[0].ID, Index: 0}
	it, _ := doc.Item(ref)

	moved, _, err := DragItem(doc, ref, geometry.Point{X: it.X, Y: it.Y}, geometry.Point{X: nan, Y: 1}, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	if m, _ := moved.Item(ref); m.X != 10 || m.Y != 13 {
		t.Errorf("dragged to (%v, %v), want (10, 13)", m.X, m.Y)
	}

	resized, err := ResizeItem(doc, ref, geometry.ItemRect(*it), geometry.E, geometry.Point{X: nan}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if r, _ := resized.Item(ref); r.Width != it.Width {
		t.Errorf("width = %v, want %v", r.Width, it.Width)
	}

	bounded, err := MoveBoundary(doc, 1, nan, 5)
	if err != nil {
		t.Fatal(err)
	}
	if bounded.Regions[1].Top != 30 {
		t.Errorf("header top = %v, want 30", bounded.Regions[1].Top)
	}

	cols, err := ResizeColumns(doc, doc.Regions[2].ID, 0, math.Inf(1), 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if cols.Regions[2].Table.Columns[0].Width != 10 {
		t.Errorf("column width = %v, want 10", cols.Regions[2].Table.Columns[0].Width)
	}

	for _, d := range []*model.Document{moved, resized, bounded, cols} {
		if err := d.CheckInvariants(); err != nil {
			t.Errorf("invariants: %v", err)
		}
	}
}
