package model

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	pagelayout "github.com/lvillar/pagelayout"
)

func TestDefaultTemplateIsConsistent(t *testing.T) {
	doc := DefaultTemplate()
	if err := doc.CheckInvariants(); err != nil {
		t.Fatalf("default template violates invariants: %v", err)
	}
	if len(doc.Regions) != 4 {
		t.Fatalf("expected 4 regions, got %d", len(doc.Regions))
	}
	ids := map[string]bool{}
	for _, r := range doc.Regions {
		if r.ID == "" || ids[r.ID] {
			t.Fatalf("region id %q is empty or duplicated", r.ID)
		}
		ids[r.ID] = true
	}
	top, bottom, ok := doc.TableBand()
	if !ok || top != 60 || bottom != 250 {
		t.Errorf("table band = (%v, %v, %v), want (60, 250, true)", top, bottom, ok)
	}
}

func TestRoundTrip(t *testing.T) {
	doc := DefaultTemplate()
	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	again, err := Marshal(back)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Errorf("round trip changed the document:\n%s\n---\n%s", data, again)
	}
	if back.Regions[2].Table.Columns[5].Visible {
		t.Error("hidden column became visible after round trip")
	}
}

func TestParseDefaultsVisible(t *testing.T) {
	doc, err := Parse([]byte(`{
		"paperWidth": 210, "paperHeight": 297,
		"regions": [{"id": "a", "top": 0, "type": "free",
			"items": [{"x": 10, "y": 10, "width": 20, "height": 20}]}]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !doc.Regions[0].Items[0].Visible {
		t.Error("item without a visible key should be visible")
	}
}

func TestNormalizeRepairsGeometry(t *testing.T) {
	doc := &Document{
		PaperWidth:  math.NaN(),
		PaperHeight: -1,
		Margins:     Margins{Top: math.Inf(1), Left: 5},
		Regions: []Region{
			{ID: "b", Top: 100, Type: RegionTable, Table: &TableSpec{}},
			{ID: "a", Top: 3, Type: RegionFree, Items: []Item{{X: math.NaN(), Y: 20, Width: 0, Height: math.NaN()}}},
		},
	}
	doc.Normalize()

	if doc.PaperWidth != pagelayout.DefaultPaperWidth || doc.PaperHeight != pagelayout.DefaultPaperHeight {
		t.Errorf("paper = %vx%v, want A4", doc.PaperWidth, doc.PaperHeight)
	}
	if doc.Margins.Top != 0 {
		t.Errorf("margin top = %v, want 0", doc.Margins.Top)
	}
	if doc.Regions[0].ID != "a" || doc.Regions[0].Top != 0 {
		t.Errorf("first region = %q at %v, want a at 0", doc.Regions[0].ID, doc.Regions[0].Top)
	}
	it := doc.Regions[0].Items[0]
	if it.X != 5 || it.Width != pagelayout.DefaultMinItemSize || it.Height != pagelayout.DefaultMinItemSize {
		t.Errorf("item = %+v", it)
	}
}

func TestCheckInvariantsReportsViolations(t *testing.T) {
	doc := DefaultTemplate()
	doc.Regions[1].Items[0].Y = 55 // 55..63 crosses the table top at 60
	doc.Regions[0].Items[0].X = 2  // left of the margin

	err := doc.CheckInvariants()
	if !errors.Is(err, pagelayout.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := DefaultTemplate()
	doc.Regions[0].Items[0].Color = &Color{R: 1}
	cp := doc.Clone()

	cp.Regions[0].Items[0].X = 99
	cp.Regions[0].Items[0].Color.R = 50
	cp.Regions[2].Table.Columns[0].Width = 1

	if doc.Regions[0].Items[0].X == 99 || doc.Regions[0].Items[0].Color.R == 50 {
		t.Error("clone shares items with the original")
	}
	if doc.Regions[2].Table.Columns[0].Width == 1 {
		t.Error("clone shares columns with the original")
	}
}

func TestItemLookup(t *testing.T) {
	doc := DefaultTemplate()
	ref := ItemRef{RegionID: doc.Regions[1].ID, Index: 2}
	it, err := doc.Item(ref)
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	if it.Field != "invoiceDate" {
		t.Errorf("field = %q", it.Field)
	}

	if _, err := doc.Item(ItemRef{RegionID: "nope"}); !errors.Is(err, pagelayout.ErrRegionNotFound) {
		t.Errorf("expected ErrRegionNotFound, got %v", err)
	}
	if _, err := doc.Item(ItemRef{RegionID: ref.RegionID, Index: 9}); !errors.Is(err, pagelayout.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestKindLookup(t *testing.T) {
	info, ok := LookupItemKind(Item{Field: "x"})
	if !ok || info.Kind != ItemField {
		t.Errorf("bound item without kind = %v, %v", info.Kind, ok)
	}
	if info, ok := LookupItemKind(Item{Kind: "hologram"}); ok || info.Kind != ItemUnknown {
		t.Errorf("unregistered kind = %v, %v", info.Kind, ok)
	}
	if info, ok := LookupRegionKind(RegionTable); !ok || !info.Reflows {
		t.Errorf("table region kind = %+v, %v", info, ok)
	}
	if _, ok := LookupRegionKind("sidebar"); ok {
		t.Error("unregistered region type resolved")
	}
}

func TestCheckInvariantsReportsNonFiniteGeometry(t *testing.T) {
	doc := DefaultTemplate()
	doc.Regions[0].Items[0].X = math.NaN()
	doc.Regions[3].Top = math.Inf(1)
	doc.Regions[2].Table.Columns[0].Width = math.NaN()

	err := doc.CheckInvariants()
	if !errors.Is(err, pagelayout.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	for _, want := range []string{"non-finite geometry", "top not finite", "non-finite width"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
