package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	pagelayout "github.com/lvillar/pagelayout"
)

// Epsilon absorbs floating point noise in invariant checks.
const Epsilon = 1e-6

// Parse decodes a JSON document and normalizes it.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("model: parsing document: %w", err)
	}
	return doc.Normalize(), nil
}

// Marshal encodes a document as indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("model: encoding document: %w", err)
	}
	return data, nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Regions = make([]Region, len(d.Regions))
	for i, r := range d.Regions {
		out.Regions[i] = r.clone()
	}
	return &out
}

func (r Region) clone() Region {
	out := r
	if r.Items != nil {
		out.Items = make([]Item, len(r.Items))
		for i, it := range r.Items {
			out.Items[i] = it.clone()
		}
	}
	if r.Table != nil {
		t := *r.Table
		t.Columns = append([]Column(nil), r.Table.Columns...)
		out.Table = &t
	}
	return out
}

func (it Item) clone() Item {
	out := it
	if it.Color != nil {
		c := *it.Color
		out.Color = &c
	}
	if it.FillColor != nil {
		c := *it.FillColor
		out.FillColor = &c
	}
	return out
}

// Normalize repairs a document in place so that layout math can rely on it:
// paper dimensions fall back to A4 when missing or not finite, margins and
// item geometry lose NaN values, regions are sorted by Top and the first
// region starts at 0. It returns d for chaining.
func (d *Document) Normalize() *Document {
	d.PaperWidth = pagelayout.Positive(d.PaperWidth, pagelayout.DefaultPaperWidth)
	d.PaperHeight = pagelayout.Positive(d.PaperHeight, pagelayout.DefaultPaperHeight)
	d.Margins.Top = nonNegative(d.Margins.Top)
	d.Margins.Bottom = nonNegative(d.Margins.Bottom)
	d.Margins.Left = nonNegative(d.Margins.Left)
	d.Margins.Right = nonNegative(d.Margins.Right)

	sort.SliceStable(d.Regions, func(i, j int) bool {
		return d.Regions[i].Top < d.Regions[j].Top
	})
	for i := range d.Regions {
		r := &d.Regions[i]
		r.Top = math.Min(nonNegative(r.Top), d.PaperHeight)
		for j := range r.Items {
			it := &r.Items[j]
			it.X = pagelayout.Finite(it.X, d.Margins.Left)
			it.Y = pagelayout.Finite(it.Y, d.Margins.Top)
			it.Width = pagelayout.Positive(it.Width, pagelayout.DefaultMinItemSize)
			it.Height = pagelayout.Positive(it.Height, pagelayout.DefaultMinItemSize)
		}
		if r.Table != nil {
			for j := range r.Table.Columns {
				r.Table.Columns[j].Width = nonNegative(r.Table.Columns[j].Width)
			}
		}
	}
	if len(d.Regions) > 0 {
		d.Regions[0].Top = 0
	}
	return d
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// RegionBottom returns the lower boundary of region i: the next region's Top,
// or the paper height for the last region.
func (d *Document) RegionBottom(i int) float64 {
	if i+1 < len(d.Regions) {
		return d.Regions[i+1].Top
	}
	return d.PaperHeight
}

// RegionHeight returns the implicit height of region i.
func (d *Document) RegionHeight(i int) float64 {
	return d.RegionBottom(i) - d.Regions[i].Top
}

// RegionIndex returns the index of the region with the given id, or -1.
func (d *Document) RegionIndex(id string) int {
	for i, r := range d.Regions {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// TableRegionIndex returns the index of the first table region, or -1.
func (d *Document) TableRegionIndex() int {
	for i, r := range d.Regions {
		if r.Type == RegionTable {
			return i
		}
	}
	return -1
}

// TableBand returns the vertical extent of the first table region.
func (d *Document) TableBand() (top, bottom float64, ok bool) {
	i := d.TableRegionIndex()
	if i < 0 {
		return 0, 0, false
	}
	return d.Regions[i].Top, d.RegionBottom(i), true
}

// Item returns a pointer to the referenced item.
func (d *Document) Item(ref ItemRef) (*Item, error) {
	ri := d.RegionIndex(ref.RegionID)
	if ri < 0 {
		return nil, fmt.Errorf("model: region %q: %w", ref.RegionID, pagelayout.ErrRegionNotFound)
	}
	r := &d.Regions[ri]
	if ref.Index < 0 || ref.Index >= len(r.Items) {
		return nil, fmt.Errorf("model: item %d in region %q: %w", ref.Index, ref.RegionID, pagelayout.ErrItemNotFound)
	}
	return &r.Items[ref.Index], nil
}

// ContentBottom returns the largest item bottom edge in region i, or the
// region's Top when it holds no items.
func (d *Document) ContentBottom(i int) float64 {
	r := d.Regions[i]
	bottom := r.Top
	for _, it := range r.Items {
		bottom = math.Max(bottom, it.Bottom())
	}
	return bottom
}

// CheckInvariants reports every violated document invariant: finite
// geometry, region order, item bounds against the printable area, and
// free-layout items overlapping the table band. It returns nil for a
// consistent document.
func (d *Document) CheckInvariants() error {
	var errs []error
	if !finite(d.PaperWidth, d.PaperHeight, d.Margins.Top, d.Margins.Bottom, d.Margins.Left, d.Margins.Right) {
		errs = append(errs, fmt.Errorf("paper size or margins not finite"))
	}
	for _, r := range d.Regions {
		if !finite(r.Top) {
			errs = append(errs, fmt.Errorf("region %q top not finite", r.ID))
		}
		for j, it := range r.Items {
			if !finite(it.X, it.Y, it.Width, it.Height) {
				errs = append(errs, fmt.Errorf("item %d in region %q has non-finite geometry", j, r.ID))
			}
		}
		if r.Table != nil {
			for j, c := range r.Table.Columns {
				if !finite(c.Width) {
					errs = append(errs, fmt.Errorf("column %d in region %q has non-finite width", j, r.ID))
				}
			}
		}
	}
	if len(d.Regions) > 0 && d.Regions[0].Top != 0 {
		errs = append(errs, fmt.Errorf("first region %q starts at %.3f", d.Regions[0].ID, d.Regions[0].Top))
	}
	for i := 1; i < len(d.Regions); i++ {
		if d.Regions[i].Top < d.Regions[i-1].Top {
			errs = append(errs, fmt.Errorf("region %q above its predecessor %q", d.Regions[i].ID, d.Regions[i-1].ID))
		}
	}
	if n := len(d.Regions); n > 0 && d.Regions[n-1].Top > d.PaperHeight {
		errs = append(errs, fmt.Errorf("region %q starts below the page", d.Regions[n-1].ID))
	}

	left, right := d.Margins.Left, d.PaperWidth-d.Margins.Right
	top, bottom := d.Margins.Top, d.PaperHeight-d.Margins.Bottom
	bandTop, bandBottom, hasBand := d.TableBand()
	for _, r := range d.Regions {
		if r.Type == RegionTable {
			continue
		}
		for j, it := range r.Items {
			if it.X < left-Epsilon || it.Right() > right+Epsilon || it.Y < top-Epsilon || it.Bottom() > bottom+Epsilon {
				errs = append(errs, fmt.Errorf("item %d in region %q outside printable area", j, r.ID))
			}
			if hasBand && it.Y < bandBottom-Epsilon && it.Bottom() > bandTop+Epsilon {
				errs = append(errs, fmt.Errorf("item %d in region %q overlaps the table band", j, r.ID))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", pagelayout.ErrInvalidDocument, errors.Join(errs...))
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
