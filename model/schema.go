// Package model defines the layout document edited by the editor package and
// consumed by the paginator and renderer.
//
// All coordinates are absolute millimeters from the top-left corner of the
// page. A document is a vertical stack of regions; each region is either a
// free-layout band holding positioned items or a table band holding one
// reflowable data grid.
//
// Example JSON:
//
//	{
//	  "paperWidth": 210, "paperHeight": 297,
//	  "margins": {"top": 10, "bottom": 10, "left": 10, "right": 10},
//	  "regions": [
//	    {"id": "head", "top": 0, "type": "free",
//	     "items": [{"kind": "text", "x": 10, "y": 12, "width": 80, "height": 10, "text": "INVOICE"}]},
//	    {"id": "body", "top": 60, "type": "table",
//	     "table": {"cols": [{"colname": "amount", "title": "Amount", "width": 30}], "showTotal": true}}
//	  ]
//	}
package model

import "encoding/json"

// RegionType tags the content a region owns.
type RegionType string

const (
	RegionFree  RegionType = "free"
	RegionTable RegionType = "table"
)

// Document is the persisted layout. Regions are sorted by Top, the first
// region starts at 0 and the last one ends at PaperHeight.
type Document struct {
	PaperWidth  float64  `json:"paperWidth"`
	PaperHeight float64  `json:"paperHeight"`
	Margins     Margins  `json:"margins"`
	Regions     []Region `json:"regions"`
}

// Margins defines the non-printable border of the page.
type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Region is a horizontal band of the page. Its height is implicit: the next
// region's Top (or the paper height) minus its own Top.
type Region struct {
	ID    string     `json:"id"`
	Top   float64    `json:"top"`
	Type  RegionType `json:"type"`
	Items []Item     `json:"items,omitempty"` // free-layout regions
	Table *TableSpec `json:"table,omitempty"` // table regions
}

// Font describes the text face of an item.
type Font struct {
	Family    string  `json:"family,omitempty"` // Helvetica, Courier, Times
	Size      float64 `json:"size,omitempty"`   // points
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline bool    `json:"underline,omitempty"`
}

// Style returns the gofpdf style string ("", "B", "I", "U" combinations).
func (f Font) Style() string {
	s := ""
	if f.Bold {
		s += "B"
	}
	if f.Italic {
		s += "I"
	}
	if f.Underline {
		s += "U"
	}
	return s
}

// Color is an RGB color.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Item is a positioned content node. Field binds it to a data field; Alias
// is the label shown in the editor in place of the field name.
type Item struct {
	Kind   ItemKind `json:"kind,omitempty"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`

	Field string `json:"field,omitempty"`
	Alias string `json:"alias,omitempty"`
	Text  string `json:"text,omitempty"` // literal text, or prefix for bound fields
	Src   string `json:"src,omitempty"`  // image path

	Font      Font    `json:"font"`
	Color     *Color  `json:"color,omitempty"`
	FillColor *Color  `json:"fillColor,omitempty"`
	Align     string  `json:"align,omitempty"` // L, C, R
	LineWidth float64 `json:"lineWidth,omitempty"`
	Visible   bool    `json:"visible"`
}

// UnmarshalJSON decodes an item, treating a missing "visible" as true.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	p := plain{Visible: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*it = Item(p)
	return nil
}

// Right returns the x coordinate of the item's right edge.
func (it Item) Right() float64 { return it.X + it.Width }

// Bottom returns the y coordinate of the item's bottom edge.
func (it Item) Bottom() float64 { return it.Y + it.Height }

// TableSpec is the content of a table region.
type TableSpec struct {
	Columns      []Column `json:"cols"`
	ShowSubtotal bool     `json:"showSubtotal,omitempty"`
	ShowTotal    bool     `json:"showTotal,omitempty"`
	FontSize     float64  `json:"fontSize,omitempty"`
}

// Column is one table column. Width is a share of the table's width budget;
// renderers lay visible columns out proportionally.
type Column struct {
	Colname string  `json:"colname"`
	Title   string  `json:"title"`
	Width   float64 `json:"width"`
	Visible bool    `json:"visible"`
	Align   string  `json:"align,omitempty"`
}

// UnmarshalJSON decodes a column, treating a missing "visible" as true.
func (c *Column) UnmarshalJSON(data []byte) error {
	type plain Column
	p := plain{Visible: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Column(p)
	return nil
}

// VisibleColumns returns the indices of visible columns, in order.
func (t *TableSpec) VisibleColumns() []int {
	if t == nil {
		return nil
	}
	var idx []int
	for i, c := range t.Columns {
		if c.Visible {
			idx = append(idx, i)
		}
	}
	return idx
}

// GuideType is the orientation of an alignment guide.
type GuideType string

const (
	GuideHorizontal GuideType = "horizontal"
	GuideVertical   GuideType = "vertical"
)

// Guide is an alignment line shown while dragging. Vertical guides sit at an
// x position, horizontal guides at a y position. Guides are never persisted.
type Guide struct {
	Type GuideType `json:"type"`
	Pos  float64   `json:"pos"`
}

// ItemRef addresses an item by its region id and index within the region.
type ItemRef struct {
	RegionID string `json:"regionId"`
	Index    int    `json:"index"`
}
