package paginate

import (
	"math"
	"strconv"
	"strings"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/model"
)

// PlacedItem is a free-layout item with its display content resolved.
type PlacedItem struct {
	Item    model.Item `json:"item"`
	Content string     `json:"content"` // text, barcode payload or image path
}

// PageColumn is a visible table column with its share of the table width.
type PageColumn struct {
	Colname string  `json:"colname"`
	Title   string  `json:"title"`
	Align   string  `json:"align,omitempty"`
	Percent float64 `json:"percent"`
	Width   float64 `json:"width"` // millimeters across the printable width
}

// PageLayout is everything a renderer needs to draw one page.
type PageLayout struct {
	PageIndex  int          `json:"pageIndex"`
	IsLastPage bool         `json:"isLastPage"`
	Items      []PlacedItem `json:"items"`

	HasTable       bool         `json:"hasTable"`
	TableTop       float64      `json:"tableTop,omitempty"`
	TableHeight    float64      `json:"tableHeight,omitempty"`
	FontSize       float64      `json:"fontSize,omitempty"`
	Columns        []PageColumn `json:"columns,omitempty"`
	FirstRow       int          `json:"firstRow"`
	Rows           []model.Row  `json:"rows,omitempty"`
	ShowSubtotal   bool         `json:"showSubtotal,omitempty"`
	ShowTotal      bool         `json:"showTotal,omitempty"`
	Subtotal       float64      `json:"subtotal"`
	SubtotalText   string       `json:"subtotalText,omitempty"`
	GrandTotal     float64      `json:"grandTotal"`
	GrandTotalText string       `json:"grandTotalText,omitempty"` // last page only
}

// BuildPages paginates the rows of ds through the first table region of doc
// and returns one layout per page. The table's available height is the part
// of its region inside the page margins. Free-layout items appear on every
// page. A document without a table region yields a single page.
//
// The placeholders {page} and {pages} in item text are replaced with the
// 1-based page number and the page count.
func BuildPages(doc *model.Document, ds *model.Dataset, cfg pagelayout.Config) []PageLayout {
	cfg = cfg.Sanitized()
	if ds == nil {
		ds = &model.Dataset{}
	}
	items := placeItems(doc, ds)

	ti := doc.TableRegionIndex()
	if ti < 0 {
		return []PageLayout{{IsLastPage: true, Items: expandPageNumbers(items, 1, 1)}}
	}
	region := doc.Regions[ti]
	table := region.Table
	if table == nil {
		table = &model.TableSpec{}
	}

	// The band is clipped to the printable area so rows never reach the margins.
	top := math.Max(region.Top, doc.Margins.Top)
	bottom := math.Min(doc.RegionBottom(ti), doc.PaperHeight-doc.Margins.Bottom)
	opts := OptionsFromConfig(cfg, math.Max(0, bottom-top), table.ShowTotal)
	opts.GrandTotal = GrandTotalOverride(ds, cfg.TotalField)
	chunks := Paginate(ds.Rows, opts)

	columns := percentColumns(table, doc.PaperWidth-doc.Margins.Left-doc.Margins.Right)
	fmtr := NewFormatter(cfg.Locale)

	pages := make([]PageLayout, len(chunks))
	for i, c := range chunks {
		p := PageLayout{
			PageIndex:    c.Index,
			IsLastPage:   c.IsLastPage,
			Items:        expandPageNumbers(items, i+1, len(chunks)),
			HasTable:     true,
			TableTop:     top,
			TableHeight:  opts.AvailableHeight,
			FontSize:     table.FontSize,
			Columns:      columns,
			FirstRow:     c.Start,
			Rows:         c.Rows,
			ShowSubtotal: table.ShowSubtotal,
			ShowTotal:    table.ShowTotal,
			Subtotal:     c.Subtotal,
			SubtotalText: fmtr.Format(c.Subtotal),
		}
		if c.IsLastPage {
			p.GrandTotal = c.GrandTotal
			p.GrandTotalText = fmtr.Format(c.GrandTotal)
		}
		pages[i] = p
	}
	return pages
}

// percentColumns lays the visible columns out across width in proportion to
// their nominal widths. Columns with no width at all share equally.
func percentColumns(t *model.TableSpec, width float64) []PageColumn {
	visible := t.VisibleColumns()
	if len(visible) == 0 {
		return nil
	}
	var sum float64
	for _, i := range visible {
		sum += t.Columns[i].Width
	}
	cols := make([]PageColumn, 0, len(visible))
	for _, i := range visible {
		c := t.Columns[i]
		share := 1 / float64(len(visible))
		if sum > 0 {
			share = c.Width / sum
		}
		cols = append(cols, PageColumn{
			Colname: c.Colname,
			Title:   c.Title,
			Align:   c.Align,
			Percent: share * 100,
			Width:   share * width,
		})
	}
	return cols
}

func placeItems(doc *model.Document, ds *model.Dataset) []PlacedItem {
	var out []PlacedItem
	for _, r := range doc.Regions {
		info, _ := model.LookupRegionKind(r.Type)
		if !info.HoldsItems {
			continue
		}
		for _, it := range r.Items {
			if !it.Visible {
				continue
			}
			out = append(out, PlacedItem{Item: it, Content: content(it, ds)})
		}
	}
	return out
}

// content resolves what an item displays. Text and field items show their
// text followed by the bound value; other bound kinds use the value alone.
func content(it model.Item, ds *model.Dataset) string {
	info, _ := model.LookupItemKind(it)
	var value string
	bound := false
	if info.Bindable && it.Field != "" {
		if v, ok := ds.Field(it.Field); ok {
			value, bound = model.Text(v), true
		}
	}
	switch info.Kind {
	case model.ItemText, model.ItemField:
		return it.Text + value
	case model.ItemImage:
		if bound {
			return value
		}
		return it.Src
	default:
		if bound {
			return value
		}
		return it.Text
	}
}

func expandPageNumbers(items []PlacedItem, page, pages int) []PlacedItem {
	out := make([]PlacedItem, len(items))
	r := strings.NewReplacer("{page}", strconv.Itoa(page), "{pages}", strconv.Itoa(pages))
	for i, it := range items {
		it.Content = r.Replace(it.Content)
		out[i] = it
	}
	return out
}
