// Package render draws paginated layouts to PDF with gofpdf.
//
// Each page produced by paginate.BuildPages becomes one PDF page. Free-layout
// items are drawn at their absolute positions on every page; the table
// region shows its column header, the page's rows, a subtotal row and, on
// the last page, the total row. Unknown item kinds are skipped.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/model"
	"github.com/lvillar/pagelayout/paginate"
)

// Render paginates ds through doc and writes the resulting PDF to w.
func Render(w io.Writer, doc *model.Document, ds *model.Dataset, opts ...Option) error {
	if doc == nil {
		return fmt.Errorf("render: %w", pagelayout.ErrInvalidDocument)
	}
	o := newOptions(opts)
	doc = doc.Clone().Normalize()
	pages := paginate.BuildPages(doc, ds, o.Config)
	return renderPages(w, doc, pages, o)
}

// RenderPages writes already paginated pages of doc to w.
func RenderPages(w io.Writer, doc *model.Document, pages []paginate.PageLayout, opts ...Option) error {
	if doc == nil {
		return fmt.Errorf("render: %w", pagelayout.ErrInvalidDocument)
	}
	return renderPages(w, doc.Clone().Normalize(), pages, newOptions(opts))
}

// RenderJSON parses a layout document and an optional dataset, both JSON,
// and writes the PDF to w.
func RenderJSON(w io.Writer, layout, data []byte, opts ...Option) error {
	doc, err := model.Parse(layout)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	var ds model.Dataset
	if len(data) > 0 {
		if err := json.Unmarshal(data, &ds); err != nil {
			return fmt.Errorf("render: parsing data: %w", err)
		}
	}
	return Render(w, doc, &ds, opts...)
}

type renderer struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	doc    *model.Document
	opts   Options
	images map[string]string // source path to registered image name
}

func renderPages(w io.Writer, doc *model.Document, pages []paginate.PageLayout, o Options) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: doc.PaperWidth, Ht: doc.PaperHeight},
	})
	pdf.SetMargins(doc.Margins.Left, doc.Margins.Top, doc.Margins.Right)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("pagelayout", true)
	if o.Title != "" {
		pdf.SetTitle(o.Title, true)
	}
	if o.Author != "" {
		pdf.SetAuthor(o.Author, true)
	}

	r := &renderer{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		doc:    doc,
		opts:   o,
		images: make(map[string]string),
	}

	background, err := r.importBackground()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if o.PageNumbers != "" {
		pdf.AliasNbPages("")
		pdf.SetFooterFunc(r.drawPageNumber)
	}

	if len(pages) == 0 {
		pages = []paginate.PageLayout{{IsLastPage: true}}
	}
	for _, page := range pages {
		pdf.AddPage()
		if background != nil {
			background()
		}
		for _, it := range page.Items {
			if err := r.drawItem(it); err != nil {
				return fmt.Errorf("render: page %d: %w", page.PageIndex+1, err)
			}
		}
		if page.HasTable {
			r.drawTable(page)
		}
		if o.Watermark.Text != "" {
			r.drawWatermark()
		}
		if pdf.Err() {
			return fmt.Errorf("render: page %d: %w", page.PageIndex+1, pdf.Error())
		}
	}

	if pdf.Err() {
		return fmt.Errorf("render: %w", pdf.Error())
	}
	return pdf.Output(w)
}

// setFont selects a core font. Families other than the PDF core fonts fall
// back to Helvetica since no font files are embedded.
func (r *renderer) setFont(f model.Font, defaultSize float64) {
	size := f.Size
	if size <= 0 {
		size = defaultSize
	}
	r.pdf.SetFont(coreFamily(f.Family), f.Style(), size)
}

func coreFamily(family string) string {
	switch family {
	case "Courier", "courier":
		return "Courier"
	case "Times", "times", "Times New Roman":
		return "Times"
	case "Arial", "arial":
		return "Arial"
	case "Symbol", "symbol":
		return "Symbol"
	case "ZapfDingbats", "zapfdingbats":
		return "ZapfDingbats"
	}
	return "Helvetica"
}

func (r *renderer) setTextColor(c *model.Color) {
	if c == nil {
		r.pdf.SetTextColor(0, 0, 0)
		return
	}
	r.pdf.SetTextColor(c.R, c.G, c.B)
}
