package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

// importBackground loads the first page of the background PDF as a template
// and returns a function drawing it over the full current page, or nil when
// no background is configured. The importer panics on malformed files; that
// is reported as an error.
func (r *renderer) importBackground() (draw func(), err error) {
	path := r.opts.Background
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			draw, err = nil, fmt.Errorf("background %s: %v", path, p)
		}
	}()

	imp := gofpdi.NewImporter()
	tpl := imp.ImportPage(r.pdf, path, 1, "/MediaBox")
	return func() {
		imp.UseImportedTemplate(r.pdf, tpl, 0, 0, r.doc.PaperWidth, r.doc.PaperHeight)
	}, nil
}

// drawWatermark renders the watermark text rotated around the page center.
func (r *renderer) drawWatermark() {
	wm := r.opts.Watermark
	pdf := r.pdf

	pdf.SetFont("Helvetica", "B", wm.FontSize)
	pdf.SetTextColor(wm.Color.R, wm.Color.G, wm.Color.B)
	pdf.SetAlpha(wm.Opacity, "Normal")

	text := r.tr(wm.Text)
	textW := pdf.GetStringWidth(text)
	_, fontH := pdf.GetFontSize()
	cx := r.doc.PaperWidth / 2
	cy := r.doc.PaperHeight / 2

	pdf.TransformBegin()
	pdf.TransformRotate(wm.Angle, cx, cy)
	pdf.Text(cx-textW/2, cy+fontH/3, text)
	pdf.TransformEnd()

	pdf.SetAlpha(1.0, "Normal")
	pdf.SetTextColor(0, 0, 0)
}

// drawPageNumber is the footer callback. {pages} maps to gofpdf's page count
// alias, which is substituted when the document is closed.
func (r *renderer) drawPageNumber() {
	pdf := r.pdf
	text := strings.ReplaceAll(r.opts.PageNumbers, "{page}", strconv.Itoa(pdf.PageNo()))
	text = strings.ReplaceAll(text, "{pages}", "{nb}")

	m := r.doc.Margins
	w := r.doc.PaperWidth - m.Left - m.Right
	h := m.Bottom
	if h < 5 {
		h = 5
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.SetXY(m.Left, r.doc.PaperHeight-h)
	pdf.CellFormat(w, h, r.tr(text), "", 0, "CM", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
