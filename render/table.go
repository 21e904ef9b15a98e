package render

import (
	"strings"

	"github.com/lvillar/pagelayout/model"
	"github.com/lvillar/pagelayout/paginate"
)

// TableStyle defines the colors of the table region.
type TableStyle struct {
	HeaderFill  model.Color
	HeaderText  model.Color
	StripeFill  *model.Color // fill of every other body row; nil disables
	BorderColor model.Color
	TotalFill   model.Color
	CellMargin  float64 // horizontal padding in millimeters

	SubtotalLabel string
	TotalLabel    string
}

// DefaultTableStyle returns an indigo header with light gray stripes.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		HeaderFill:    model.Color{R: 63, G: 81, B: 181},
		HeaderText:    model.Color{R: 255, G: 255, B: 255},
		StripeFill:    &model.Color{R: 245, G: 245, B: 245},
		BorderColor:   model.Color{R: 180, G: 180, B: 180},
		TotalFill:     model.Color{R: 230, G: 230, B: 230},
		CellMargin:    1.5,
		SubtotalLabel: "Subtotal",
		TotalLabel:    "Total",
	}
}

const defaultTableFontSize = 9.0

// drawTable draws the header, the page's rows and the subtotal and total
// rows inside the table region. Row heights come from the configuration
// that paginated the page, so the rows fit the region by construction.
func (r *renderer) drawTable(page paginate.PageLayout) {
	if len(page.Columns) == 0 {
		return
	}
	cfg := r.opts.Config
	st := r.opts.Table
	pdf := r.pdf

	size := page.FontSize
	if size <= 0 {
		size = defaultTableFontSize
	}
	x0 := r.doc.Margins.Left
	y := page.TableTop

	pdf.SetCellMargin(st.CellMargin)
	pdf.SetDrawColor(st.BorderColor.R, st.BorderColor.G, st.BorderColor.B)
	pdf.SetLineWidth(defaultLineW)

	// Header
	pdf.SetFont("Helvetica", "B", size)
	pdf.SetFillColor(st.HeaderFill.R, st.HeaderFill.G, st.HeaderFill.B)
	pdf.SetTextColor(st.HeaderText.R, st.HeaderText.G, st.HeaderText.B)
	pdf.SetXY(x0, y)
	for _, c := range page.Columns {
		pdf.CellFormat(c.Width, cfg.HeaderHeight, r.tr(c.Title), "1", 0, cellAlign(c.Align, "C"), true, 0, "")
	}
	y += cfg.HeaderHeight

	// Body
	pdf.SetFont("Helvetica", "", size)
	pdf.SetTextColor(0, 0, 0)
	for i, row := range page.Rows {
		fill := st.StripeFill != nil && i%2 == 1
		if fill {
			pdf.SetFillColor(st.StripeFill.R, st.StripeFill.G, st.StripeFill.B)
		}
		pdf.SetXY(x0, y)
		for _, c := range page.Columns {
			pdf.CellFormat(c.Width, cfg.RowHeight, r.tr(model.Text(row[c.Colname])), "1", 0, cellAlign(c.Align, "L"), fill, 0, "")
		}
		y += cfg.RowHeight
	}

	pdf.SetFont("Helvetica", "B", size)
	pdf.SetFillColor(st.TotalFill.R, st.TotalFill.G, st.TotalFill.B)
	if page.ShowSubtotal {
		r.drawSummaryRow(page.Columns, x0, y, cfg.SubtotalHeight, st.SubtotalLabel, page.SubtotalText)
		y += cfg.SubtotalHeight
	}
	if page.ShowTotal && page.IsLastPage {
		r.drawSummaryRow(page.Columns, x0, y, cfg.TotalHeight, st.TotalLabel, page.GrandTotalText)
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(255, 255, 255)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetCellMargin(1)
}

// drawSummaryRow puts the label across the columns before the amount column
// and the value under it. Without a visible amount column the row is one
// right-aligned cell.
func (r *renderer) drawSummaryRow(cols []paginate.PageColumn, x, y, h float64, label, value string) {
	pdf := r.pdf
	amount := -1
	for i, c := range cols {
		if c.Colname == r.opts.Config.AmountField {
			amount = i
			break
		}
	}

	pdf.SetXY(x, y)
	if amount < 0 {
		var w float64
		for _, c := range cols {
			w += c.Width
		}
		pdf.CellFormat(w, h, r.tr(label+": "+value), "1", 0, "RM", true, 0, "")
		return
	}

	var before float64
	for _, c := range cols[:amount] {
		before += c.Width
	}
	if before > 0 {
		pdf.CellFormat(before, h, r.tr(label), "1", 0, "RM", true, 0, "")
	}
	pdf.CellFormat(cols[amount].Width, h, r.tr(value), "1", 0, "RM", true, 0, "")
	var after float64
	for _, c := range cols[amount+1:] {
		after += c.Width
	}
	if after > 0 {
		pdf.CellFormat(after, h, "", "1", 0, "", true, 0, "")
	}
}

func cellAlign(align, fallback string) string {
	a := strings.ToUpper(align)
	if a == "" {
		a = fallback
	}
	return a + "M"
}
