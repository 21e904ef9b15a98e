// Package paginate flows the rows of a table region across pages.
//
// Paginate is a pure function of the rows and the page geometry: calling it
// twice with the same input yields the same chunks. Every non-final page
// reserves space for the column header and a subtotal row; the final page
// additionally reserves a total row when one is shown. BuildPages combines
// the chunks with the free-layout items of a document into render-ready page
// layouts.
package paginate

import (
	"math"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/model"
)

// Options describes the table geometry used for pagination. Heights are in
// millimeters.
type Options struct {
	AvailableHeight float64 // height of the table region
	RowHeight       float64
	HeaderHeight    float64
	SubtotalHeight  float64
	TotalHeight     float64
	ShowTotal       bool

	AmountField string   // row field summed into subtotals
	GrandTotal  *float64 // explicit grand total; nil sums every row
}

// Chunk is the slice of rows assigned to one page.
type Chunk struct {
	Index      int         `json:"index"`
	Start      int         `json:"start"` // index of the first row in the full list
	Rows       []model.Row `json:"rows"`
	IsLastPage bool        `json:"isLastPage"`
	Subtotal   float64     `json:"subtotal"`
	GrandTotal float64     `json:"grandTotal"` // set on the last page only
}

// OptionsFromConfig returns pagination options for a table region of the
// given height using the row heights and amount field of cfg.
func OptionsFromConfig(cfg pagelayout.Config, available float64, showTotal bool) Options {
	cfg = cfg.Sanitized()
	return Options{
		AvailableHeight: available,
		RowHeight:       cfg.RowHeight,
		HeaderHeight:    cfg.HeaderHeight,
		SubtotalHeight:  cfg.SubtotalHeight,
		TotalHeight:     cfg.TotalHeight,
		ShowTotal:       showTotal,
		AmountField:     cfg.AmountField,
	}
}

func (o Options) sanitized() Options {
	o.AvailableHeight = nonNegative(o.AvailableHeight)
	o.RowHeight = pagelayout.Positive(o.RowHeight, pagelayout.DefaultRowHeight)
	o.HeaderHeight = nonNegative(o.HeaderHeight)
	o.SubtotalHeight = nonNegative(o.SubtotalHeight)
	o.TotalHeight = nonNegative(o.TotalHeight)
	if o.AmountField == "" {
		o.AmountField = pagelayout.DefaultAmountField
	}
	return o
}

// NormalPageRows returns the row budget of any page that is not the last one.
// It is at least 1 so pagination always makes progress.
func NormalPageRows(opts Options) int {
	o := opts.sanitized()
	return max(1, floorRows(o.AvailableHeight-o.HeaderHeight-o.SubtotalHeight, o.RowHeight))
}

// Paginate splits rows into page chunks. A page that can hold every
// remaining row together with its header, subtotal and (when shown) total
// row is the last page. When the remaining rows fit a normal page but not
// with the total row, the page takes as many rows as fit beside the total;
// if not even one does, it takes the remaining rows and the total row moves
// to a trailing page without rows.
//
// An empty row list still produces one empty last page.
func Paginate(rows []model.Row, opts Options) []Chunk {
	o := opts.sanitized()
	normal := NormalPageRows(o)
	totalH := 0.0
	if o.ShowTotal {
		totalH = o.TotalHeight
	}

	var chunks []Chunk
	add := func(start, n int, last bool) {
		chunks = append(chunks, Chunk{
			Index:      len(chunks),
			Start:      start,
			Rows:       rows[start : start+n : start+n],
			IsLastPage: last,
		})
	}

	start := 0
	for start < len(rows) {
		remaining := len(rows) - start
		if remaining > normal {
			add(start, normal, false)
			start += normal
			continue
		}

		content := o.HeaderHeight + float64(remaining)*o.RowHeight + o.SubtotalHeight + totalH
		if content <= o.AvailableHeight+model.Epsilon {
			add(start, remaining, true)
			break
		}

		withTotal := floorRows(o.AvailableHeight-o.HeaderHeight-o.SubtotalHeight-totalH, o.RowHeight)
		if withTotal >= 1 {
			n := min(withTotal, remaining)
			add(start, n, n == remaining)
			start += n
			continue
		}

		// Not even one row fits beside the total row.
		add(start, remaining, !o.ShowTotal)
		start += remaining
		if o.ShowTotal {
			add(start, 0, true)
		}
		break
	}
	if len(chunks) == 0 {
		add(0, 0, true)
	}

	grand := SumAmounts(rows, o.AmountField)
	if o.GrandTotal != nil {
		grand = *o.GrandTotal
	}
	for i := range chunks {
		chunks[i].Subtotal = SumAmounts(chunks[i].Rows, o.AmountField)
		if chunks[i].IsLastPage {
			chunks[i].GrandTotal = grand
		}
	}
	return chunks
}

// floorRows returns how many rows of height row fit in space, tolerating
// floating point error at exact multiples.
func floorRows(space, row float64) int {
	n := math.Floor(space/row + model.Epsilon)
	if math.IsNaN(n) || n < 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
