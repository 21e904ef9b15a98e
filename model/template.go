package model

import (
	"github.com/google/uuid"

	pagelayout "github.com/lvillar/pagelayout"
)

// DefaultTemplate returns the four-band invoice layout: a title band, a
// header band with bound fields, a table body and a footer. Region ids are
// fresh UUIDs.
func DefaultTemplate() *Document {
	w, h := pagelayout.PaperSize(pagelayout.PaperA4)
	m := pagelayout.DefaultMargin
	bold := Font{Family: "Helvetica", Size: 18, Bold: true}
	body := Font{Family: "Helvetica", Size: 10}

	return &Document{
		PaperWidth:  w,
		PaperHeight: h,
		Margins:     Margins{Top: m, Bottom: m, Left: m, Right: m},
		Regions: []Region{
			{
				ID:   uuid.NewString(),
				Top:  0,
				Type: RegionFree,
				Items: []Item{
					{Kind: ItemText, X: 10, Y: 12, Width: 80, Height: 12, Text: "INVOICE", Font: bold, Visible: true},
					{Kind: ItemField, X: 130, Y: 14, Width: 70, Height: 8, Field: "invoiceNo", Alias: "Invoice No.", Text: "No. ", Font: body, Align: "R", Visible: true},
				},
			},
			{
				ID:   uuid.NewString(),
				Top:  30,
				Type: RegionFree,
				Items: []Item{
					{Kind: ItemField, X: 10, Y: 34, Width: 100, Height: 8, Field: "customerName", Alias: "Customer", Font: body, Visible: true},
					{Kind: ItemField, X: 10, Y: 44, Width: 100, Height: 8, Field: "customerAddress", Alias: "Address", Font: body, Visible: true},
					{Kind: ItemField, X: 130, Y: 34, Width: 70, Height: 8, Field: "invoiceDate", Alias: "Date", Text: "Date: ", Font: body, Align: "R", Visible: true},
				},
			},
			{
				ID:   uuid.NewString(),
				Top:  60,
				Type: RegionTable,
				Table: &TableSpec{
					Columns: []Column{
						{Colname: "no", Title: "#", Width: 10, Visible: true, Align: "C"},
						{Colname: "name", Title: "Item", Width: 80, Visible: true},
						{Colname: "qty", Title: "Qty", Width: 20, Visible: true, Align: "R"},
						{Colname: "price", Title: "Price", Width: 30, Visible: true, Align: "R"},
						{Colname: "amount", Title: "Amount", Width: 30, Visible: true, Align: "R"},
						{Colname: "memo", Title: "Memo", Width: 20, Visible: false},
					},
					ShowSubtotal: true,
					ShowTotal:    true,
					FontSize:     9,
				},
			},
			{
				ID:   uuid.NewString(),
				Top:  250,
				Type: RegionFree,
				Items: []Item{
					{Kind: ItemText, X: 10, Y: 258, Width: 120, Height: 8, Text: "Thank you for your business.", Font: body, Visible: true},
					{Kind: ItemQRCode, X: 175, Y: 258, Width: 25, Height: 25, Field: "invoiceNo", Alias: "Invoice No.", Visible: true},
				},
			},
		},
	}
}

// SingleTableTemplate returns an A4 document whose whole page is one table
// region.
func SingleTableTemplate() *Document {
	w, h := pagelayout.PaperSize(pagelayout.PaperA4)
	m := pagelayout.DefaultMargin
	return &Document{
		PaperWidth:  w,
		PaperHeight: h,
		Margins:     Margins{Top: m, Bottom: m, Left: m, Right: m},
		Regions: []Region{{
			ID:   uuid.NewString(),
			Top:  0,
			Type: RegionTable,
			Table: &TableSpec{
				Columns: []Column{
					{Colname: "name", Title: "Item", Width: 120, Visible: true},
					{Colname: "amount", Title: "Amount", Width: 70, Visible: true, Align: "R"},
				},
				ShowTotal: true,
			},
		}},
	}
}

// Template returns a built-in template by name ("default", "single-table").
func Template(name string) (*Document, bool) {
	switch name {
	case "default", "":
		return DefaultTemplate(), true
	case "single-table":
		return SingleTableTemplate(), true
	}
	return nil, false
}
