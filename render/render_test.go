package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/bmp"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/model"
	"github.com/lvillar/pagelayout/paginate"
)

// pageCount counts page objects in uncompressed PDF structure.
func pageCount(pdf []byte) int {
	return bytes.Count(pdf, []byte("/Type /Page\n"))
}

func invoiceData(rows int) *model.Dataset {
	ds := &model.Dataset{
		Fields: map[string]any{
			"invoiceNo":       "INV-2024-001",
			"customerName":    "Acme Café",
			"customerAddress": "1 Main St",
			"invoiceDate":     "2024-01-15",
		},
	}
	for i := 0; i < rows; i++ {
		ds.Rows = append(ds.Rows, model.Row{
			"no": float64(i + 1), "name": "Widget", "qty": 2.0, "price": "$5.00", "amount": "$10.00",
		})
	}
	return ds
}

func TestRenderDefaultTemplate(t *testing.T) {
	doc := model.DefaultTemplate()
	ds := invoiceData(30)

	var buf bytes.Buffer
	if err := Render(&buf, doc, ds); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}

	want := len(paginate.BuildPages(doc, ds, pagelayout.NewConfig()))
	if got := pageCount(buf.Bytes()); got != want {
		t.Errorf("pages = %d, want %d", got, want)
	}
}

func TestRenderEmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, model.DefaultTemplate(), nil); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := pageCount(buf.Bytes()); got != 1 {
		t.Errorf("pages = %d, want 1", got)
	}
}

func TestRenderSingleTableManyRows(t *testing.T) {
	doc := model.SingleTableTemplate()
	ds := invoiceData(120)

	var buf bytes.Buffer
	if err := Render(&buf, doc, ds, WithMetadata("Statement", "Accounts")); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := len(paginate.BuildPages(doc, ds, pagelayout.NewConfig()))
	if want < 2 {
		t.Fatalf("expected several pages, BuildPages returned %d", want)
	}
	if got := pageCount(buf.Bytes()); got != want {
		t.Errorf("pages = %d, want %d", got, want)
	}
}

func writeTestImages(t *testing.T) (pngPath, bmpPath string) {
	t.Helper()
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}

	pngPath = filepath.Join(dir, "logo.png")
	f, err := os.Create(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	bmpPath = filepath.Join(dir, "stamp.bmp")
	f, err = os.Create(bmpPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return pngPath, bmpPath
}

func TestRenderAllItemKinds(t *testing.T) {
	pngPath, bmpPath := writeTestImages(t)
	blue := &model.Color{R: 0, G: 0, B: 200}
	doc := &model.Document{
		PaperWidth:  210,
		PaperHeight: 297,
		Margins:     model.Margins{Top: 10, Bottom: 10, Left: 10, Right: 10},
		Regions: []model.Region{{
			ID:   "all",
			Type: model.RegionFree,
			Items: []model.Item{
				{Kind: model.ItemText, X: 10, Y: 10, Width: 80, Height: 10, Text: "Kinds", Font: model.Font{Bold: true, Size: 14}, Visible: true},
				{Kind: model.ItemField, X: 10, Y: 22, Width: 80, Height: 8, Field: "ref", Text: "Ref: ", Color: blue, Align: "R", Visible: true},
				{Kind: model.ItemText, X: 10, Y: 32, Width: 40, Height: 8, Text: "a long line that wraps\nonto two", Font: model.Font{Family: "Times", Italic: true}, Visible: true},
				{Kind: model.ItemBarcode, X: 10, Y: 50, Width: 60, Height: 15, Field: "ref", Visible: true},
				{Kind: model.ItemQRCode, X: 80, Y: 50, Width: 25, Height: 25, Field: "ref", Visible: true},
				{Kind: model.ItemPDF417, X: 110, Y: 50, Width: 60, Height: 20, Text: "STATIC-417", Visible: true},
				{Kind: model.ItemLine, X: 10, Y: 80, Width: 190, Height: 1, LineWidth: 0.5, Color: blue, Visible: true},
				{Kind: model.ItemLine, X: 100, Y: 85, Width: 1, Height: 30, Visible: true},
				{Kind: model.ItemRect, X: 10, Y: 120, Width: 50, Height: 20, FillColor: &model.Color{R: 240, G: 240, B: 200}, Visible: true},
				{Kind: model.ItemImage, X: 10, Y: 150, Width: 20, Height: 20, Src: pngPath, Visible: true},
				{Kind: model.ItemImage, X: 40, Y: 150, Width: 20, Height: 20, Src: bmpPath, Visible: true},
				{Kind: "sparkle", X: 70, Y: 150, Width: 20, Height: 20, Visible: true},
				{Kind: model.ItemText, X: 10, Y: 180, Width: 80, Height: 8, Text: "hidden", Visible: false},
			},
		}},
	}
	ds := &model.Dataset{Fields: map[string]any{"ref": "ABC-123"}}

	var buf bytes.Buffer
	if err := Render(&buf, doc, ds); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if pageCount(buf.Bytes()) != 1 {
		t.Errorf("pages = %d, want 1", pageCount(buf.Bytes()))
	}
}

func TestRenderMissingImage(t *testing.T) {
	doc := &model.Document{
		PaperWidth: 210, PaperHeight: 297,
		Regions: []model.Region{{ID: "r", Type: model.RegionFree, Items: []model.Item{
			{Kind: model.ItemImage, X: 10, Y: 10, Width: 20, Height: 20, Src: filepath.Join(t.TempDir(), "missing.bmp"), Visible: true},
		}}},
	}
	var buf bytes.Buffer
	if err := Render(&buf, doc, nil); err == nil {
		t.Fatal("expected an error for a missing image")
	}
}

func TestRenderImageSourceRestrictions(t *testing.T) {
	pngPath, _ := writeTestImages(t)
	root := filepath.Dir(pngPath)
	tests := []struct {
		name    string
		src     string
		opt     Option
		allowed bool
	}{
		{"relative png", "logo.png", WithImageRoot(root), true},
		{"relative bmp", "stamp.bmp", WithImageRoot(root), true},
		{"absolute", pngPath, WithImageRoot(root), false},
		{"escapes root", "../logo.png", WithImageRoot(root), false},
		{"system file", "/etc/hosts.bmp", WithImageRoot(root), false},
		{"files disabled", "logo.png", WithoutFileImages(), false},
		{"files disabled absolute", pngPath, WithoutFileImages(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &model.Document{
				PaperWidth: 210, PaperHeight: 297,
				Regions: []model.Region{{ID: "r", Type: model.RegionFree, Items: []model.Item{
					{Kind: model.ItemImage, X: 10, Y: 10, Width: 20, Height: 20, Src: tt.src, Visible: true},
				}}},
			}
			var buf bytes.Buffer
			err := Render(&buf, doc, nil, tt.opt)
			if tt.allowed && err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if !tt.allowed && !errors.Is(err, pagelayout.ErrImageNotAllowed) {
				t.Fatalf("expected ErrImageNotAllowed, got %v", err)
			}
		})
	}
}

func TestRenderNilDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil, nil); !errors.Is(err, pagelayout.ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
	if err := RenderPages(&buf, nil, nil); !errors.Is(err, pagelayout.ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestRenderJSON(t *testing.T) {
	layout, err := model.Marshal(model.DefaultTemplate())
	if err != nil {
		t.Fatal(err)
	}
	data := []byte(`{"fields": {"invoiceNo": "INV-9", "totalAmount": "$1,000.00"},
		"rows": [{"no": 1, "name": "Consulting", "qty": 1, "price": "$1,000.00", "amount": "$1,000.00"}]}`)

	var buf bytes.Buffer
	if err := RenderJSON(&buf, layout, data); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}

	if err := RenderJSON(&buf, []byte("{"), nil); err == nil {
		t.Error("expected an error for malformed layout JSON")
	}
	if err := RenderJSON(&buf, layout, []byte("[")); err == nil {
		t.Error("expected an error for malformed data JSON")
	}
}

func writeLetterhead(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "letterhead.pdf")
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(10, 8, "ACME CORPORATION")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("writing letterhead: %v", err)
	}
	return path
}

func TestRenderWithDecorations(t *testing.T) {
	ds := invoiceData(40)
	var buf bytes.Buffer
	err := Render(&buf, model.DefaultTemplate(), ds,
		WithBackground(writeLetterhead(t)),
		WithWatermark("DRAFT"),
		WithPageNumbers("Page {page} of {pages}"),
	)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
	if pageCount(buf.Bytes()) < 2 {
		t.Errorf("pages = %d, want at least 2", pageCount(buf.Bytes()))
	}
}

func TestRenderMissingBackground(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, model.DefaultTemplate(), nil, WithBackground(filepath.Join(t.TempDir(), "none.pdf")))
	if err == nil {
		t.Fatal("expected an error for a missing background")
	}
}

func TestRenderPagesUsesGivenPagination(t *testing.T) {
	doc := model.DefaultTemplate()
	pages := paginate.BuildPages(doc, invoiceData(5), pagelayout.NewConfig())
	pages = append(pages, paginate.PageLayout{PageIndex: 1, IsLastPage: true})

	var buf bytes.Buffer
	if err := RenderPages(&buf, doc, pages, WithTableStyle(TableStyle{CellMargin: 1})); err != nil {
		t.Fatalf("RenderPages failed: %v", err)
	}
	if got := pageCount(buf.Bytes()); got != 2 {
		t.Errorf("pages = %d, want 2", got)
	}
}

func TestWatermarkDefaults(t *testing.T) {
	wm := WatermarkStyle{Text: "COPY"}.withDefaults()
	if wm.FontSize != 60 || wm.Opacity != 0.3 || wm.Angle != 45 || wm.Color != (model.Color{R: 200, G: 200, B: 200}) {
		t.Errorf("defaults = %+v", wm)
	}
}
