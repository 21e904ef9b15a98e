package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/barcode"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/model"
	"github.com/lvillar/pagelayout/paginate"
)

const (
	defaultFontSize = 10.0
	defaultLineW    = 0.2
	pdf417Columns   = 10
	pdf417Security  = 5
)

func (r *renderer) drawItem(p paginate.PlacedItem) error {
	it := p.Item
	info, ok := model.LookupItemKind(it)
	if !ok {
		return nil
	}
	switch info.Kind {
	case model.ItemText, model.ItemField:
		r.drawText(it, p.Content)
	case model.ItemImage:
		return r.drawImage(it, p.Content)
	case model.ItemBarcode:
		if p.Content != "" {
			key := barcode.RegisterCode128(r.pdf, p.Content)
			barcode.Barcode(r.pdf, key, it.X, it.Y, it.Width, it.Height, false)
		}
	case model.ItemQRCode:
		if p.Content != "" {
			key := barcode.RegisterQR(r.pdf, p.Content, qr.M, qr.Auto)
			barcode.Barcode(r.pdf, key, it.X, it.Y, it.Width, it.Height, false)
		}
	case model.ItemPDF417:
		if p.Content != "" {
			key := barcode.RegisterPdf417(r.pdf, p.Content, pdf417Columns, pdf417Security)
			barcode.Barcode(r.pdf, key, it.X, it.Y, it.Width, it.Height, false)
		}
	case model.ItemLine:
		r.drawLine(it)
	case model.ItemRect:
		r.drawRect(it)
	}
	return nil
}

func (r *renderer) drawText(it model.Item, text string) {
	if text == "" {
		return
	}
	r.setFont(it.Font, defaultFontSize)
	r.setTextColor(it.Color)

	align := strings.ToUpper(it.Align)
	if align == "" {
		align = "L"
	}
	text = r.tr(text)

	r.pdf.SetXY(it.X, it.Y)
	if strings.Contains(text, "\n") || r.pdf.GetStringWidth(text) > it.Width {
		_, lineH := r.pdf.GetFontSize()
		r.pdf.MultiCell(it.Width, lineH*1.2, text, "", align, false)
	} else {
		r.pdf.CellFormat(it.Width, it.Height, text, "", 0, align+"M", false, 0, "")
	}
	r.pdf.SetTextColor(0, 0, 0)
}

// drawImage places an image file. PNG, JPEG and GIF go to gofpdf directly;
// BMP, TIFF and WebP are decoded and re-encoded as PNG first.
func (r *renderer) drawImage(it model.Item, src string) error {
	if src == "" {
		return nil
	}
	name, opts, err := r.registerImage(src)
	if err != nil {
		return err
	}
	r.pdf.ImageOptions(name, it.X, it.Y, it.Width, it.Height, false, opts, 0, "")
	return nil
}

// imagePath maps an image source to the file that will be read.
func (o Options) imagePath(src string) (string, error) {
	if o.NoFileImages {
		return "", fmt.Errorf("image %s: %w", src, pagelayout.ErrImageNotAllowed)
	}
	if o.ImageRoot == "" {
		return src, nil
	}
	if !filepath.IsLocal(src) {
		return "", fmt.Errorf("image %s: outside image root: %w", src, pagelayout.ErrImageNotAllowed)
	}
	return filepath.Join(o.ImageRoot, src), nil
}

func (r *renderer) registerImage(src string) (string, gofpdf.ImageOptions, error) {
	src, err := r.opts.imagePath(src)
	if err != nil {
		return "", gofpdf.ImageOptions{}, err
	}
	ext := strings.ToLower(filepath.Ext(src))
	var decode func(f *os.File) (image.Image, error)
	switch ext {
	case ".bmp":
		decode = func(f *os.File) (image.Image, error) { return bmp.Decode(f) }
	case ".tif", ".tiff":
		decode = func(f *os.File) (image.Image, error) { return tiff.Decode(f) }
	case ".webp":
		decode = func(f *os.File) (image.Image, error) { return webp.Decode(f) }
	default:
		return src, gofpdf.ImageOptions{}, nil
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	if name, ok := r.images[src]; ok {
		return name, opts, nil
	}
	f, err := os.Open(src)
	if err != nil {
		return "", opts, fmt.Errorf("image %s: %w", src, err)
	}
	defer f.Close()
	img, err := decode(f)
	if err != nil {
		return "", opts, fmt.Errorf("decoding image %s: %w", src, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", opts, fmt.Errorf("converting image %s: %w", src, err)
	}

	name := "converted:" + src
	r.pdf.RegisterImageOptionsReader(name, opts, &buf)
	r.images[src] = name
	return name, opts, nil
}

// drawLine draws along the long axis of the item's box, centered on the
// short one.
func (r *renderer) drawLine(it model.Item) {
	r.setDrawStyle(it)
	if it.Width >= it.Height {
		y := it.Y + it.Height/2
		r.pdf.Line(it.X, y, it.Right(), y)
	} else {
		x := it.X + it.Width/2
		r.pdf.Line(x, it.Y, x, it.Bottom())
	}
	r.resetDrawStyle()
}

func (r *renderer) drawRect(it model.Item) {
	r.setDrawStyle(it)
	style := "D"
	if c := it.FillColor; c != nil {
		r.pdf.SetFillColor(c.R, c.G, c.B)
		style = "FD"
	}
	r.pdf.Rect(it.X, it.Y, it.Width, it.Height, style)
	r.resetDrawStyle()
}

func (r *renderer) setDrawStyle(it model.Item) {
	if it.LineWidth > 0 {
		r.pdf.SetLineWidth(it.LineWidth)
	}
	if c := it.Color; c != nil {
		r.pdf.SetDrawColor(c.R, c.G, c.B)
	}
}

func (r *renderer) resetDrawStyle() {
	r.pdf.SetLineWidth(defaultLineW)
	r.pdf.SetDrawColor(0, 0, 0)
	r.pdf.SetFillColor(255, 255, 255)
}
