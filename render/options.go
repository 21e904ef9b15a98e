package render

import (
	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/model"
)

// Options controls PDF output beyond what the layout document describes.
type Options struct {
	Config pagelayout.Config

	Title  string
	Author string

	// Background is a PDF file whose first page is drawn under every page,
	// typically a letterhead.
	Background string

	// ImageRoot, when set, confines image items to files under this
	// directory. Sources are taken relative to it; absolute paths and paths
	// leaving it are rejected with ErrImageNotAllowed.
	ImageRoot string

	// NoFileImages rejects every image item that names a file.
	NoFileImages bool

	// Watermark is drawn diagonally across every page when set.
	Watermark WatermarkStyle

	// PageNumbers is a footer format such as "Page {page} of {pages}".
	// Empty disables the footer.
	PageNumbers string

	Table TableStyle
}

// Option configures rendering.
type Option func(*Options)

// WithConfig sets the layout configuration (row heights, amount field,
// locale) used for pagination.
func WithConfig(cfg pagelayout.Config) Option {
	return func(o *Options) { o.Config = cfg }
}

// WithMetadata sets the PDF title and author.
func WithMetadata(title, author string) Option {
	return func(o *Options) {
		o.Title = title
		o.Author = author
	}
}

// WithBackground draws the first page of the PDF at path under every page.
func WithBackground(path string) Option {
	return func(o *Options) { o.Background = path }
}

// WithImageRoot resolves image sources relative to dir and refuses any that
// would read outside it.
func WithImageRoot(dir string) Option {
	return func(o *Options) { o.ImageRoot = dir }
}

// WithoutFileImages refuses to read image files at all.
func WithoutFileImages() Option {
	return func(o *Options) { o.NoFileImages = true }
}

// WithWatermark draws text diagonally across every page using the default
// watermark style.
func WithWatermark(text string) Option {
	return func(o *Options) { o.Watermark.Text = text }
}

// WithWatermarkStyle sets the full watermark style.
func WithWatermarkStyle(wm WatermarkStyle) Option {
	return func(o *Options) { o.Watermark = wm }
}

// WithPageNumbers adds a footer line. {page} and {pages} are replaced with
// the page number and the page count.
func WithPageNumbers(format string) Option {
	return func(o *Options) { o.PageNumbers = format }
}

// WithTableStyle sets the table colors.
func WithTableStyle(s TableStyle) Option {
	return func(o *Options) { o.Table = s }
}

// WatermarkStyle defines a text watermark.
type WatermarkStyle struct {
	Text     string
	FontSize float64     // points (default: 60)
	Color    model.Color // default: light gray
	Opacity  float64     // 0.0 to 1.0 (default: 0.3)
	Angle    float64     // degrees (default: 45)
}

func (wm WatermarkStyle) withDefaults() WatermarkStyle {
	if wm.FontSize == 0 {
		wm.FontSize = 60
	}
	if wm.Opacity == 0 {
		wm.Opacity = 0.3
	}
	if wm.Angle == 0 {
		wm.Angle = 45
	}
	if wm.Color == (model.Color{}) {
		wm.Color = model.Color{R: 200, G: 200, B: 200}
	}
	return wm
}

func newOptions(opts []Option) Options {
	o := Options{
		Config: pagelayout.NewConfig(),
		Table:  DefaultTableStyle(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.Config = o.Config.Sanitized()
	o.Watermark = o.Watermark.withDefaults()
	return o
}
