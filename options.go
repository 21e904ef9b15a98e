// Package pagelayout holds the configuration and error types shared by the
// layout engine packages: model, geometry, editor, paginate and render.
package pagelayout

import "math"

// Page size names accepted by WithPaperSize.
const (
	PaperA3     = "A3"
	PaperA4     = "A4"
	PaperA5     = "A5"
	PaperLetter = "Letter"
	PaperLegal  = "Legal"
)

// Default engine constants, all in millimeters unless noted.
const (
	DefaultPaperWidth      = 210.0
	DefaultPaperHeight     = 297.0
	DefaultMargin          = 10.0
	DefaultMinItemSize     = 5.0
	DefaultMinRegionHeight = 5.0
	DefaultRowHeight       = 8.0
	DefaultScale           = 25.4 / 96 // mm per CSS pixel
	DefaultSnapThresholdPx = 5.0
	DefaultSensitivity     = 0.5
	DefaultAmountField     = "amount"
	DefaultTotalField      = "totalAmount"
	DefaultLocale          = "en"
)

var paperSizes = map[string][2]float64{
	PaperA3:     {297, 420},
	PaperA4:     {210, 297},
	PaperA5:     {148, 210},
	PaperLetter: {215.9, 279.4},
	PaperLegal:  {215.9, 355.6},
}

// PaperSize returns the portrait dimensions in millimeters of a named page
// size. Unknown names fall back to A4.
func PaperSize(name string) (width, height float64) {
	if s, ok := paperSizes[name]; ok {
		return s[0], s[1]
	}
	return DefaultPaperWidth, DefaultPaperHeight
}

// Config carries the tunables of the editor, paginator and renderer.
type Config struct {
	PaperWidth  float64
	PaperHeight float64

	// Scale converts pointer pixels to millimeters.
	Scale float64
	// SnapThresholdPx is the snapping distance in pointer pixels.
	SnapThresholdPx float64
	// Sensitivity maps pointer pixels to column width units.
	Sensitivity float64

	MinItemSize     float64
	MinRegionHeight float64

	RowHeight      float64
	HeaderHeight   float64
	SubtotalHeight float64
	TotalHeight    float64

	AmountField string
	TotalField  string
	Locale      string
}

// Option is a functional option for configuring the engine via NewConfig.
type Option func(*Config)

// WithPaperSize sets the default paper by name (A3, A4, A5, Letter, Legal).
func WithPaperSize(name string) Option {
	return func(c *Config) {
		c.PaperWidth, c.PaperHeight = PaperSize(name)
	}
}

// WithPaperSizeCustom sets a custom default paper size in millimeters.
func WithPaperSizeCustom(width, height float64) Option {
	return func(c *Config) {
		c.PaperWidth = width
		c.PaperHeight = height
	}
}

// WithScale sets the millimeters-per-pixel factor applied to pointer deltas.
func WithScale(mmPerPixel float64) Option {
	return func(c *Config) {
		c.Scale = mmPerPixel
	}
}

// WithSnapThreshold sets the snap distance in pointer pixels.
func WithSnapThreshold(px float64) Option {
	return func(c *Config) {
		c.SnapThresholdPx = px
	}
}

// WithSensitivity sets the column resize sensitivity factor.
func WithSensitivity(s float64) Option {
	return func(c *Config) {
		c.Sensitivity = s
	}
}

// WithMinSizes sets the minimum item size and minimum region height.
func WithMinSizes(item, region float64) Option {
	return func(c *Config) {
		c.MinItemSize = item
		c.MinRegionHeight = region
	}
}

// WithRowHeights sets the fixed table row heights used by pagination.
func WithRowHeights(row, header, subtotal, total float64) Option {
	return func(c *Config) {
		c.RowHeight = row
		c.HeaderHeight = header
		c.SubtotalHeight = subtotal
		c.TotalHeight = total
	}
}

// WithAmountField sets the data field summed into subtotals and totals.
func WithAmountField(name string) Option {
	return func(c *Config) {
		c.AmountField = name
	}
}

// WithTotalField sets the data context field holding a precomputed grand total.
func WithTotalField(name string) Option {
	return func(c *Config) {
		c.TotalField = name
	}
}

// WithLocale sets the BCP 47 tag used when formatting amounts.
func WithLocale(tag string) Option {
	return func(c *Config) {
		c.Locale = tag
	}
}

// NewConfig builds a Config from options. Zero, negative and NaN values are
// replaced with defaults so that layout math never sees them.
//
// Example:
//
//	cfg := pagelayout.NewConfig(
//	    pagelayout.WithPaperSize(pagelayout.PaperLetter),
//	    pagelayout.WithSnapThreshold(8),
//	)
func NewConfig(opts ...Option) Config {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg.withDefaults()
}

// Sanitized returns c with unusable values replaced by defaults.
func (c Config) Sanitized() Config {
	return c.withDefaults()
}

func (c Config) withDefaults() Config {
	c.PaperWidth = Positive(c.PaperWidth, DefaultPaperWidth)
	c.PaperHeight = Positive(c.PaperHeight, DefaultPaperHeight)
	c.Scale = Positive(c.Scale, DefaultScale)
	c.SnapThresholdPx = Positive(c.SnapThresholdPx, DefaultSnapThresholdPx)
	c.Sensitivity = Positive(c.Sensitivity, DefaultSensitivity)
	c.MinItemSize = Positive(c.MinItemSize, DefaultMinItemSize)
	c.MinRegionHeight = Positive(c.MinRegionHeight, DefaultMinRegionHeight)
	c.RowHeight = Positive(c.RowHeight, DefaultRowHeight)
	c.HeaderHeight = Positive(c.HeaderHeight, DefaultRowHeight)
	c.SubtotalHeight = Positive(c.SubtotalHeight, DefaultRowHeight)
	c.TotalHeight = Positive(c.TotalHeight, DefaultRowHeight)
	if c.AmountField == "" {
		c.AmountField = DefaultAmountField
	}
	if c.TotalField == "" {
		c.TotalField = DefaultTotalField
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	return c
}

// SnapThresholdMM returns the snap threshold converted to millimeters.
func (c Config) SnapThresholdMM() float64 {
	return c.SnapThresholdPx * c.Scale
}

// Positive returns v when it is a finite number greater than zero, fallback otherwise.
func Positive(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}
	return v
}

// Finite returns v when it is a finite number, fallback otherwise.
func Finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
