package paginate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/lvillar/pagelayout/model"
)

// ParseAmount converts a data value to a number. Strings may carry currency
// symbols and grouping separators ("$1,234.50"); every character other than
// digits, '.' and '-' is dropped before parsing. Values that still do not
// parse count as 0.
func ParseAmount(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case json.Number:
		f = parseNumeric(string(x))
	case string:
		f = parseNumeric(x)
	default:
		f = parseNumeric(model.Text(x))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseNumeric(s string) float64 {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return f
}

// SumAmounts adds up field across rows.
func SumAmounts(rows []model.Row, field string) float64 {
	var sum float64
	for _, r := range rows {
		sum += ParseAmount(r[field])
	}
	return sum
}

// GrandTotalOverride returns the explicit grand total stored under
// totalField in the data context, if any.
func GrandTotalOverride(ds *model.Dataset, totalField string) *float64 {
	v, ok := ds.Field(totalField)
	if !ok || v == nil {
		return nil
	}
	f := ParseAmount(v)
	return &f
}

// Formatter renders amounts with two decimals using the grouping rules of a
// locale.
type Formatter struct {
	p *message.Printer
}

// NewFormatter returns a Formatter for a BCP 47 tag. Unparseable tags fall
// back to English.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return Formatter{p: message.NewPrinter(tag)}
}

// Format returns v with two fraction digits, e.g. "1,234.50" for English.
func (f Formatter) Format(v float64) string {
	if f.p == nil {
		f = NewFormatter("en")
	}
	return f.p.Sprint(number.Decimal(v, number.Scale(2)))
}
