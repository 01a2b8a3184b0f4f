package catalog

import (
	"math"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/five82/shelf/internal/api"
)

// NotAvailable is shown for missing prices and dates.
const NotAvailable = "N/A"

// DateLayout renders timestamps in the local zone.
const DateLayout = "02 Jan 2006, 15:04"

// DefaultTruncate is the TruncateText length used by cards.
const DefaultTruncate = 50

// FormatPrice renders a number as US dollars ("$1,234.50"). Null or absent
// values are N/A; strings are shown as entered.
func FormatPrice(v api.Value) string {
	switch v.Kind() {
	case api.ValueNull:
		return NotAvailable
	case api.ValueNumber:
		f, _ := v.Float()
		return FormatDollars(f)
	default:
		return v.String()
	}
}

// FormatDollars renders f with two decimals and thousands separators.
func FormatDollars(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NotAvailable
	}
	d := decimal.NewFromFloat(f).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "$" + groupDecimal(d.StringFixed(2))
}

// FormatNumber groups thousands and keeps up to three decimals.
func FormatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "∞"
	}
	if math.IsInf(f, -1) {
		return "-∞"
	}
	d := decimal.NewFromFloat(f).Round(3)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + groupDecimal(d.String())
}

func groupDecimal(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return s
	}
	out := humanize.BigComma(n)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// FormatDate renders an API timestamp in the local zone, or N/A.
func FormatDate(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotAvailable
	}
	t := api.ParseTime(value)
	if t.IsZero() {
		return NotAvailable
	}
	return t.Local().Format(DateLayout)
}

// Relative describes value relative to now ("3 hours ago"), or "".
func Relative(value string, now time.Time) string {
	t := api.ParseTime(value)
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	head := cases.Upper(language.Und).String(string(runes[0]))
	return head + cases.Lower(language.Und).String(string(runes[1:]))
}

// TruncateText cuts s to max characters and appends "...".
func TruncateText(s string, max int) string {
	if max < 0 {
		max = 0
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// HumanizeKey turns an attribute key into a label: "hardDiskSize" becomes
// "Hard disk size".
func HumanizeKey(key string) string {
	var b strings.Builder
	var prev rune
	for _, r := range key {
		if r >= 'A' && r <= 'Z' && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return Capitalize(strings.TrimSpace(b.String()))
}

// FormatValue renders one attribute for display. Numeric values under a
// key mentioning "price" are currency, other numbers are grouped.
func FormatValue(key string, v api.Value) string {
	switch v.Kind() {
	case api.ValueNumber:
		f, _ := v.Float()
		if strings.Contains(strings.ToLower(key), "price") {
			return FormatDollars(f)
		}
		return FormatNumber(f)
	case api.ValueString:
		s, _ := v.Str()
		return s
	case api.ValueNull:
		return "null"
	default:
		return v.String()
	}
}

// Entry is one formatted attribute row.
type Entry struct {
	Key   string
	Label string
	Value string
}

// FormatData formats every attribute in order.
func FormatData(data api.Attributes) []Entry {
	entries := make([]Entry, 0, len(data))
	for _, attr := range data {
		entries = append(entries, Entry{
			Key:   attr.Key,
			Label: HumanizeKey(attr.Key),
			Value: FormatValue(attr.Key, attr.Value),
		})
	}
	return entries
}
