package currency

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is one entry in the supported-currency directory.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

var Supported = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "British Pound", Symbol: "£"},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥"},
	{Code: "HKD", Name: "Hong Kong Dollar", Symbol: "HK$"},
}

// DefaultCode is used when no base currency has been chosen.
const DefaultCode = "USD"

func IsSupported(code string) bool {
	for _, c := range Supported {
		if c.Code == code {
			return true
		}
	}
	return false
}

// Symbol returns the display symbol for a code, or the code itself when the
// currency is not in the directory.
func Symbol(code string) string {
	for _, c := range Supported {
		if c.Code == code {
			return c.Symbol
		}
	}
	return code
}

func Name(code string) string {
	for _, c := range Supported {
		if c.Code == code {
			return c.Name
		}
	}
	return code
}

// Format renders a monetary value in the given currency. Known ISO codes go
// through go-money, which knows per-currency minor units (JPY has none).
// Unknown codes never fail: they render as symbol plus a grouped number with
// two decimals.
func Format(value decimal.Decimal, code string) string {
	if code == "" {
		code = DefaultCode
	}
	if c := money.GetCurrency(strings.ToUpper(code)); c != nil {
		minor := value.Shift(int32(c.Fraction)).Round(0)
		return money.New(minor.IntPart(), c.Code).Display()
	}
	return Symbol(code) + groupDigits(value.StringFixed(2))
}

// FormatPercent renders a percentage with two decimals, e.g. "12.34%".
func FormatPercent(value decimal.Decimal) string {
	return value.StringFixed(2) + "%"
}

// groupDigits inserts thousands separators into a plain decimal string.
func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}
