package market

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// rupee is the symbol used when rendering amounts.
var rupee = currencySymbol("INR")

func currencySymbol(code string) string {
	if c := money.GetCurrency(code); c != nil {
		return c.Grapheme
	}
	return code
}

// FormatINR renders amount in rupees with Indian digit grouping (lakh,
// crore) rounded to digits fraction digits, e.g. ₹12,45,000.
func FormatINR(amount decimal.Decimal, digits int32) string {
	rounded := amount.Round(digits)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	text := rounded.StringFixed(digits)
	whole, fraction, _ := strings.Cut(text, ".")

	out := sign + rupee + group(whole)
	if fraction != "" {
		out += "." + fraction
	}
	return out
}

// group inserts separators the Indian way: the last three digits, then pairs.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}

	return strings.Join(parts, ",") + "," + tail
}

// FormatPercent renders a signed percentage with two fraction digits, and
// zero as "0%".
func FormatPercent(p decimal.Decimal) string {
	rounded := p.Round(2)
	switch {
	case rounded.IsZero():
		return "0%"
	case rounded.IsPositive():
		return "+" + rounded.StringFixed(2) + "%"
	default:
		return rounded.StringFixed(2) + "%"
	}
}
