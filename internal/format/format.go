// Package format holds display-time number formatting for the invoice
// document. Formatting never changes stored values: grouping and decimal
// rendering apply to the output string only.
package format

import (
	"strconv"
	"strings"
)

// Number renders v with thousands-grouped integer digits and the full
// fractional precision of the value. No currency symbol is attached; unit
// labels are static surrounding text, not part of the number.
// Example: Number(2500000) => "2,500,000", Number(1234.5) => "1,234.5".
func Number(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		return "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	var b strings.Builder
	for i, c := range digits {
		if i != 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
