package services

import (
	"html"
	"strconv"
	"strings"
)

// formatAmount renders money with space-separated thousands, as receipts
// show it: -1250000 -> "-1 250 000".
func formatAmount(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}
	return b.String()
}

func escape(s string) string {
	return html.EscapeString(s)
}
