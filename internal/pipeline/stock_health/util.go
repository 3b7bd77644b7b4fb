package stock_health

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// roundFloat rounds v to the given number of decimal places.
func roundFloat(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

// FormatCurrency renders a dollar amount with comma thousands separators and
// no decimals, rounding half away from zero.
// Example: 1234567.5 => "$1,234,568"; -42 => "$-42".
func FormatCurrency(v decimal.Decimal) string {
	return "$" + formatThousands(v.Round(0))
}

// formatThousands groups the integer digits of v in threes with commas.
func formatThousands(v decimal.Decimal) string {
	s := v.StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	if len(s) > 3 {
		var buf []byte
		count := 0
		for i := len(s) - 1; i >= 0; i-- {
			buf = append(buf, s[i])
			count++
			if count == 3 && i != 0 {
				buf = append(buf, ',')
				count = 0
			}
		}
		for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
		s = string(buf)
	}

	if neg && s != "0" {
		return "-" + s
	}
	return s
}
