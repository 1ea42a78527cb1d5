package utils

import (
	"fmt"
	"strings"
)

// FormatCurrency renders an amount the way it appears in customer
// messages, e.g. 15500.5 -> "Ksh 15,500.50".
func FormatCurrency(amount float64) string {
	formatted := fmt.Sprintf("%.2f", amount)

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	negative := strings.HasPrefix(integerPart, "-")
	if negative {
		integerPart = integerPart[1:]
	}

	var result []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		result = append([]string{integerPart[start:i]}, result...)
	}

	grouped := strings.Join(result, ",")
	if negative {
		grouped = "-" + grouped
	}
	return "Ksh " + grouped + "." + decimalPart
}
