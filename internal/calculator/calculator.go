package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Total multiplies quantity by unit price. Callers pass 0 for either side
// when no quantity was entered or no instrument is selected.
func Total(quantity, price float64) float64 {
	return quantity * price
}

// FormatTotal renders a position total to two decimals for display.
func FormatTotal(quantity, price float64) string {
	return fmt.Sprintf("%.2f", Total(quantity, price))
}

// ParseQuantity converts free-form input to a quantity.
// Empty or non-numeric input yields 0.
func ParseQuantity(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Round2 rounds to two decimal places, the display precision used
// throughout the board.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
