package utils

import (
	"fmt"
	"math"
)

// EuroToCents converts a euro amount to integer minor units,
// rounding to the nearest cent.
func EuroToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func CentsToEuro(cents int64) float64 {
	return float64(cents) / 100
}

// FormatCents renders minor units as a euro string, e.g. "€50.00".
func FormatCents(cents int64) string {
	return fmt.Sprintf("€%.2f", CentsToEuro(cents))
}
