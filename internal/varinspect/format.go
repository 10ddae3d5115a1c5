package varinspect

import (
	"fmt"
	"math"
	"strconv"
)

// FormatNumber rounds to two decimals and strips trailing zeros (4.50 -> "4.5")
func FormatNumber(v float64) string {
	// ties round half away from zero: 0.125 -> "0.13"
	rounded := math.Round(v*100) / 100
	if rounded == 0 {
		// Avoid "-0"
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// FormatColor renders a color as "rgb(r, g, b)" with 0-255 channels
func FormatColor(c Color) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	return int(math.Round(v * 255))
}
