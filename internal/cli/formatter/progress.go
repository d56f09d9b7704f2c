package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderShare renders a share-of-total bar like "████░░░░░░  40%".
func RenderShare(pct float64, width int) string {
	pct = min(max(pct, 0), 1)
	width = max(width, 2)

	filled := min(int(pct*float64(width)), width)
	bar := StylePurple.Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, pct*100)
}

// Share returns part/total, or 0 when total is 0.
func Share[T ~int64](part, total T) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total)
}
