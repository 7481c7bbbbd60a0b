package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// ShareBar renders a proportion in [0, 1] as a bar and a percentage, like
// "███░░░░░░░  30%". Out-of-range values are clamped.
func ShareBar(share float64, width int) string {
	share = min(max(share, 0), 1)
	width = max(width, 2)

	filled := min(int(share*float64(width)+0.5), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("%s %3.0f%%", StyleBlue.Render(bar), share*100)
}
