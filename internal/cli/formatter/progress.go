package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45% for a whole percentage.
// Green above 66, yellow from 33, red below.
func RenderProgress(pct, width int) string {
	pct = min(max(pct, 0), 100)
	width = max(width, 2)

	filled := pct * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct < 33:
		style = StyleRed
	case pct < 66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), pct)
}

// RenderBudgetUsage is RenderProgress with the colors inverted: spending
// most of the budget is the warning case.
func RenderBudgetUsage(pct, width int) string {
	pct = min(max(pct, 0), 100)
	width = max(width, 2)

	filled := pct * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct >= 90:
		style = StyleRed
	case pct >= 66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), pct)
}
