package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(0, 2)
	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return box.Render(content)
}

// TruncID returns the first 8 characters of an id, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatDate renders an optional calendar date, or "--".
func FormatDate(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.Format(dateLayout)
}

// FormatMoney renders an amount with two decimals and thousands separators.
func FormatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := fmt.Sprintf("%.2f", v)
	intPart, frac, _ := strings.Cut(whole, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

// FormatOptionalMoney renders a nil amount as "--".
func FormatOptionalMoney(v *float64) string {
	if v == nil {
		return Dim("--")
	}
	return FormatMoney(*v)
}

// Pluralize returns "1 subtask" or "3 subtasks".
func Pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
