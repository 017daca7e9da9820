package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ProjectStatusPill renders a project status with a lifecycle glyph.
func ProjectStatusPill(status domain.ProjectStatus) string {
	switch status.Normalize() {
	case domain.ProjectNotStarted:
		return StyleDim.Render("○ " + string(domain.ProjectNotStarted))
	case domain.ProjectPlanning:
		return StyleBlue.Render("◔ " + string(domain.ProjectPlanning))
	case domain.ProjectInProgress:
		return StyleGreen.Render("● " + string(domain.ProjectInProgress))
	case domain.ProjectOnHold:
		return StyleYellow.Render("‖ " + string(domain.ProjectOnHold))
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ " + string(domain.ProjectCompleted))
	case domain.ProjectCancelled:
		return StyleRed.Render("✖ " + string(domain.ProjectCancelled))
	default:
		return StyleDim.Render(string(status))
	}
}

// SubtaskStatusPill renders a subtask status with a glyph.
func SubtaskStatusPill(status domain.SubtaskStatus) string {
	switch status.Normalize() {
	case domain.SubtaskToDo:
		return StyleBlue.Render("○ " + string(domain.SubtaskToDo))
	case domain.SubtaskInProgress:
		return StyleGreen.Render("● " + string(domain.SubtaskInProgress))
	case domain.SubtaskDone:
		return StyleDim.Render("✔ " + string(domain.SubtaskDone))
	case domain.SubtaskBlocked:
		return StyleRed.Render("⊘ " + string(domain.SubtaskBlocked))
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders an uppercased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
