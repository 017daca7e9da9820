package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/alexanderramin/stageplan/internal/reconcile"
)

// FormatSuggestions lists proposed subtask names and whether they were added.
func FormatSuggestions(stageName string, suggested []string, added []*domain.Subtask) string {
	if len(suggested) == 0 {
		return Dim("No suggestions for "+stageName+".") + "\n"
	}
	var b strings.Builder
	verb := "Suggested"
	if len(added) > 0 {
		verb = "Added"
	}
	fmt.Fprintf(&b, "%s %s to %s:\n", verb, Pluralize(len(suggested), "subtask"), Bold(stageName))
	for _, name := range suggested {
		b.WriteString("  " + StyleGreen.Render("+") + " " + name + "\n")
	}
	return b.String()
}

// FormatOrganizeReport summarizes a reconciliation and lists what was ignored.
func FormatOrganizeReport(r reconcile.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Placed %s, %d moved to a different stage.\n", Pluralize(r.Reassigned, "subtask"), r.Moved)
	if len(r.DroppedStages) > 0 {
		fmt.Fprintf(&b, "%s %s\n", StyleYellow.Render("Ignored unknown stages:"), strings.Join(r.DroppedStages, ", "))
	}
	if len(r.DroppedItems) > 0 {
		fmt.Fprintf(&b, "%s %s\n", StyleYellow.Render("Ignored unknown subtasks:"), strings.Join(r.DroppedItems, ", "))
	}
	return b.String()
}
