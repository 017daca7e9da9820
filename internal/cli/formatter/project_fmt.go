package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/alexanderramin/stageplan/internal/rollup"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// SummaryWidth is the column the executive summary is wrapped at.
const SummaryWidth = 72

// FormatProjectList renders one row per project with its derived figures.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "STATUS", "PROGRESS", "BUDGET", "SUBTASKS"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		sum := rollup.Summarize(p)
		budget := Dim("--")
		if p.Budget != nil {
			budget = RenderBudgetUsage(sum.BudgetUsagePct, 10)
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			p.Name,
			ProjectStatusPill(p.Status),
			RenderProgress(sum.ProgressPct, 10),
			budget,
			fmt.Sprintf("%d/%d", sum.CompletedSubtasks, sum.TotalSubtasks),
		})
	}
	return RenderTable(headers, rows)
}

// FormatProjectDetail renders the full project view: fields, figures,
// outcomes, the board and the executive summary.
func FormatProjectDetail(p *domain.Project) string {
	sum := rollup.Summarize(p)
	var b strings.Builder

	b.WriteString(Header(p.Name))
	b.WriteString("\n")
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-12s", label)), value)
	}
	field("ID", p.ID)
	field("Status", ProjectStatusPill(p.Status))
	if p.Description != "" {
		field("Description", p.Description)
	}
	field("Progress", RenderProgress(sum.ProgressPct, 20))
	field("Spent", FormatMoney(sum.Spent))
	if p.Budget != nil {
		field("Budget", FormatMoney(*p.Budget))
		remaining := FormatMoney(*sum.Remaining)
		if *sum.Remaining < 0 {
			remaining = StyleRed.Render(remaining + " over")
		}
		field("Remaining", remaining)
		field("Used", RenderBudgetUsage(sum.BudgetUsagePct, 20))
	}
	writeMetadata(field, p.Metadata)

	b.WriteString("\n")
	b.WriteString(FormatBoard(p))

	if text := formatOutcomes(p.Outcomes); text != "" {
		b.WriteString("\n")
		b.WriteString(Header("Outcomes"))
		b.WriteString("\n")
		b.WriteString(text)
	}
	if p.ExecutiveSummary != "" {
		b.WriteString("\n")
		b.WriteString(FormatExecutiveSummary(p.ExecutiveSummary))
	}
	return b.String()
}

func writeMetadata(field func(label, value string), m domain.Metadata) {
	if m.ProjectNumber != "" {
		field("Number", m.ProjectNumber)
	}
	if m.Client != "" {
		field("Client", m.Client)
	}
	if m.Site != "" {
		field("Site", m.Site)
	}
	if m.CoordinateSystem != "" {
		field("CRS", m.CoordinateSystem)
	}
	if m.StartDate != nil || m.EndDate != nil {
		field("Dates", FormatDate(m.StartDate)+" → "+FormatDate(m.EndDate))
	}
	if len(m.Equipment) > 0 {
		field("Equipment", strings.Join(m.Equipment, ", "))
	}
	if len(m.Personnel) > 0 {
		field("Personnel", strings.Join(m.Personnel, ", "))
	}
	if m.OutcomeNotes != "" {
		field("Notes", m.OutcomeNotes)
	}
}

func formatOutcomes(o domain.Outcomes) string {
	if o.IsZero() {
		return ""
	}
	var b strings.Builder
	for _, item := range []struct{ label, text string }{
		{"Key findings", o.KeyFindings},
		{"Conclusions", o.Conclusions},
		{"Recommendations", o.Recommendations},
		{"Achievements", o.Achievements},
		{"Challenges", o.Challenges},
		{"Lessons learned", o.LessonsLearned},
	} {
		if item.text == "" {
			continue
		}
		b.WriteString(Bold(item.label))
		b.WriteString("\n")
		b.WriteString(indent.String(wordwrap.String(item.text, SummaryWidth-2), 2))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatBoard renders stages in pipeline order with their subtasks in board
// order.
func FormatBoard(p *domain.Project) string {
	stages := p.SortedStages()
	if len(stages) == 0 {
		return Dim("No stages yet.") + "\n"
	}
	sum := rollup.Summarize(p)

	var b strings.Builder
	for i, stage := range stages {
		ss := sum.Stages[i]
		fmt.Fprintf(&b, "%s %s %s\n",
			StyleHeader.Render(fmt.Sprintf("%d. %s", stage.Order+1, stage.Name)),
			TruncID(stage.ID),
			Dim(fmt.Sprintf("(%d/%d done, %s)", ss.Done, ss.Total, FormatMoney(ss.Spent))),
		)
		subtasks := p.SubtasksInStage(stage.ID)
		if len(subtasks) == 0 {
			b.WriteString("   " + Dim("empty") + "\n")
			continue
		}
		for _, st := range subtasks {
			line := fmt.Sprintf("   %s %s %s", TruncID(st.ID), SubtaskStatusPill(st.Status), st.Name)
			if st.Cost != nil {
				line += " " + StylePurple.Render(FormatMoney(*st.Cost))
			}
			if st.SuggestedDeadline != nil {
				line += " " + Dim("due "+FormatDate(st.SuggestedDeadline))
			}
			b.WriteString(line + "\n")
			if st.Description != "" {
				b.WriteString(indent.String(Dim(wordwrap.String(st.Description, SummaryWidth-6)), 6) + "\n")
			}
		}
	}
	return b.String()
}

// FormatExecutiveSummary boxes the summary text, wrapped to SummaryWidth.
func FormatExecutiveSummary(text string) string {
	return RenderBox("Executive summary", wordwrap.String(strings.TrimSpace(text), SummaryWidth))
}
