// Package rollup derives spend, progress and budget figures from a project
// snapshot. Nothing here is stored; values are recomputed on every read.
package rollup

import (
	"math"

	"github.com/alexanderramin/stageplan/internal/domain"
)

// CalculatedSpent sums subtask costs across all stages. Missing costs count
// as zero.
func CalculatedSpent(p *domain.Project) float64 {
	var total float64
	for _, st := range p.Subtasks {
		total += domain.ValueOr(st.Cost, 0)
	}
	return total
}

// TaskProgressPercentage is round(100 * done / total), or 0 for a project
// with no subtasks.
func TaskProgressPercentage(p *domain.Project) int {
	if len(p.Subtasks) == 0 {
		return 0
	}
	done := 0
	for _, st := range p.Subtasks {
		if st.IsDone() {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(p.Subtasks))))
}

// RemainingBudget is budget minus spend, or nil when the project has no
// budget. The result is negative when the project is over budget.
func RemainingBudget(p *domain.Project) *float64 {
	if p.Budget == nil {
		return nil
	}
	remaining := *p.Budget - CalculatedSpent(p)
	return &remaining
}

// BudgetUsagePercentage is min(100, round(100 * spent / budget)) for a
// positive budget and 0 otherwise.
func BudgetUsagePercentage(p *domain.Project) int {
	if p.Budget == nil || *p.Budget <= 0 {
		return 0
	}
	pct := int(math.Round(100 * CalculatedSpent(p) / *p.Budget))
	return min(100, pct)
}

// StageSummary aggregates one stage's subtasks.
type StageSummary struct {
	StageID string
	Name    string
	Order   int
	Total   int
	Done    int
	Spent   float64
}

// Summary bundles every derived value for display and reporting.
type Summary struct {
	Spent             float64
	Remaining         *float64
	BudgetUsagePct    int
	ProgressPct       int
	TotalSubtasks     int
	CompletedSubtasks int
	ByStatus          map[domain.SubtaskStatus]int
	Stages            []StageSummary
}

// Summarize computes all derived values in one pass over the snapshot.
// Stages are reported in pipeline order.
func Summarize(p *domain.Project) Summary {
	s := Summary{
		Spent:          CalculatedSpent(p),
		Remaining:      RemainingBudget(p),
		BudgetUsagePct: BudgetUsagePercentage(p),
		ProgressPct:    TaskProgressPercentage(p),
		TotalSubtasks:  len(p.Subtasks),
		ByStatus:       make(map[domain.SubtaskStatus]int, len(domain.SubtaskStatuses)),
	}

	index := make(map[string]int, len(p.Stages))
	for _, stage := range p.SortedStages() {
		index[stage.ID] = len(s.Stages)
		s.Stages = append(s.Stages, StageSummary{StageID: stage.ID, Name: stage.Name, Order: stage.Order})
	}
	for _, st := range p.Subtasks {
		s.ByStatus[st.Status.Normalize()]++
		if st.IsDone() {
			s.CompletedSubtasks++
		}
		i, ok := index[st.StageID]
		if !ok {
			continue
		}
		s.Stages[i].Total++
		s.Stages[i].Spent += domain.ValueOr(st.Cost, 0)
		if st.IsDone() {
			s.Stages[i].Done++
		}
	}
	return s
}
