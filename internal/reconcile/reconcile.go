// Package reconcile merges an externally proposed stage categorization into a
// project's existing subtasks by exact name matching.
//
// The reconciler never creates stages or subtasks. Suggestions for unknown
// stages and suggestions naming no existing subtask are dropped. When several
// subtasks share a name, the first one not yet reassigned (in board order)
// takes the first matching suggestion.
package reconcile

import (
	"time"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/alexanderramin/stageplan/internal/ordering"
)

// Suggestion is one proposed subtask placement. Description and
// SuggestedDeadline override existing values when set.
type Suggestion struct {
	Name              string
	Description       string
	SuggestedDeadline *time.Time
}

// StageAssignment is the ordered list of subtasks proposed for one stage.
type StageAssignment struct {
	StageName string
	Items     []Suggestion
}

// Categorization is a full proposal, in the order the stages were returned.
type Categorization []StageAssignment

// Report describes what a reconciliation did and what it ignored.
type Report struct {
	Reassigned    int
	Moved         int
	DroppedStages []string
	DroppedItems  []string
}

// Reconcile returns a new subtask list for p with the categorization
// applied. Within each stage, matched subtasks come first in proposal order,
// followed by untouched subtasks in their previous relative order. The result
// is densely ordered per stage. p is not modified.
func Reconcile(p *domain.Project, cat Categorization) ([]*domain.Subtask, Report) {
	var report Report

	working := make([]*domain.Subtask, len(p.Subtasks))
	for i, st := range p.Subtasks {
		working[i] = st.Clone()
	}
	stageRank := make(map[string]int, len(p.Stages))
	for _, stage := range p.Stages {
		stageRank[stage.ID] = stage.Order
	}
	ordering.Sort(working, func(id string) int { return stageRank[id] })
	originalStage := make(map[string]string, len(working))
	for _, st := range working {
		originalStage[st.ID] = st.StageID
	}

	assigned := make(map[string]bool, len(working))
	next := make(map[string]int)

	for _, sa := range cat {
		stage := p.StageByName(sa.StageName)
		if stage == nil {
			report.DroppedStages = append(report.DroppedStages, sa.StageName)
			continue
		}
		for _, item := range sa.Items {
			st := firstUnassigned(working, assigned, item.Name)
			if st == nil {
				report.DroppedItems = append(report.DroppedItems, item.Name)
				continue
			}
			st.StageID = stage.ID
			st.Order = next[stage.ID]
			next[stage.ID]++
			st.Description = domain.FirstNonEmpty(item.Description, st.Description)
			st.SuggestedDeadline = domain.FirstSet(item.SuggestedDeadline, st.SuggestedDeadline)
			assigned[st.ID] = true
			report.Reassigned++
			if originalStage[st.ID] != stage.ID {
				report.Moved++
			}
		}
	}

	// working is still in original board order, so untouched subtasks keep
	// their relative order behind the reassigned ones.
	for _, st := range working {
		if assigned[st.ID] {
			continue
		}
		st.Order = next[st.StageID]
		next[st.StageID]++
	}

	ordering.Sort(working, func(id string) int { return stageRank[id] })
	return working, report
}

func firstUnassigned(subtasks []*domain.Subtask, assigned map[string]bool, name string) *domain.Subtask {
	for _, st := range subtasks {
		if !assigned[st.ID] && st.Name == name {
			return st
		}
	}
	return nil
}
