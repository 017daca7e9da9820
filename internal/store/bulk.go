package store

import (
	"context"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/alexanderramin/stageplan/internal/ordering"
)

// SetProjectSubtasks replaces the project's subtask list wholesale. The list
// must reference only existing stages, use unique ids and be densely ordered
// within every stage; otherwise nothing changes and a ValidationError is
// returned.
func (s *Store) SetProjectSubtasks(ctx context.Context, projectID string, subtasks []*domain.Subtask) error {
	next := cloneSubtasks(subtasks)
	return s.mutateProject(ctx, "set_subtasks", projectID, func(p *domain.Project) error {
		if err := validateSubtaskList(p.Stages, next); err != nil {
			return err
		}
		p.Subtasks = next
		return nil
	})
}

// SetProjectStages replaces the project's stage list wholesale. Stage orders
// must be dense. Subtasks whose stage is absent from the new list are
// dropped, matching the cascade of DeleteStage.
func (s *Store) SetProjectStages(ctx context.Context, projectID string, stages []*domain.Stage) error {
	next := make([]*domain.Stage, len(stages))
	for i, st := range stages {
		next[i] = st.Clone()
	}
	return s.mutateProject(ctx, "set_stages", projectID, func(p *domain.Project) error {
		seen := make(map[string]bool, len(next))
		for _, st := range next {
			if err := (domain.StagePatch{Name: &st.Name}).Validate(); err != nil {
				return err
			}
			if st.ID == "" || seen[st.ID] {
				return &domain.ValidationError{Field: "stages", Reason: "stage ids must be present and unique"}
			}
			seen[st.ID] = true
		}
		if !ordering.IsDense(next) {
			return &domain.ValidationError{Field: "stages", Reason: "stage orders must be dense and zero-based"}
		}
		kept := p.Subtasks[:0]
		for _, sub := range p.Subtasks {
			if seen[sub.StageID] {
				kept = append(kept, sub)
			}
		}
		p.Stages = next
		p.Subtasks = kept
		return nil
	})
}

func validateSubtaskList(stages []*domain.Stage, subtasks []*domain.Subtask) error {
	stageIDs := make(map[string]bool, len(stages))
	for _, st := range stages {
		stageIDs[st.ID] = true
	}
	seen := make(map[string]bool, len(subtasks))
	for _, sub := range subtasks {
		if sub.ID == "" || seen[sub.ID] {
			return &domain.ValidationError{Field: "subtasks", Reason: "subtask ids must be present and unique"}
		}
		seen[sub.ID] = true
		if err := (domain.SubtaskPatch{Name: &sub.Name}).Validate(); err != nil {
			return err
		}
		if !stageIDs[sub.StageID] {
			return domain.StageNotFound(sub.StageID)
		}
		sub.Status = sub.Status.Normalize()
		if !sub.Status.Valid() {
			return &domain.ValidationError{Field: "status", Reason: "unknown subtask status \"" + string(sub.Status) + "\""}
		}
	}
	if !ordering.IsDense(subtasks) {
		return &domain.ValidationError{Field: "subtasks", Reason: "subtask orders must be dense and zero-based per stage"}
	}
	return nil
}

func cloneSubtasks(in []*domain.Subtask) []*domain.Subtask {
	out := make([]*domain.Subtask, len(in))
	for i, st := range in {
		out[i] = st.Clone()
	}
	return out
}
