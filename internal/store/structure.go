package store

import (
	"context"
	"fmt"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/alexanderramin/stageplan/internal/ordering"
)

// AddStage appends a new stage at the end of the project's pipeline.
func (s *Store) AddStage(ctx context.Context, projectID, name string) (*domain.Stage, error) {
	if err := (domain.StagePatch{Name: &name}).Validate(); err != nil {
		return nil, err
	}
	var created *domain.Stage
	err := s.mutateProject(ctx, "add_stage", projectID, func(p *domain.Project) error {
		created = &domain.Stage{
			ID:        s.newID(),
			Name:      name,
			Order:     ordering.NextOrder(p.Stages),
			CreatedAt: s.now(),
		}
		p.Stages = append(p.Stages, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created.Clone(), nil
}

// UpdateStage merges patch into the stage. Order cannot be patched.
func (s *Store) UpdateStage(ctx context.Context, projectID, stageID string, patch domain.StagePatch) (*domain.Stage, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var updated *domain.Stage
	err := s.mutateProject(ctx, "update_stage", projectID, func(p *domain.Project) error {
		updated = p.StageByID(stageID)
		if updated == nil {
			return domain.StageNotFound(stageID)
		}
		patch.Apply(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// DeleteStage removes the stage and every subtask in it, then closes the
// gap in the stage order.
func (s *Store) DeleteStage(ctx context.Context, projectID, stageID string) error {
	return s.mutateProject(ctx, "delete_stage", projectID, func(p *domain.Project) error {
		if p.StageByID(stageID) == nil {
			return domain.StageNotFound(stageID)
		}
		kept := p.Subtasks[:0]
		for _, st := range p.Subtasks {
			if st.StageID != stageID {
				kept = append(kept, st)
			}
		}
		p.Subtasks = kept
		p.Stages = ordering.RemoveAndCompact(p.Stages, stageID)
		return nil
	})
}

// MoveStage repositions a stage within the pipeline. targetOrder is the
// stage's final index and is clamped to the valid range.
func (s *Store) MoveStage(ctx context.Context, projectID, stageID string, targetOrder int) error {
	return s.mutateProject(ctx, "move_stage", projectID, func(p *domain.Project) error {
		stage := p.StageByID(stageID)
		if stage == nil {
			return domain.StageNotFound(stageID)
		}
		rest := ordering.RemoveAndCompact(p.Stages, stageID)
		p.Stages = ordering.InsertAtOrder(rest, stage, stage.GroupKey(), targetOrder)
		return nil
	})
}

// AddSubtask appends a subtask to the end of the given stage.
func (s *Store) AddSubtask(ctx context.Context, projectID, stageID string, in domain.SubtaskInput) (*domain.Subtask, error) {
	created, err := s.AddMultipleSubtasks(ctx, projectID, stageID, []domain.SubtaskInput{in})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// AddMultipleSubtasks appends a batch to the end of the given stage. Orders
// are contiguous in input order, as if each item were added one at a time.
// Either the whole batch is created or nothing is.
func (s *Store) AddMultipleSubtasks(ctx context.Context, projectID, stageID string, inputs []domain.SubtaskInput) ([]*domain.Subtask, error) {
	if len(inputs) == 0 {
		return nil, &domain.ValidationError{Field: "subtasks", Reason: "at least one subtask is required"}
	}
	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("subtask %d: %w", i+1, err)
		}
	}

	var created []*domain.Subtask
	err := s.mutateProject(ctx, "add_subtasks", projectID, func(p *domain.Project) error {
		if p.StageByID(stageID) == nil {
			return domain.StageNotFound(stageID)
		}
		next := ordering.NextOrder(ordering.Group(p.Subtasks, stageID))
		now := s.now()
		for i, in := range inputs {
			st := &domain.Subtask{
				ID:                s.newID(),
				Name:              in.Name,
				Description:       in.Description,
				Status:            in.Status.Normalize(),
				StartDate:         in.StartDate,
				EndDate:           in.EndDate,
				SuggestedDeadline: in.SuggestedDeadline,
				Cost:              in.Cost,
				StageID:           stageID,
				Order:             next + i,
				CreatedAt:         now,
			}
			p.Subtasks = append(p.Subtasks, st)
			created = append(created, st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Subtask, len(created))
	for i, st := range created {
		out[i] = st.Clone()
	}
	return out, nil
}

// UpdateSubtask merges patch into the subtask. Stage and order are not part
// of the patch; use MoveSubtask to change them.
func (s *Store) UpdateSubtask(ctx context.Context, projectID, subtaskID string, patch domain.SubtaskPatch) (*domain.Subtask, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var updated *domain.Subtask
	err := s.mutateProject(ctx, "update_subtask", projectID, func(p *domain.Project) error {
		updated = p.SubtaskByID(subtaskID)
		if updated == nil {
			return domain.SubtaskNotFound(subtaskID)
		}
		return patch.Apply(updated)
	})
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// MoveSubtask places a subtask at targetOrder within targetStageID. The gap
// in the source stage is closed first, so a same-stage move behaves as a
// remove followed by an insert into the compacted group. targetOrder is
// clamped to the destination's size.
func (s *Store) MoveSubtask(ctx context.Context, projectID, subtaskID, targetStageID string, targetOrder int) error {
	return s.mutateProject(ctx, "move_subtask", projectID, func(p *domain.Project) error {
		return moveSubtask(p, subtaskID, targetStageID, targetOrder)
	})
}

func moveSubtask(p *domain.Project, subtaskID, targetStageID string, targetOrder int) error {
	st := p.SubtaskByID(subtaskID)
	if st == nil {
		return domain.SubtaskNotFound(subtaskID)
	}
	if p.StageByID(targetStageID) == nil {
		return domain.StageNotFound(targetStageID)
	}
	rest := ordering.RemoveAndCompact(p.Subtasks, subtaskID)
	st.StageID = targetStageID
	p.Subtasks = ordering.InsertAtOrder(rest, st, targetStageID, targetOrder)
	return nil
}

// DeleteSubtask removes the subtask and compacts its stage.
func (s *Store) DeleteSubtask(ctx context.Context, projectID, subtaskID string) error {
	return s.mutateProject(ctx, "delete_subtask", projectID, func(p *domain.Project) error {
		if p.SubtaskByID(subtaskID) == nil {
			return domain.SubtaskNotFound(subtaskID)
		}
		p.Subtasks = ordering.RemoveAndCompact(p.Subtasks, subtaskID)
		return nil
	})
}

// MarkAllSubtasksAsDone sets every subtask of the project to Done without
// touching order.
func (s *Store) MarkAllSubtasksAsDone(ctx context.Context, projectID string) error {
	return s.mutateProject(ctx, "mark_all_done", projectID, func(p *domain.Project) error {
		for _, st := range p.Subtasks {
			st.Status = domain.SubtaskDone
		}
		return nil
	})
}

// SetExecutiveSummary stores generated summary text on the project.
func (s *Store) SetExecutiveSummary(ctx context.Context, projectID, summary string) error {
	return s.mutateProject(ctx, "set_summary", projectID, func(p *domain.Project) error {
		p.ExecutiveSummary = summary
		return nil
	})
}

func densify(p *domain.Project) {
	ordering.Densify(p.Stages)
	ordering.Densify(p.Subtasks)
	p.Canonicalize()
}
