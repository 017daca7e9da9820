package domain

import "time"

// ProjectPatch carries a partial project update. Nil fields are left
// untouched. Identity, creation time, stages and subtasks cannot be patched.
type ProjectPatch struct {
	Name             *string
	Description      *string
	Status           *ProjectStatus
	Budget           *float64
	ClearBudget      bool
	Metadata         *Metadata
	Outcomes         *Outcomes
	ExecutiveSummary *string
}

func (pp ProjectPatch) Validate() error {
	if pp.Name != nil {
		if err := validateName("name", *pp.Name); err != nil {
			return err
		}
	}
	if pp.Status != nil && !pp.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown project status " + quote(string(*pp.Status))}
	}
	return validateAmount("budget", pp.Budget)
}

// Apply shallow-merges the patch into p.
func (pp ProjectPatch) Apply(p *Project, now time.Time) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.ClearBudget {
		p.Budget = nil
	}
	if pp.Budget != nil {
		p.Budget = cloneFloat(pp.Budget)
	}
	if pp.Metadata != nil {
		p.Metadata = *pp.Metadata
	}
	if pp.Outcomes != nil {
		p.Outcomes = *pp.Outcomes
	}
	if pp.ExecutiveSummary != nil {
		p.ExecutiveSummary = *pp.ExecutiveSummary
	}
	p.UpdatedAt = now
}

// StagePatch carries a partial stage update. Order is deliberately absent:
// it changes only through move, delete and bulk replace.
type StagePatch struct {
	Name *string
}

func (sp StagePatch) Validate() error {
	if sp.Name != nil {
		return validateName("stage name", *sp.Name)
	}
	return nil
}

func (sp StagePatch) Apply(s *Stage) {
	if sp.Name != nil {
		s.Name = *sp.Name
	}
}

// SubtaskPatch carries a partial subtask update. It has no stage or order
// fields; moving a subtask between stages goes through MoveSubtask so both
// groups are re-indexed.
type SubtaskPatch struct {
	Name              *string
	Description       *string
	Status            *SubtaskStatus
	StartDate         *time.Time
	EndDate           *time.Time
	SuggestedDeadline *time.Time
	Cost              *float64
	ClearCost         bool
}

func (sp SubtaskPatch) Validate() error {
	if sp.Name != nil {
		if err := validateName("subtask name", *sp.Name); err != nil {
			return err
		}
	}
	if sp.Status != nil && !sp.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown subtask status " + quote(string(*sp.Status))}
	}
	return validateAmount("cost", sp.Cost)
}

// Apply merges the patch into st and re-checks the resulting date range.
func (sp SubtaskPatch) Apply(st *Subtask) error {
	start := FirstSet(sp.StartDate, st.StartDate)
	end := FirstSet(sp.EndDate, st.EndDate)
	if err := validateDateRange(start, end); err != nil {
		return err
	}
	if sp.Name != nil {
		st.Name = *sp.Name
	}
	if sp.Description != nil {
		st.Description = *sp.Description
	}
	if sp.Status != nil {
		st.Status = *sp.Status
	}
	st.StartDate = cloneTime(start)
	st.EndDate = cloneTime(end)
	st.SuggestedDeadline = cloneTime(FirstSet(sp.SuggestedDeadline, st.SuggestedDeadline))
	if sp.ClearCost {
		st.Cost = nil
	}
	if sp.Cost != nil {
		st.Cost = cloneFloat(sp.Cost)
	}
	return nil
}
