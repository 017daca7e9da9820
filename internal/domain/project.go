package domain

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/stageplan/internal/ordering"
)

// Metadata is free-form project information carried alongside the plan. None
// of it affects ordering or derived values.
type Metadata struct {
	ProjectNumber    string     `json:"projectNumber,omitempty"`
	Client           string     `json:"client,omitempty"`
	Site             string     `json:"site,omitempty"`
	CoordinateSystem string     `json:"coordinateSystem,omitempty"`
	StartDate        *time.Time `json:"startDate,omitempty"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	OutcomeNotes     string     `json:"outcomeNotes,omitempty"`
	Equipment        []string   `json:"equipment,omitempty"`
	Personnel        []string   `json:"personnel,omitempty"`
}

// Outcomes holds the narrative results recorded for a project. They are the
// qualitative input to executive summary generation.
type Outcomes struct {
	KeyFindings     string `json:"keyFindings,omitempty"`
	Conclusions     string `json:"conclusions,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
	Achievements    string `json:"achievements,omitempty"`
	Challenges      string `json:"challenges,omitempty"`
	LessonsLearned  string `json:"lessonsLearned,omitempty"`
}

// IsZero reports whether no outcome field is set.
func (o Outcomes) IsZero() bool {
	return o == Outcomes{}
}

type Project struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	Status           ProjectStatus `json:"status"`
	Budget           *float64      `json:"budget,omitempty"`
	Metadata         Metadata      `json:"metadata"`
	Outcomes         Outcomes      `json:"outcomes"`
	ExecutiveSummary string        `json:"executiveSummary,omitempty"`
	Stages           []*Stage      `json:"stages"`
	Subtasks         []*Subtask    `json:"subtasks"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// Clone returns a deep copy of the project, including stages and subtasks.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	c.Budget = cloneFloat(p.Budget)
	c.Metadata.StartDate = cloneTime(p.Metadata.StartDate)
	c.Metadata.EndDate = cloneTime(p.Metadata.EndDate)
	c.Metadata.Equipment = slices.Clone(p.Metadata.Equipment)
	c.Metadata.Personnel = slices.Clone(p.Metadata.Personnel)
	c.Stages = make([]*Stage, len(p.Stages))
	for i, s := range p.Stages {
		c.Stages[i] = s.Clone()
	}
	c.Subtasks = make([]*Subtask, len(p.Subtasks))
	for i, st := range p.Subtasks {
		c.Subtasks[i] = st.Clone()
	}
	return &c
}

// StageByID returns the stage with the given id, or nil.
func (p *Project) StageByID(id string) *Stage {
	for _, s := range p.Stages {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// StageByName returns the lowest-ordered stage whose name matches exactly,
// or nil. Stage names are not unique; the first in pipeline order wins.
func (p *Project) StageByName(name string) *Stage {
	var found *Stage
	for _, s := range p.Stages {
		if s.Name != name {
			continue
		}
		if found == nil || s.Order < found.Order {
			found = s
		}
	}
	return found
}

// SubtaskByID returns the subtask with the given id, or nil.
func (p *Project) SubtaskByID(id string) *Subtask {
	for _, st := range p.Subtasks {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// SortedStages returns the stages in pipeline order.
func (p *Project) SortedStages() []*Stage {
	out := slices.Clone(p.Stages)
	ordering.Sort(out, nil)
	return out
}

// SubtasksInStage returns the subtasks of one stage in board order.
func (p *Project) SubtasksInStage(stageID string) []*Subtask {
	out := ordering.Group(p.Subtasks, stageID)
	ordering.Sort(out, nil)
	return out
}

// Canonicalize sorts stages by order and subtasks by (stage order, order,
// creation time) so that equal collections serialize identically. It does
// not change any order value.
func (p *Project) Canonicalize() {
	ordering.Sort(p.Stages, nil)
	rank := make(map[string]int, len(p.Stages))
	for _, s := range p.Stages {
		rank[s.ID] = s.Order
	}
	ordering.Sort(p.Subtasks, func(stageID string) int {
		if r, ok := rank[stageID]; ok {
			return r
		}
		return len(rank)
	})
}

// NewProject is the input for creating a project. Identity, timestamps and
// the empty stage and subtask collections are assigned by the store.
type NewProject struct {
	Name        string
	Description string
	Status      ProjectStatus
	Budget      *float64
	Metadata    Metadata
	Outcomes    Outcomes
}

func (n NewProject) Validate() error {
	if err := validateName("name", n.Name); err != nil {
		return err
	}
	if n.Status != "" && !n.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown project status " + quote(string(n.Status))}
	}
	return validateAmount("budget", n.Budget)
}

func validateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

// validateAmount rejects negative and non-finite money values. NaN and Inf
// parse fine from flags and YAML but cannot be stored as JSON.
func validateAmount(field string, v *float64) error {
	switch {
	case v == nil:
		return nil
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	case *v < 0:
		return &ValidationError{Field: field, Reason: "must not be negative"}
	}
	return nil
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
