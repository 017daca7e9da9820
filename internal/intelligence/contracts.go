package intelligence

import (
	"time"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/alexanderramin/stageplan/internal/reconcile"
)

// SuggestInput asks for new subtask names for a project, optionally scoped
// to one stage.
type SuggestInput struct {
	ProjectDescription string `json:"projectDescription"`
	TargetStageName    string `json:"targetStageName,omitempty"`
}

// SuggestOutput is the list of proposed subtask names. Empty is valid.
type SuggestOutput struct {
	Subtasks []string `json:"subtasks"`
}

// OrganizeSubtask is one existing subtask offered for categorization.
type OrganizeSubtask struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// OrganizeInput describes the board the model should sort subtasks into.
type OrganizeInput struct {
	ProjectName string            `json:"projectName"`
	Stages      []string          `json:"stages"`
	Subtasks    []OrganizeSubtask `json:"subtasks"`
}

// OrganizeOutput keeps the stage order of the response.
type OrganizeOutput struct {
	Categorization reconcile.Categorization
}

// SummaryInput carries the facts an executive summary is written from.
type SummaryInput struct {
	ProjectName        string           `json:"projectName"`
	ProjectDescription string           `json:"projectDescription,omitempty"`
	Status             string           `json:"status,omitempty"`
	StartDate          *time.Time       `json:"startDate,omitempty"`
	DueDate            *time.Time       `json:"dueDate,omitempty"`
	Budget             *float64         `json:"budget,omitempty"`
	Spent              *float64         `json:"spent,omitempty"`
	TotalSubtasks      int              `json:"totalSubtasks"`
	CompletedSubtasks  int              `json:"completedSubtasks"`
	Outcomes           *domain.Outcomes `json:"outcomes,omitempty"`
}

// SummaryOutput is the generated narrative.
type SummaryOutput struct {
	ExecutiveSummary string `json:"executiveSummary"`
}
