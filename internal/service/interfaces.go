package service

import (
	"context"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/alexanderramin/stageplan/internal/importer"
	"github.com/alexanderramin/stageplan/internal/reconcile"
)

// ProjectStore is the subset of store.Store the services write through.
type ProjectStore interface {
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	AddMultipleSubtasks(ctx context.Context, projectID, stageID string, inputs []domain.SubtaskInput) ([]*domain.Subtask, error)
	SetProjectSubtasks(ctx context.Context, projectID string, subtasks []*domain.Subtask) error
	SetExecutiveSummary(ctx context.Context, projectID, summary string) error
	ImportProject(ctx context.Context, p *domain.Project) (*domain.Project, error)
}

// SuggestRequest asks for new subtasks in one stage of a project.
type SuggestRequest struct {
	ProjectID string
	StageID   string
	DryRun    bool // return suggestions without adding them
}

// SuggestResult lists what the collaborator proposed and what was added.
type SuggestResult struct {
	Suggested []string
	Added     []*domain.Subtask
}

// OrganizeResult is the reconciled board and what the reconciler ignored.
type OrganizeResult struct {
	Project *domain.Project
	Report  reconcile.Report
}

// AssistService runs the AI flows: snapshot the project, call the
// collaborator outside the store lock, then write the outcome back through
// the store. A failed call leaves the project untouched.
type AssistService interface {
	SuggestSubtasks(ctx context.Context, req SuggestRequest) (*SuggestResult, error)
	OrganizeSubtasks(ctx context.Context, projectID string) (*OrganizeResult, error)
	GenerateExecutiveSummary(ctx context.Context, projectID string) (string, error)
}

// ImportResult summarizes an imported project.
type ImportResult struct {
	Project      *domain.Project
	StageCount   int
	SubtaskCount int
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportDocument(ctx context.Context, doc *importer.Document) (*ImportResult, error)
	ExportProject(ctx context.Context, projectID string) (*importer.Document, error)
}
