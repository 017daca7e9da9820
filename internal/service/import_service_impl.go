package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/alexanderramin/stageplan/internal/importer"
)

type importService struct {
	store    ProjectStore
	observer UseCaseObserver
}

func NewImportService(store ProjectStore, observers ...UseCaseObserver) ImportService {
	return &importService{store: store, observer: combineObservers(observers)}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*ImportResult, error) {
	doc, err := importer.LoadDocument(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportDocument(ctx, doc)
}

func (s *importService) ImportDocument(ctx context.Context, doc *importer.Document) (result *ImportResult, err error) {
	fields := map[string]any{"project": doc.Project.Name}
	done := observe(ctx, s.observer, "import-project", fields)
	defer func() { done(err) }()

	if errs := importer.ValidateDocument(doc); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	converted, err := importer.Convert(doc)
	if err != nil {
		return nil, fmt.Errorf("converting import document: %w", err)
	}

	p, err := s.store.ImportProject(ctx, converted)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	fields["project_id"] = p.ID
	return &ImportResult{
		Project:      p,
		StageCount:   len(p.Stages),
		SubtaskCount: len(p.Subtasks),
	}, nil
}

func (s *importService) ExportProject(ctx context.Context, projectID string) (*importer.Document, error) {
	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return importer.Export(p), nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return &domain.ValidationError{Field: "document", Reason: b.String()}
}
