package importer

import (
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/stageplan/internal/domain"
)

// Convert transforms a validated Document into a project ready for
// Store.ImportProject. Stage ids are placeholders ("stage-1", ...) that the
// store replaces; orders follow list positions.
// Call ValidateDocument first; Convert assumes the document is valid.
func Convert(doc *Document) (*domain.Project, error) {
	status, err := parseProjectStatus(doc.Project.Status)
	if err != nil {
		return nil, err
	}
	p := &domain.Project{
		Name:             doc.Project.Name,
		Description:      doc.Project.Description,
		Status:           status,
		Budget:           doc.Project.Budget,
		ExecutiveSummary: doc.Project.ExecutiveSummary,
		Stages:           make([]*domain.Stage, 0, len(doc.Stages)),
	}
	if m := doc.Project.Metadata; m != nil {
		p.Metadata = domain.Metadata{
			ProjectNumber:    m.ProjectNumber,
			Client:           m.Client,
			Site:             m.Site,
			CoordinateSystem: m.CoordinateSystem,
			OutcomeNotes:     m.OutcomeNotes,
			Equipment:        slices.Clone(m.Equipment),
			Personnel:        slices.Clone(m.Personnel),
		}
		if p.Metadata.StartDate, err = parseDate("project.metadata.start_date", m.StartDate); err != nil {
			return nil, err
		}
		if p.Metadata.EndDate, err = parseDate("project.metadata.end_date", m.EndDate); err != nil {
			return nil, err
		}
	}
	if o := doc.Project.Outcomes; o != nil {
		p.Outcomes = domain.Outcomes(*o)
	}

	for i, st := range doc.Stages {
		stageID := fmt.Sprintf("stage-%d", i+1)
		p.Stages = append(p.Stages, &domain.Stage{ID: stageID, Name: st.Name, Order: i})
		for j, sub := range st.Subtasks {
			converted, err := convertSubtask(stageID, j, sub)
			if err != nil {
				return nil, fmt.Errorf("stages[%d].subtasks[%d]: %w", i, j, err)
			}
			p.Subtasks = append(p.Subtasks, converted)
		}
	}
	return p, nil
}

func convertSubtask(stageID string, order int, sub SubtaskImport) (*domain.Subtask, error) {
	status := domain.DefaultSubtaskStatus
	if sub.Status != "" {
		s, err := domain.ParseSubtaskStatus(sub.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}
	st := &domain.Subtask{
		Name:        sub.Name,
		Description: sub.Description,
		Status:      status,
		Cost:        sub.Cost,
		StageID:     stageID,
		Order:       order,
	}
	var err error
	if st.StartDate, err = parseDate("start_date", sub.StartDate); err != nil {
		return nil, err
	}
	if st.EndDate, err = parseDate("end_date", sub.EndDate); err != nil {
		return nil, err
	}
	if st.SuggestedDeadline, err = parseDate("suggested_deadline", sub.SuggestedDeadline); err != nil {
		return nil, err
	}
	return st, nil
}

// Export builds a document from a project snapshot in board order. Ids and
// timestamps are not exported.
func Export(p *domain.Project) *Document {
	doc := &Document{
		Version: DocumentVersion,
		Project: ProjectImport{
			Name:             p.Name,
			Description:      p.Description,
			Status:           string(p.Status.Normalize()),
			Budget:           p.Budget,
			ExecutiveSummary: p.ExecutiveSummary,
		},
		Stages: []StageImport{},
	}
	if m := p.Metadata; !metadataEmpty(m) {
		doc.Project.Metadata = &MetadataImport{
			ProjectNumber:    m.ProjectNumber,
			Client:           m.Client,
			Site:             m.Site,
			CoordinateSystem: m.CoordinateSystem,
			StartDate:        formatDate(m.StartDate),
			EndDate:          formatDate(m.EndDate),
			OutcomeNotes:     m.OutcomeNotes,
			Equipment:        slices.Clone(m.Equipment),
			Personnel:        slices.Clone(m.Personnel),
		}
	}
	if !p.Outcomes.IsZero() {
		o := OutcomesImport(p.Outcomes)
		doc.Project.Outcomes = &o
	}

	for _, stage := range p.SortedStages() {
		si := StageImport{Name: stage.Name}
		for _, st := range p.SubtasksInStage(stage.ID) {
			si.Subtasks = append(si.Subtasks, SubtaskImport{
				Name:              st.Name,
				Description:       st.Description,
				Status:            string(st.Status.Normalize()),
				StartDate:         formatDate(st.StartDate),
				EndDate:           formatDate(st.EndDate),
				SuggestedDeadline: formatDate(st.SuggestedDeadline),
				Cost:              st.Cost,
			})
		}
		doc.Stages = append(doc.Stages, si)
	}
	return doc
}

func parseProjectStatus(raw string) (domain.ProjectStatus, error) {
	if raw == "" {
		return domain.DefaultProjectStatus, nil
	}
	return domain.ParseProjectStatus(raw)
}

func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", field, err)
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func metadataEmpty(m domain.Metadata) bool {
	return m.ProjectNumber == "" && m.Client == "" && m.Site == "" && m.CoordinateSystem == "" &&
		m.StartDate == nil && m.EndDate == nil && m.OutcomeNotes == "" &&
		len(m.Equipment) == 0 && len(m.Personnel) == 0
}
