package importer

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/stageplan/internal/domain"
)

// ValidateDocument checks a decoded document before conversion and returns
// every problem found, not just the first.
func ValidateDocument(doc *Document) []error {
	var errs []error

	if doc.Version != DocumentVersion {
		errs = append(errs, fmt.Errorf("version: unsupported value %d (expected %d)", doc.Version, DocumentVersion))
	}
	errs = append(errs, validateProject(&doc.Project)...)
	for i, st := range doc.Stages {
		errs = append(errs, validateStage(fmt.Sprintf("stages[%d]", i), &st)...)
	}
	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.Status != "" {
		if _, err := domain.ParseProjectStatus(p.Status); err != nil {
			errs = append(errs, fmt.Errorf("project.status: invalid value %q", p.Status))
		}
	}
	if err := validateAmount("project.budget", p.Budget); err != nil {
		errs = append(errs, err)
	}
	if m := p.Metadata; m != nil {
		errs = append(errs, validateDateRange("project.metadata", m.StartDate, m.EndDate)...)
	}
	return errs
}

func validateStage(path string, st *StageImport) []error {
	var errs []error

	if st.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", path))
	}
	for j, sub := range st.Subtasks {
		subPath := fmt.Sprintf("%s.subtasks[%d]", path, j)
		if sub.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", subPath))
		}
		if sub.Status != "" {
			if _, err := domain.ParseSubtaskStatus(sub.Status); err != nil {
				errs = append(errs, fmt.Errorf("%s.status: invalid value %q", subPath, sub.Status))
			}
		}
		if err := validateAmount(subPath+".cost", sub.Cost); err != nil {
			errs = append(errs, err)
		}
		errs = append(errs, validateDateRange(subPath, sub.StartDate, sub.EndDate)...)
		if sub.SuggestedDeadline != nil {
			if _, err := time.Parse(dateLayout, *sub.SuggestedDeadline); err != nil {
				errs = append(errs, fmt.Errorf("%s.suggested_deadline: invalid date format %q (expected YYYY-MM-DD)", subPath, *sub.SuggestedDeadline))
			}
		}
	}
	return errs
}

func validateDateRange(path string, start, end *string) []error {
	var errs []error
	var startT, endT time.Time
	var startOK, endOK bool

	if start != nil {
		t, err := time.Parse(dateLayout, *start)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.start_date: invalid date format %q (expected YYYY-MM-DD)", path, *start))
		} else {
			startT, startOK = t, true
		}
	}
	if end != nil {
		t, err := time.Parse(dateLayout, *end)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.end_date: invalid date format %q (expected YYYY-MM-DD)", path, *end))
		} else {
			endT, endOK = t, true
		}
	}
	if startOK && endOK && endT.Before(startT) {
		errs = append(errs, fmt.Errorf("%s.end_date %q must not be before start_date %q", path, *end, *start))
	}
	return errs
}

func validateAmount(path string, v *float64) error {
	switch {
	case v == nil:
		return nil
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		return fmt.Errorf("%s must be a finite number", path)
	case *v < 0:
		return fmt.Errorf("%s must be non-negative", path)
	}
	return nil
}
