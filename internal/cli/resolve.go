package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/stageplan/internal/domain"
)

// matchID finds the single item whose id equals input or, failing that,
// starts with it. It returns the number of prefix matches so callers can
// tell "missing" from "ambiguous".
func matchID[T any](items []T, idOf func(T) string, input string) (T, int) {
	var zero, found T
	n := 0
	for _, it := range items {
		id := idOf(it)
		if id == input {
			return it, 1
		}
		if strings.HasPrefix(id, input) {
			found = it
			n++
		}
	}
	if n != 1 {
		return zero, n
	}
	return found, 1
}

func ambiguous(kind, input string, n int) error {
	return &domain.ValidationError{Field: kind, Reason: fmt.Sprintf("id prefix %q is ambiguous (%d matches)", input, n)}
}

// resolveProject accepts a full project id or a unique id prefix.
func resolveProject(ctx context.Context, app *App, input string) (*domain.Project, error) {
	if input == "" {
		return nil, &domain.ValidationError{Field: "project", Reason: "project id is required"}
	}
	p, n := matchID(app.Store.ListProjects(ctx), func(p *domain.Project) string { return p.ID }, input)
	switch n {
	case 0:
		return nil, domain.ProjectNotFound(input)
	case 1:
		return p, nil
	default:
		return nil, ambiguous("project", input, n)
	}
}

// resolveStage accepts a stage id, an exact stage name or a unique id
// prefix, in that order of precedence. Names are not unique; the first stage
// in pipeline order wins.
func resolveStage(p *domain.Project, input string) (*domain.Stage, error) {
	if stage := p.StageByID(input); stage != nil {
		return stage, nil
	}
	if byName := p.StageByName(input); byName != nil {
		return byName, nil
	}
	stage, n := matchID(p.Stages, func(s *domain.Stage) string { return s.ID }, input)
	switch n {
	case 0:
		return nil, domain.StageNotFound(input)
	case 1:
		return stage, nil
	default:
		return nil, ambiguous("stage", input, n)
	}
}

// resolveSubtask accepts a subtask id or a unique id prefix.
func resolveSubtask(p *domain.Project, input string) (*domain.Subtask, error) {
	st, n := matchID(p.Subtasks, func(s *domain.Subtask) string { return s.ID }, input)
	switch n {
	case 0:
		return nil, domain.SubtaskNotFound(input)
	case 1:
		return st, nil
	default:
		return nil, ambiguous("subtask", input, n)
	}
}
