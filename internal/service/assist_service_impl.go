package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/alexanderramin/stageplan/internal/intelligence"
	"github.com/alexanderramin/stageplan/internal/reconcile"
	"github.com/alexanderramin/stageplan/internal/rollup"
	"golang.org/x/sync/singleflight"
)

type assistService struct {
	store      ProjectStore
	suggester  intelligence.SuggestService
	organizer  intelligence.OrganizeService
	summarizer intelligence.SummaryService
	observer   UseCaseObserver

	// One pending collaborator call per (action, project).
	inflight singleflight.Group
}

func NewAssistService(
	store ProjectStore,
	suggester intelligence.SuggestService,
	organizer intelligence.OrganizeService,
	summarizer intelligence.SummaryService,
	observers ...UseCaseObserver,
) AssistService {
	return &assistService{
		store:      store,
		suggester:  suggester,
		organizer:  organizer,
		summarizer: summarizer,
		observer:   combineObservers(observers),
	}
}

func (s *assistService) SuggestSubtasks(ctx context.Context, req SuggestRequest) (result *SuggestResult, err error) {
	fields := map[string]any{"project_id": req.ProjectID, "stage_id": req.StageID, "dry_run": req.DryRun}
	done := observe(ctx, s.observer, "suggest-subtasks", fields)
	defer func() { done(err) }()

	p, err := s.store.GetProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	stage := p.StageByID(req.StageID)
	if stage == nil {
		return nil, domain.StageNotFound(req.StageID)
	}

	out, err := coalesce(ctx, &s.inflight, "suggest:"+p.ID+":"+stage.ID, func(ctx context.Context) (*intelligence.SuggestOutput, error) {
		return s.suggester.SuggestSubtasks(ctx, intelligence.SuggestInput{
			ProjectDescription: domain.FirstNonEmpty(p.Description, p.Name),
			TargetStageName:    stage.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	fields["suggested"] = len(out.Subtasks)

	result = &SuggestResult{Suggested: out.Subtasks}
	if req.DryRun || len(out.Subtasks) == 0 {
		return result, nil
	}
	inputs := make([]domain.SubtaskInput, len(out.Subtasks))
	for i, name := range out.Subtasks {
		inputs[i] = domain.SubtaskInput{Name: name}
	}
	result.Added, err = s.store.AddMultipleSubtasks(ctx, p.ID, stage.ID, inputs)
	if err != nil {
		return nil, fmt.Errorf("adding suggested subtasks: %w", err)
	}
	return result, nil
}

func (s *assistService) OrganizeSubtasks(ctx context.Context, projectID string) (result *OrganizeResult, err error) {
	fields := map[string]any{"project_id": projectID}
	done := observe(ctx, s.observer, "organize-subtasks", fields)
	defer func() { done(err) }()

	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	in := intelligence.OrganizeInput{ProjectName: p.Name}
	for _, stage := range p.SortedStages() {
		in.Stages = append(in.Stages, stage.Name)
	}
	for _, stage := range p.SortedStages() {
		for _, st := range p.SubtasksInStage(stage.ID) {
			in.Subtasks = append(in.Subtasks, intelligence.OrganizeSubtask{Name: st.Name, Description: st.Description})
		}
	}

	out, err := coalesce(ctx, &s.inflight, "organize:"+p.ID, func(ctx context.Context) (*intelligence.OrganizeOutput, error) {
		return s.organizer.OrganizeSubtasks(ctx, in)
	})
	if err != nil {
		return nil, err
	}

	subtasks, report := reconcile.Reconcile(p, out.Categorization)
	fields["reassigned"] = report.Reassigned
	fields["moved"] = report.Moved
	fields["dropped_stages"] = len(report.DroppedStages)
	fields["dropped_items"] = len(report.DroppedItems)

	if err := s.store.SetProjectSubtasks(ctx, p.ID, subtasks); err != nil {
		return nil, fmt.Errorf("applying organized subtasks: %w", err)
	}
	updated, err := s.store.GetProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &OrganizeResult{Project: updated, Report: report}, nil
}

func (s *assistService) GenerateExecutiveSummary(ctx context.Context, projectID string) (summary string, err error) {
	fields := map[string]any{"project_id": projectID}
	done := observe(ctx, s.observer, "generate-executive-summary", fields)
	defer func() { done(err) }()

	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	in := SummaryInputFor(p)

	out, err := coalesce(ctx, &s.inflight, "summary:"+p.ID, func(ctx context.Context) (*intelligence.SummaryOutput, error) {
		return s.summarizer.GenerateExecutiveSummary(ctx, in)
	})
	if err != nil {
		return "", err
	}
	if err := s.store.SetExecutiveSummary(ctx, p.ID, out.ExecutiveSummary); err != nil {
		return "", fmt.Errorf("saving executive summary: %w", err)
	}
	fields["length"] = len(out.ExecutiveSummary)
	return out.ExecutiveSummary, nil
}

// SummaryInputFor collects the facts an executive summary is written from.
func SummaryInputFor(p *domain.Project) intelligence.SummaryInput {
	sum := rollup.Summarize(p)
	in := intelligence.SummaryInput{
		ProjectName:        p.Name,
		ProjectDescription: p.Description,
		Status:             string(p.Status.Normalize()),
		StartDate:          p.Metadata.StartDate,
		DueDate:            p.Metadata.EndDate,
		Budget:             p.Budget,
		TotalSubtasks:      sum.TotalSubtasks,
		CompletedSubtasks:  sum.CompletedSubtasks,
	}
	if sum.TotalSubtasks > 0 || p.Budget != nil {
		spent := sum.Spent
		in.Spent = &spent
	}
	if !p.Outcomes.IsZero() {
		outcomes := p.Outcomes
		in.Outcomes = &outcomes
	}
	return in
}

// coalesce runs fn once per key among concurrent callers. The shared call is
// detached from any single caller's cancellation; a caller whose context ends
// first gets ctx.Err() and the result is discarded for it.
func coalesce[T any](ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) (T, error)) (T, error) {
	ch := g.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
