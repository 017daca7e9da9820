package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/stageplan/internal/llm"
	"github.com/alexanderramin/stageplan/internal/reconcile"
	"github.com/tidwall/gjson"
)

const deadlineLayout = "2006-01-02"

// OrganizeService asks the model to sort existing subtasks into stages.
type OrganizeService interface {
	OrganizeSubtasks(ctx context.Context, in OrganizeInput) (*OrganizeOutput, error)
}

type organizeService struct {
	client llm.LLMClient
}

// NewOrganizeService creates an OrganizeService backed by an LLM client.
func NewOrganizeService(client llm.LLMClient) OrganizeService {
	return &organizeService{client: client}
}

func (s *organizeService) OrganizeSubtasks(ctx context.Context, in OrganizeInput) (*OrganizeOutput, error) {
	payload, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding organize input: %w", err)
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskOrganize,
		SystemPrompt: organizeSystemPrompt,
		UserPrompt:   string(payload),
		JSON:         true,
	})
	if err != nil {
		return nil, externalCallError("organize subtasks", err)
	}

	cat, err := ParseCategorization(resp.Text)
	if err != nil {
		return nil, externalCallError("organize subtasks", err)
	}
	return &OrganizeOutput{Categorization: cat}, nil
}

// ParseCategorization reads {"categorizedSubtasks": {stage: [items]}} from
// raw model output, keeping stages in response order. Items may be objects
// or bare name strings. Unparseable deadlines are ignored.
func ParseCategorization(raw string) (reconcile.Categorization, error) {
	obj, err := llm.ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	stages := obj.Get("categorizedSubtasks")
	if !stages.Exists() {
		return nil, fmt.Errorf("%w: missing categorizedSubtasks", llm.ErrInvalidOutput)
	}
	if !stages.IsObject() {
		return nil, fmt.Errorf("%w: categorizedSubtasks must be an object", llm.ErrInvalidOutput)
	}

	var cat reconcile.Categorization
	var parseErr error
	stages.ForEach(func(stageName, items gjson.Result) bool {
		if !items.IsArray() {
			parseErr = fmt.Errorf("%w: stage %q: items must be an array", llm.ErrInvalidOutput, stageName.String())
			return false
		}
		sa := reconcile.StageAssignment{StageName: stageName.String()}
		for _, item := range items.Array() {
			if sug, ok := parseSuggestion(item); ok {
				sa.Items = append(sa.Items, sug)
			}
		}
		cat = append(cat, sa)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return cat, nil
}

func parseSuggestion(item gjson.Result) (reconcile.Suggestion, bool) {
	if item.Type == gjson.String {
		name := strings.TrimSpace(item.String())
		return reconcile.Suggestion{Name: name}, name != ""
	}
	if !item.IsObject() {
		return reconcile.Suggestion{}, false
	}
	sug := reconcile.Suggestion{
		Name:        strings.TrimSpace(item.Get("name").String()),
		Description: strings.TrimSpace(item.Get("description").String()),
	}
	if sug.Name == "" {
		return reconcile.Suggestion{}, false
	}
	if raw := strings.TrimSpace(item.Get("suggestedDeadline").String()); raw != "" {
		if d, err := time.Parse(deadlineLayout, raw); err == nil {
			sug.SuggestedDeadline = &d
		}
	}
	return sug, true
}
