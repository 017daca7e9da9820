package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/stageplan/internal/llm"
)

// SuggestService proposes new subtask names.
type SuggestService interface {
	SuggestSubtasks(ctx context.Context, in SuggestInput) (*SuggestOutput, error)
}

type suggestService struct {
	client llm.LLMClient
}

// NewSuggestService creates a SuggestService backed by an LLM client.
func NewSuggestService(client llm.LLMClient) SuggestService {
	return &suggestService{client: client}
}

func (s *suggestService) SuggestSubtasks(ctx context.Context, in SuggestInput) (*SuggestOutput, error) {
	payload, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding suggest input: %w", err)
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSuggest,
		SystemPrompt: suggestSystemPrompt,
		UserPrompt:   string(payload),
		JSON:         true,
	})
	if err != nil {
		return nil, externalCallError("suggest subtasks", err)
	}

	out, err := llm.ExtractJSON[SuggestOutput](resp.Text, nil)
	if err != nil {
		return nil, externalCallError("suggest subtasks", err)
	}
	return &SuggestOutput{Subtasks: cleanNames(out.Subtasks)}, nil
}

// cleanNames trims names and drops blanks and exact duplicates, keeping the
// first occurrence.
func cleanNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
