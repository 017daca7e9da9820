package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/stageplan/internal/llm"
)

// SummaryService drafts an executive summary.
type SummaryService interface {
	GenerateExecutiveSummary(ctx context.Context, in SummaryInput) (*SummaryOutput, error)
}

type summaryService struct {
	client llm.LLMClient
}

// NewSummaryService creates a SummaryService backed by an LLM client.
func NewSummaryService(client llm.LLMClient) SummaryService {
	return &summaryService{client: client}
}

func (s *summaryService) GenerateExecutiveSummary(ctx context.Context, in SummaryInput) (*SummaryOutput, error) {
	payload, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding summary input: %w", err)
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSummary,
		SystemPrompt: summarySystemPrompt,
		UserPrompt:   string(payload),
		JSON:         true,
	})
	if err != nil {
		return nil, externalCallError("generate executive summary", err)
	}

	out, err := llm.ExtractJSON(resp.Text, func(o SummaryOutput) error {
		if strings.TrimSpace(o.ExecutiveSummary) == "" {
			return fmt.Errorf("executiveSummary is empty")
		}
		return nil
	})
	if err != nil {
		return nil, externalCallError("generate executive summary", err)
	}
	out.ExecutiveSummary = strings.TrimSpace(out.ExecutiveSummary)
	return &out, nil
}
