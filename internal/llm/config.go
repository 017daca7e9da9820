package llm

import (
	"fmt"
	"time"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskSuggest  TaskType = "suggest"
	TaskOrganize TaskType = "organize"
	TaskSummary  TaskType = "summary"
)

// Tasks lists every task type with per-task settings.
var Tasks = []TaskType{TaskSuggest, TaskOrganize, TaskSummary}

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskSuggest:  {Temperature: 0.4, MaxTokens: 2048, TimeoutMs: 30000},
			TaskOrganize: {Temperature: 0.1, MaxTokens: 4096, TimeoutMs: 45000},
			TaskSummary:  {Temperature: 0.3, MaxTokens: 1024, TimeoutMs: 30000},
		},
	}
}

// Validate rejects settings the client cannot run with.
func (c LLMConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required when llm is enabled")
	}
	if c.Model == "" {
		return fmt.Errorf("llm.model is required when llm is enabled")
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("llm.timeout_ms must be positive, got %d", c.TimeoutMs)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must not be negative, got %d", c.MaxRetries)
	}
	return nil
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return time.Duration(tc.TimeoutMs) * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// SetTaskTimeout overrides one task's timeout. Non-positive values are ignored.
func (c *LLMConfig) SetTaskTimeout(task TaskType, ms int) {
	if ms <= 0 {
		return
	}
	if c.Tasks == nil {
		c.Tasks = make(map[TaskType]TaskConfig)
	}
	tc := c.Tasks[task]
	tc.TimeoutMs = ms
	c.Tasks[task] = tc
}
