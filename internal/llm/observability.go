package llm

import (
	"context"
	"log/slog"
)

// LLMCallEvent describes one finished Generate call, retries included.
type LLMCallEvent struct {
	Task          TaskType
	Model         string
	Attempts      int
	LatencyMs     int64
	PromptBytes   int
	ResponseBytes int
	Success       bool
	ErrorCode     string
}

// Observer is told about every Generate call.
type Observer interface {
	OnCallComplete(ctx context.Context, event LLMCallEvent)
}

// LogObserver logs each call as an "llm_call" record with its attributes
// grouped under "llm".
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(ctx context.Context, event LLMCallEvent) {
	attrs := []any{
		slog.String("task", string(event.Task)),
		slog.String("model", event.Model),
		slog.Int("attempts", event.Attempts),
		slog.Int64("latency_ms", event.LatencyMs),
		slog.Int("prompt_bytes", event.PromptBytes),
	}
	level := slog.LevelInfo
	if event.Success {
		attrs = append(attrs, slog.Int("response_bytes", event.ResponseBytes), slog.String("status", "ok"))
	} else {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("status", "err"), slog.String("error_code", event.ErrorCode))
	}
	o.logger.Log(ctx, level, "llm_call", slog.Group("llm", attrs...))
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(context.Context, LLMCallEvent) {}
