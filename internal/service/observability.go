package service

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/alexanderramin/stageplan/internal/domain"
)

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver logs every use case to logger. Caller mistakes
// (unknown ids, invalid input) log at WARN and everything else that fails at
// ERROR.
func NewLogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", event.Success),
	}
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		attrs = append(attrs, slog.Any(k, event.Fields[k]))
	}

	level := slog.LevelInfo
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
		level = slog.LevelError
		if errors.Is(event.Err, domain.ErrValidation) || errors.Is(event.Err, domain.ErrNotFound) {
			level = slog.LevelWarn
		}
	}
	o.logger.LogAttrs(ctx, level, "service_use_case", attrs...)
}

type fanOutObserver []UseCaseObserver

func (f fanOutObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, obs := range f {
		obs.ObserveUseCase(ctx, event)
	}
}

// combineObservers drops nil entries and returns a single observer that
// forwards to the rest.
func combineObservers(observers []UseCaseObserver) UseCaseObserver {
	var live fanOutObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	}
	return live
}

// observe starts timing a use case. Defer the returned func with the final
// error.
func observe(ctx context.Context, obs UseCaseObserver, name string, fields map[string]any) func(err error) {
	startedAt := time.Now().UTC()
	return func(err error) {
		obs.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}
}
