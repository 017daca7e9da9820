package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_LevelsByOutcome(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "organize-subtasks", Success: true, Fields: map[string]any{"project_id": "p1"}})
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "use_case=organize-subtasks")
	assert.Contains(t, buf.String(), "project_id=p1")

	buf.Reset()
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "generate-executive-summary", Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")

	buf.Reset()
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "suggest-subtasks", Err: domain.ProjectNotFound("p9")})
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestNewLogUseCaseObserver_NilLoggerIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestCombineObservers(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, combineObservers(nil))

	c := &captureObserver{}
	assert.Same(t, c, combineObservers([]UseCaseObserver{nil, c}).(*captureObserver))

	a, b := &captureObserver{}, &captureObserver{}
	combineObservers([]UseCaseObserver{a, nil, b}).ObserveUseCase(context.Background(), UseCaseEvent{Name: "import-project", Success: true})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}
