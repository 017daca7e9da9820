package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/google/uuid"
)

// MemoryPersister is an in-memory store.Persister that keeps the document it
// replaced in Prev. SaveErr and LoadErr inject failures; Saves counts
// successful writes.
type MemoryPersister struct {
	mu      sync.Mutex
	Data    []byte
	Prev    []byte
	SaveErr error
	LoadErr error
	Saves   int
}

func (m *MemoryPersister) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return append([]byte(nil), m.Data...), nil
}

func (m *MemoryPersister) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if m.Data != nil {
		m.Prev = m.Data
	}
	m.Data = append([]byte(nil), data...)
	m.Saves++
	return nil
}

func (m *MemoryPersister) Previous(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Prev == nil {
		return nil, nil
	}
	return append([]byte(nil), m.Prev...), nil
}

// SequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
// so tests get stable, readable ids.
func SequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

// FixedClock returns a clock that advances one second per call, starting at
// start, so creation-time tie-breaks stay deterministic.
func FixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := cur
		cur = cur.Add(time.Second)
		return t
	}
}

// Project options
type ProjectOption func(*domain.Project)

func WithBudget(b float64) ProjectOption {
	return func(p *domain.Project) {
		p.Budget = &b
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithDescription(d string) ProjectOption {
	return func(p *domain.Project) {
		p.Description = d
	}
}

// WithStages appends stages named in pipeline order.
func WithStages(names ...string) ProjectOption {
	return func(p *domain.Project) {
		for _, name := range names {
			p.Stages = append(p.Stages, &domain.Stage{
				ID:        uuid.New().String(),
				Name:      name,
				Order:     len(p.Stages),
				CreatedAt: p.CreatedAt,
			})
		}
	}
}

// WithSubtasks appends subtasks to the end of the first stage called
// stageName. It panics if no such stage exists; fixtures are static.
func WithSubtasks(stageName string, names ...string) ProjectOption {
	return func(p *domain.Project) {
		stage := p.StageByName(stageName)
		if stage == nil {
			panic("testutil: unknown stage " + stageName)
		}
		next := len(p.SubtasksInStage(stage.ID))
		for i, name := range names {
			p.Subtasks = append(p.Subtasks, NewTestSubtask(stage.ID, name, next+i))
		}
	}
}

// SubtaskOption mutates a subtask fixture.
type SubtaskOption func(*domain.Subtask)

func WithCost(c float64) SubtaskOption {
	return func(s *domain.Subtask) {
		s.Cost = &c
	}
}

func WithSubtaskStatus(st domain.SubtaskStatus) SubtaskOption {
	return func(s *domain.Subtask) {
		s.Status = st
	}
}

func NewTestSubtask(stageID, name string, order int, opts ...SubtaskOption) *domain.Subtask {
	s := &domain.Subtask{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.SubtaskToDo,
		StageID:   stageID,
		Order:     order,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.ProjectNotStarted,
		Stages:    []*domain.Stage{},
		Subtasks:  []*domain.Subtask{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Canonicalize()
	return p
}
