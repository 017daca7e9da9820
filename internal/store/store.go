// Package store is the single source of truth for the project collection.
// Every mutation goes through a Store method, runs under one mutex, keeps the
// dense ordering of stages and subtasks, and writes the whole collection to
// the injected Persister before it becomes visible.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/google/uuid"
)

// ErrPersistence wraps any failure to load or save the collection.
var ErrPersistence = errors.New("persistence failure")

// ErrNoPrevious is returned by RestorePrevious when the persister holds no
// earlier collection.
var ErrNoPrevious = errors.New("no previous save to restore")

// Persister loads and saves the serialized project collection as one blob.
// Load returns (nil, nil) when nothing has been saved yet.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// PreviousLoader is implemented by persisters that keep the collection as it
// was before the last save.
type PreviousLoader interface {
	Previous(ctx context.Context) ([]byte, error)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the id source for new entities.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type Store struct {
	mu        sync.Mutex
	persister Persister
	projects  []*domain.Project

	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// New creates an empty Store. Call Load to hydrate it from the persister.
func New(persister Persister, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. Statuses
// stored empty are normalized to their default variants.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: loading projects: %w", ErrPersistence, err)
	}
	projects, err := decodeProjects(data)
	if err != nil {
		return err
	}
	s.projects = projects
	s.logger.DebugContext(ctx, "projects loaded", "count", len(projects))
	return nil
}

// RestorePrevious makes the collection saved before the last mutation current
// again and returns how many projects it holds. The replaced collection
// becomes the previous one, so a second call undoes the first.
func (s *Store) RestorePrevious(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.persister.(PreviousLoader)
	if !ok {
		return 0, ErrNoPrevious
	}
	data, err := src.Previous(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: loading previous projects: %w", ErrPersistence, err)
	}
	if data == nil {
		return 0, ErrNoPrevious
	}
	projects, err := decodeProjects(data)
	if err != nil {
		return 0, err
	}
	if err := s.persister.Save(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "persist projects", "op", "restore_previous", "error", err)
		return 0, fmt.Errorf("%w: saving projects: %w", ErrPersistence, err)
	}
	s.projects = projects
	s.logger.InfoContext(ctx, "previous projects restored", "count", len(projects))
	return len(projects), nil
}

func decodeProjects(data []byte) ([]*domain.Project, error) {
	var projects []*domain.Project
	if len(data) > 0 {
		if err := json.Unmarshal(data, &projects); err != nil {
			return nil, fmt.Errorf("%w: decoding projects: %w", ErrPersistence, err)
		}
	}
	for _, p := range projects {
		p.Status = p.Status.Normalize()
		for _, st := range p.Subtasks {
			st.Status = st.Status.Normalize()
		}
		p.Canonicalize()
	}
	return projects, nil
}

// mutate runs fn against a deep copy of the collection, persists the result
// and only then makes it canonical. A failing fn or Save leaves the store
// unchanged.
func (s *Store) mutate(ctx context.Context, op string, fn func(projects []*domain.Project) ([]*domain.Project, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := make([]*domain.Project, len(s.projects))
	for i, p := range s.projects {
		working[i] = p.Clone()
	}
	working, err := fn(working)
	if err != nil {
		return err
	}

	data, err := json.Marshal(working)
	if err != nil {
		return fmt.Errorf("%w: encoding projects: %w", ErrPersistence, err)
	}
	if err := s.persister.Save(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "persist projects", "op", op, "error", err)
		return fmt.Errorf("%w: saving projects: %w", ErrPersistence, err)
	}
	s.projects = working
	s.logger.DebugContext(ctx, "projects saved", "op", op, "bytes", len(data))
	return nil
}

// mutateProject is mutate scoped to one project. The project is
// canonicalized and its UpdatedAt bumped after fn succeeds.
func (s *Store) mutateProject(ctx context.Context, op, projectID string, fn func(p *domain.Project) error) error {
	return s.mutate(ctx, op, func(projects []*domain.Project) ([]*domain.Project, error) {
		p := findProject(projects, projectID)
		if p == nil {
			return nil, domain.ProjectNotFound(projectID)
		}
		if err := fn(p); err != nil {
			return nil, err
		}
		p.Canonicalize()
		p.UpdatedAt = s.now()
		return projects, nil
	})
}

func findProject(projects []*domain.Project, id string) *domain.Project {
	for _, p := range projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CreateProject assigns identity and timestamps, starts the project with no
// stages or subtasks and appends it to the collection.
func (s *Store) CreateProject(ctx context.Context, in domain.NewProject) (*domain.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	p := &domain.Project{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status.Normalize(),
		Budget:      in.Budget,
		Metadata:    in.Metadata,
		Outcomes:    in.Outcomes,
		Stages:      []*domain.Stage{},
		Subtasks:    []*domain.Subtask{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.mutate(ctx, "create_project", func(projects []*domain.Project) ([]*domain.Project, error) {
		return append(projects, p.Clone()), nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProject returns a copy of the project.
func (s *Store) GetProject(_ context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := findProject(s.projects, id)
	if p == nil {
		return nil, domain.ProjectNotFound(id)
	}
	return p.Clone(), nil
}

// ListProjects returns copies of all projects in creation order.
func (s *Store) ListProjects(_ context.Context) []*domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = p.Clone()
	}
	return out
}

// UpdateProject shallow-merges patch into the project.
func (s *Store) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var updated *domain.Project
	err := s.mutateProject(ctx, "update_project", id, func(p *domain.Project) error {
		patch.Apply(p, s.now())
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// DeleteProject removes the project together with its stages and subtasks.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_project", func(projects []*domain.Project) ([]*domain.Project, error) {
		idx := slices.IndexFunc(projects, func(p *domain.Project) bool { return p.ID == id })
		if idx < 0 {
			return nil, domain.ProjectNotFound(id)
		}
		return slices.Delete(projects, idx, idx+1), nil
	})
}

// ImportProject inserts a complete project, typically decoded from an export
// document. Fresh ids are assigned to the project, its stages and subtasks;
// stage references are remapped and every ordering group is re-densified.
func (s *Store) ImportProject(ctx context.Context, src *domain.Project) (*domain.Project, error) {
	if src == nil {
		return nil, &domain.ValidationError{Field: "project", Reason: "is required"}
	}
	if err := (domain.NewProject{Name: src.Name, Status: src.Status, Budget: src.Budget}).Validate(); err != nil {
		return nil, err
	}
	p := src.Clone()
	now := s.now()
	p.ID = s.newID()
	p.Status = p.Status.Normalize()
	p.CreatedAt = now
	p.UpdatedAt = now

	stageIDs := make(map[string]string, len(p.Stages))
	for _, st := range p.Stages {
		if err := (domain.StagePatch{Name: &st.Name}).Validate(); err != nil {
			return nil, err
		}
		newID := s.newID()
		stageIDs[st.ID] = newID
		st.ID = newID
		if st.CreatedAt.IsZero() {
			st.CreatedAt = now
		}
	}
	for _, sub := range p.Subtasks {
		stageID, ok := stageIDs[sub.StageID]
		if !ok {
			return nil, domain.StageNotFound(sub.StageID)
		}
		in := domain.SubtaskInput{Name: sub.Name, Status: sub.Status, StartDate: sub.StartDate, EndDate: sub.EndDate, Cost: sub.Cost}
		if err := in.Validate(); err != nil {
			return nil, err
		}
		sub.ID = s.newID()
		sub.StageID = stageID
		sub.Status = sub.Status.Normalize()
		if sub.CreatedAt.IsZero() {
			sub.CreatedAt = now
		}
	}
	densify(p)

	err := s.mutate(ctx, "import_project", func(projects []*domain.Project) ([]*domain.Project, error) {
		return append(projects, p.Clone()), nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
