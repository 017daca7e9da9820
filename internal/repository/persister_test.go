package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/alexanderramin/stageplan/internal/store"
	"github.com/alexanderramin/stageplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobPersister_LoadEmpty(t *testing.T) {
	conn := testutil.NewTestDB(t)
	p := NewBlobPersister(conn, testutil.NewTestUoW(conn), ProjectsKey)

	data, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestBlobPersister_SaveKeepsPrevious(t *testing.T) {
	conn := testutil.NewTestDB(t)
	p := NewBlobPersister(conn, testutil.NewTestUoW(conn), ProjectsKey)
	ctx := context.Background()

	require.NoError(t, p.Save(ctx, []byte("v1")))
	prev, err := p.Previous(ctx)
	require.NoError(t, err)
	assert.Nil(t, prev, "first save has nothing to back up")

	require.NoError(t, p.Save(ctx, []byte("v2")))

	cur, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(cur))
	prev, err = p.Previous(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(prev))
}

func TestBlobPersister_FailedSaveRollsBack(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewBlobPersister(conn, testutil.NewTestUoW(conn), ProjectsKey).Save(ctx, []byte("v1")))
	require.NoError(t, NewBlobPersister(conn, testutil.NewTestUoW(conn), ProjectsKey).Save(ctx, []byte("v2")))

	// First exec backs up v2, second writes v3 and fails.
	boom := errors.New("disk full")
	failing := NewBlobPersister(conn, &testutil.FailingWriteUoW{DB: conn, FailOn: 2, Err: boom}, ProjectsKey)
	err := failing.Save(ctx, []byte("v3"))
	require.ErrorIs(t, err, boom)

	cur, err := failing.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(cur))
	prev, err := failing.Previous(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(prev), "backup written in the failed transaction is discarded")
}

func TestBlobPersister_BacksStore(t *testing.T) {
	conn := testutil.NewTestDB(t)
	persister := NewBlobPersister(conn, testutil.NewTestUoW(conn), ProjectsKey)
	ctx := context.Background()

	s := store.New(persister)
	require.NoError(t, s.Load(ctx))
	p, err := s.CreateProject(ctx, domain.NewProject{Name: "Survey"})
	require.NoError(t, err)
	stage, err := s.AddStage(ctx, p.ID, "Fieldwork")
	require.NoError(t, err)
	_, err = s.AddMultipleSubtasks(ctx, p.ID, stage.ID, []domain.SubtaskInput{{Name: "Mobilise"}, {Name: "Scan"}})
	require.NoError(t, err)

	reloaded := store.New(persister)
	require.NoError(t, reloaded.Load(ctx))
	got, err := reloaded.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Stages, 1)
	require.Len(t, got.Subtasks, 2)
	assert.Equal(t, "Mobilise", got.Subtasks[0].Name)
	assert.Equal(t, 1, got.Subtasks[1].Order)
	assert.Equal(t, domain.SubtaskToDo, got.Subtasks[1].Status)
}

func TestBlobPersister_StoreUnchangedWhenSaveFails(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	boom := errors.New("locked")
	persister := NewBlobPersister(conn, &testutil.FailingWriteUoW{DB: conn, FailOn: 1, Err: boom}, ProjectsKey)

	s := store.New(persister)
	require.NoError(t, s.Load(ctx))
	_, err := s.CreateProject(ctx, domain.NewProject{Name: "Lost"})
	require.ErrorIs(t, err, store.ErrPersistence)
	require.ErrorIs(t, err, boom)

	assert.Empty(t, s.ListProjects(ctx))
}

func TestBlobPersister_StoreRestoresPrevious(t *testing.T) {
	conn := testutil.NewTestDB(t)
	persister := NewBlobPersister(conn, testutil.NewTestUoW(conn), ProjectsKey)
	ctx := context.Background()
	var _ store.PreviousLoader = persister

	s := store.New(persister)
	require.NoError(t, s.Load(ctx))
	p, err := s.CreateProject(ctx, domain.NewProject{Name: "Survey"})
	require.NoError(t, err)
	_, err = s.AddStage(ctx, p.ID, "Fieldwork")
	require.NoError(t, err)

	n, err := s.RestorePrevious(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reloaded := store.New(persister)
	require.NoError(t, reloaded.Load(ctx))
	got, err := reloaded.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Stages, "stage added by the undone change is gone")

	prev, err := persister.Previous(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(prev), "Fieldwork", "undone state is kept for a second restore")
}
