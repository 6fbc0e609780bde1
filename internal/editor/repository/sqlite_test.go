package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "projects.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := New(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	rec := &Record{Name: "flat", Document: []byte(`{"name":"flat"}`), Walls: 4, Entities: 5, FloorArea: 12.5}
	require.NoError(t, repo.Save(ctx, rec))
	assert.NotEmpty(t, rec.ID)
	assert.NotEmpty(t, rec.CreatedAt)

	got, err := repo.GetByName(ctx, "flat")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, `{"name":"flat"}`, string(got.Document))
	assert.Equal(t, 4, got.Walls)
	assert.Equal(t, 12.5, got.FloorArea)
}

func TestSaveOverwritesByName(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	first := &Record{Name: "flat", Document: []byte(`{}`)}
	require.NoError(t, repo.Save(ctx, first))

	second := &Record{Name: "flat", Document: []byte(`{"objects":[]}`), Entities: 3}
	require.NoError(t, repo.Save(ctx, second))
	assert.Equal(t, first.ID, second.ID, "the stored id is kept")

	got, err := repo.GetByName(ctx, "flat")
	require.NoError(t, err)
	assert.Equal(t, `{"objects":[]}`, string(got.Document))
	assert.Equal(t, 3, got.Entities)
}

func TestSaveRequiresName(t *testing.T) {
	repo := newRepo(t)
	assert.Error(t, repo.Save(context.Background(), &Record{Document: []byte(`{}`)}))
}

func TestGetMissing(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.GetByName(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.Save(ctx, &Record{Name: "a", Document: []byte(`{}`)}))
	require.NoError(t, repo.Save(ctx, &Record{Name: "b", Document: []byte(`{}`)}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, rec := range list {
		names = append(names, rec.Name)
		assert.Empty(t, rec.Document, "list carries summaries only")
	}
	assert.ElementsMatch(t, []string{"a", "b"}, names)

	require.NoError(t, repo.Delete(ctx, "a"))
	assert.ErrorIs(t, repo.Delete(ctx, "a"), ErrNotFound)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestInitIsIdempotent(t *testing.T) {
	repo := newRepo(t)
	assert.NoError(t, repo.Init(context.Background()))
	assert.NoError(t, repo.Ping(context.Background()))
}
