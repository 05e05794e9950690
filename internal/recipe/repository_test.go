package recipe

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"family-meal-planner/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func TestRepositorySaveAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	want := validRecipe()
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Get(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestRepositorySaveUpserts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rec := validRecipe()
	require.NoError(t, repo.Save(ctx, rec))

	rec.Title = "Chicken Curry v2"
	rec.CookMinutes = 35
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chicken Curry v2", got.Title)
	assert.Equal(t, 35, got.CookMinutes)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRepositoryGetMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRepositorySaveAllAndList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	batch := []Recipe{
		{ID: "veggie-chili", Title: "Veggie Chili", CookMinutes: 35, Vegetarian: true, LeftoverScore: 4},
		{ID: "chicken-curry", Title: "Chicken Curry", CookMinutes: 40, Protein: "chicken"},
		{ID: "miso-salmon", Title: "Miso Salmon", CookMinutes: 25, Protein: "fish"},
	}
	require.NoError(t, repo.SaveAll(ctx, batch))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "chicken-curry", got[0].ID, "list is ordered by id")
	assert.Equal(t, "miso-salmon", got[1].ID)
	assert.Equal(t, "veggie-chili", got[2].ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRepositoryListEmpty(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
