package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"issue-tracker-api/internal/database"
	"issue-tracker-api/internal/domain"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createTestProject(t *testing.T, db *gorm.DB, name string) *domain.Project {
	t.Helper()
	repo := NewRecordRepository[domain.Project, *domain.Project](db)
	project := &domain.Project{Name: name, Status: domain.ProjectStatusActive}
	require.NoError(t, repo.Create(context.Background(), project))
	return project
}

func TestRecordRepository_CreateInitializesRecord(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRecordRepository[domain.Project, *domain.Project](db)
	ctx := context.Background()

	project := &domain.Project{Name: "Fresh"}
	require.NoError(t, repo.Create(ctx, project))

	assert.NotEqual(t, uuid.Nil, project.ID)
	assert.Equal(t, 1, project.Version)
	assert.False(t, project.IsDeleted)
	assert.False(t, project.CreatedAt.IsZero())
	assert.Equal(t, project.CreatedAt, project.UpdatedAt)
}

func TestRecordRepository_UpdateVersioned(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRecordRepository[domain.Project, *domain.Project](db)
	ctx := context.Background()
	project := createTestProject(t, db, "Versioned")

	t.Run("matching version applies the update and bumps version", func(t *testing.T) {
		updated, err := repo.UpdateVersioned(ctx, project.ID, 1, map[string]interface{}{
			"name": "Renamed",
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, 2, updated.Version)
		assert.True(t, updated.UpdatedAt.After(project.UpdatedAt) || updated.UpdatedAt.Equal(project.UpdatedAt))
	})

	t.Run("stale version leaves the record unchanged", func(t *testing.T) {
		_, err := repo.UpdateVersioned(ctx, project.ID, 1, map[string]interface{}{
			"name": "Should not land",
		})
		var conflict *VersionConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, 1, conflict.Expected)
		assert.Equal(t, 2, conflict.Actual)

		current, err := repo.FindByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", current.Name)
		assert.Equal(t, 2, current.Version)
	})

	t.Run("missing record returns not found", func(t *testing.T) {
		_, err := repo.UpdateVersioned(ctx, uuid.New(), 1, map[string]interface{}{
			"name": "nobody",
		})
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})
}

func TestRecordRepository_SoftDeleteAndRestore(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRecordRepository[domain.Project, *domain.Project](db)
	ctx := context.Background()
	project := createTestProject(t, db, "Deletable")

	require.NoError(t, repo.SoftDelete(ctx, project.ID))

	// Hidden from the default lookup but reachable via FindByIDAny
	_, err := repo.FindByID(ctx, project.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	any, err := repo.FindByIDAny(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, any.IsDeleted)

	// Deleting again is not found
	assert.True(t, errors.Is(repo.SoftDelete(ctx, project.ID), gorm.ErrRecordNotFound))

	require.NoError(t, repo.Restore(ctx, project.ID))
	restored, err := repo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)

	// Restoring a live record is not found
	assert.True(t, errors.Is(repo.Restore(ctx, project.ID), gorm.ErrRecordNotFound))
}

func TestRecordRepository_ListPagination(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRecordRepository[domain.Project, *domain.Project](db)
	ctx := context.Background()

	for i := 0; i < 45; i++ {
		project := &domain.Project{Name: fmt.Sprintf("Project %02d", i)}
		require.NoError(t, repo.Create(ctx, project))
	}

	page1, meta, err := repo.List(ctx, ListParams{Page: 1, Size: 20})
	require.NoError(t, err)
	assert.Len(t, page1, 20)
	assert.Equal(t, int64(45), meta.Total)
	assert.Equal(t, 3, meta.Pages)
	assert.True(t, meta.HasNext)
	assert.False(t, meta.HasPrev)

	page3, meta, err := repo.List(ctx, ListParams{Page: 3, Size: 20})
	require.NoError(t, err)
	assert.Len(t, page3, 5)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	// Out-of-range pages return empty, not an error
	page4, _, err := repo.List(ctx, ListParams{Page: 4, Size: 20})
	require.NoError(t, err)
	assert.Empty(t, page4)
}

func TestRecordRepository_ListExcludesDeleted(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRecordRepository[domain.Project, *domain.Project](db)
	ctx := context.Background()

	keep := createTestProject(t, db, "Keep")
	gone := createTestProject(t, db, "Gone")
	require.NoError(t, repo.SoftDelete(ctx, gone.ID))

	items, meta, err := repo.List(ctx, ListParams{Page: 1, Size: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keep.ID, items[0].ID)
	assert.Equal(t, int64(1), meta.Total)
}

func TestRecordRepository_ListFilters(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRecordRepository[domain.Project, *domain.Project](db)
	ctx := context.Background()

	active := &domain.Project{Name: "Active", Status: domain.ProjectStatusActive}
	require.NoError(t, repo.Create(ctx, active))
	onHold := &domain.Project{Name: "Parked", Status: domain.ProjectStatusOnHold}
	require.NoError(t, repo.Create(ctx, onHold))

	items, _, err := repo.List(ctx, ListParams{
		Page: 1, Size: 20,
		Filters: map[string]interface{}{"status": domain.ProjectStatusActive},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, active.ID, items[0].ID)
}
