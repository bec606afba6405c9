package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guahanweb/photography-challenges-backend/internal/projects/domain"
	"github.com/guahanweb/photography-challenges-backend/internal/projects/repository"
	"github.com/guahanweb/photography-challenges-backend/internal/storage/storagetest"
)

func newRepo() *repository.ProjectRepository {
	fake := storagetest.New(storagetest.TableDef{
		Name:         "projects",
		PartitionKey: "projectId",
		SortKey:      "version",
	})
	return repository.NewProjectRepository(fake, "projects")
}

func createInput(title string) domain.CreateInput {
	return domain.CreateInput{
		Title:           title,
		ProjectNumber:   7,
		ProjectCategory: domain.CategoryStreet,
		DifficultyLevel: domain.DifficultyBeginner,
		Duration:        domain.Duration{Days: 30},
		Rules:           []string{"one photo per day"},
		CreatedBy:       "mentor@example.com",
	}
}

func TestCreate(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	t.Run("stamps system fields", func(t *testing.T) {
		p, err := repo.Create(ctx, createInput("30 Days of Street"))
		require.NoError(t, err)

		assert.NotEmpty(t, p.ProjectID)
		assert.Equal(t, 1, p.Version)
		assert.NotEmpty(t, p.CreatedAt)
		assert.Equal(t, p.CreatedAt, p.UpdatedAt)
		assert.True(t, p.IsActive)
		assert.False(t, p.IsPublished)
	})

	t.Run("requires title and createdBy", func(t *testing.T) {
		_, err := repo.Create(ctx, domain.CreateInput{CreatedBy: "x@example.com"})
		assert.Error(t, err)

		_, err = repo.Create(ctx, domain.CreateInput{Title: "No Author"})
		assert.Error(t, err)
	})
}

func TestGet(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, createInput("Macro Week"))
	require.NoError(t, err)

	t.Run("round-trips the stored row", func(t *testing.T) {
		got, err := repo.Get(ctx, created.ProjectID, 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.Rules, got.Rules)
		assert.Equal(t, created.ProjectCategory, got.ProjectCategory)
	})

	t.Run("absent version is nil without error", func(t *testing.T) {
		got, err := repo.Get(ctx, created.ProjectID, 2)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("unknown id is nil without error", func(t *testing.T) {
		got, err := repo.Get(ctx, "proj_missing", 1)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestUpdate(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, createInput("Night Shots"))
	require.NoError(t, err)

	t.Run("writes a new version and keeps history", func(t *testing.T) {
		title := "Night Shots, Revised"
		published := true
		updated, err := repo.Update(ctx, created.ProjectID, 1, domain.UpdateInput{
			Title:       &title,
			IsPublished: &published,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, title, updated.Title)
		assert.True(t, updated.IsPublished)
		// Untouched fields carry over from version 1.
		assert.Equal(t, created.Rules, updated.Rules)

		v1, err := repo.Get(ctx, created.ProjectID, 1)
		require.NoError(t, err)
		require.NotNil(t, v1)
		assert.Equal(t, "Night Shots", v1.Title)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		title := "Late Writer"
		_, err := repo.Update(ctx, created.ProjectID, 1, domain.UpdateInput{Title: &title})
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
	})

	t.Run("unknown target is not found", func(t *testing.T) {
		title := "x"
		_, err := repo.Update(ctx, "proj_missing", 1, domain.UpdateInput{Title: &title})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUpdate_ConcurrentSameVersion(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, createInput("Contended"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			title := "Writer"
			_, errs[i] = repo.Update(ctx, created.ProjectID, 1, domain.UpdateInput{Title: &title})
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case err == domain.ErrVersionConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one writer should win")
	assert.Equal(t, 1, conflicts, "the loser should see a version conflict")
}

func TestDelete(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, createInput("Disposable"))
	require.NoError(t, err)

	title := "v2"
	_, err = repo.Update(ctx, created.ProjectID, 1, domain.UpdateInput{Title: &title})
	require.NoError(t, err)

	t.Run("removes only the addressed version", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ProjectID, 1))

		v1, err := repo.Get(ctx, created.ProjectID, 1)
		require.NoError(t, err)
		assert.Nil(t, v1)

		v2, err := repo.Get(ctx, created.ProjectID, 2)
		require.NoError(t, err)
		assert.NotNil(t, v2)
	})

	t.Run("absent row is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.Delete(ctx, created.ProjectID, 1))
		assert.NoError(t, repo.Delete(ctx, "proj_missing", 1))
	})
}

func TestList(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		_, err := repo.Create(ctx, createInput(title))
		require.NoError(t, err)
	}

	t.Run("pages with a continuation cursor", func(t *testing.T) {
		first, err := repo.List(ctx, 2, "")
		require.NoError(t, err)
		assert.Len(t, first.Items, 2)
		require.NotEmpty(t, first.Cursor)

		second, err := repo.List(ctx, 2, first.Cursor)
		require.NoError(t, err)
		assert.Len(t, second.Items, 1)
		assert.Empty(t, second.Cursor)
	})

	t.Run("historical versions appear alongside the latest", func(t *testing.T) {
		page, err := repo.List(ctx, 10, "")
		require.NoError(t, err)
		before := len(page.Items)

		title := "B, Revised"
		_, err = repo.Update(ctx, page.Items[0].ProjectID, 1, domain.UpdateInput{Title: &title})
		require.NoError(t, err)

		page, err = repo.List(ctx, 10, "")
		require.NoError(t, err)
		assert.Len(t, page.Items, before+1)
	})
}
