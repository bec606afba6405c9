package repository_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guahanweb/photography-challenges-backend/internal/challenges/domain"
	"github.com/guahanweb/photography-challenges-backend/internal/challenges/repository"
	"github.com/guahanweb/photography-challenges-backend/internal/storage/storagetest"
)

func newRepo() *repository.InstanceRepository {
	fake := storagetest.New(storagetest.TableDef{
		Name:         "project-instances",
		PartitionKey: "instanceId",
		SortKey:      "itemType",
		Indexes: []storagetest.IndexDef{
			{Name: "UserProjectsIndex", PartitionKey: "assignedTo"},
			{Name: "MentorProjectsIndex", PartitionKey: "assignedBy"},
		},
	})
	return repository.NewInstanceRepository(fake, "project-instances")
}

func createInput(user, mentor string) domain.CreateInstanceInput {
	return domain.CreateInstanceInput{
		ProjectID:  "proj_1",
		AssignedTo: user,
		AssignedBy: mentor,
	}
}

func TestCreateInstance(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	t.Run("defaults status and stamps timestamps", func(t *testing.T) {
		inst, err := repo.CreateInstance(ctx, createInput("alice@example.com", "mentor@example.com"))
		require.NoError(t, err)

		assert.NotEmpty(t, inst.InstanceID)
		assert.Equal(t, domain.StatusNotStarted, inst.Status)
		assert.NotEmpty(t, inst.CreatedAt)
		assert.Equal(t, inst.CreatedAt, inst.UpdatedAt)
		assert.False(t, inst.Deleted)

		got, err := repo.GetInstance(ctx, inst.InstanceID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, inst.AssignedTo, got.AssignedTo)
	})

	t.Run("requires projectId and assignedTo", func(t *testing.T) {
		_, err := repo.CreateInstance(ctx, domain.CreateInstanceInput{AssignedTo: "a@example.com"})
		assert.Error(t, err)

		_, err = repo.CreateInstance(ctx, domain.CreateInstanceInput{ProjectID: "proj_1"})
		assert.Error(t, err)
	})
}

func TestGetInstance_Absent(t *testing.T) {
	repo := newRepo()

	got, err := repo.GetInstance(context.Background(), "inst_missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateInstance(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	inst, err := repo.CreateInstance(ctx, createInput("alice@example.com", "mentor@example.com"))
	require.NoError(t, err)

	t.Run("patches only the given fields", func(t *testing.T) {
		status := domain.StatusInProgress
		progress := domain.Progress{DaysCompleted: 3, TotalDays: 30, CompletionPercentage: 10}
		updated, err := repo.UpdateInstance(ctx, inst.InstanceID, domain.UpdateInstanceInput{
			Status:   &status,
			Progress: &progress,
		})
		require.NoError(t, err)
		require.NotNil(t, updated)

		assert.Equal(t, domain.StatusInProgress, updated.Status)
		assert.Equal(t, 3, updated.Progress.DaysCompleted)
		assert.Equal(t, inst.AssignedTo, updated.AssignedTo)
		assert.NotEmpty(t, updated.UpdatedAt)
	})

	t.Run("last writer wins without a version check", func(t *testing.T) {
		first := domain.StatusCompleted
		second := domain.StatusAbandoned
		_, err := repo.UpdateInstance(ctx, inst.InstanceID, domain.UpdateInstanceInput{Status: &first})
		require.NoError(t, err)
		_, err = repo.UpdateInstance(ctx, inst.InstanceID, domain.UpdateInstanceInput{Status: &second})
		require.NoError(t, err)

		got, err := repo.GetInstance(ctx, inst.InstanceID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAbandoned, got.Status)
	})
}

func TestSoftDelete(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	inst, err := repo.CreateInstance(ctx, createInput("alice@example.com", "mentor@example.com"))
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(ctx, inst.InstanceID))

	// The row stays; only the flag flips.
	got, err := repo.GetInstance(ctx, inst.InstanceID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Deleted)
}

func TestSubmissions(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	inst, err := repo.CreateInstance(ctx, createInput("alice@example.com", "mentor@example.com"))
	require.NoError(t, err)

	for day := 1; day <= 3; day++ {
		_, err := repo.AddSubmission(ctx, inst.InstanceID, domain.SubmissionInput{
			Day:       day,
			MediaURLs: []string{"https://cdn.example.com/p.jpg"},
			Notes:     "shot at dusk",
		})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	t.Run("returned in chronological order", func(t *testing.T) {
		page, err := repo.GetSubmissions(ctx, inst.InstanceID, 10, "")
		require.NoError(t, err)
		require.Len(t, page.Items, 3)

		assert.True(t, sort.SliceIsSorted(page.Items, func(i, j int) bool {
			return page.Items[i].Date < page.Items[j].Date
		}))
		for i, sub := range page.Items {
			assert.Equal(t, i+1, sub.Day)
		}
	})

	t.Run("pages with a continuation cursor", func(t *testing.T) {
		first, err := repo.GetSubmissions(ctx, inst.InstanceID, 2, "")
		require.NoError(t, err)
		assert.Len(t, first.Items, 2)
		require.NotEmpty(t, first.Cursor)

		second, err := repo.GetSubmissions(ctx, inst.InstanceID, 2, first.Cursor)
		require.NoError(t, err)
		assert.Len(t, second.Items, 1)
		assert.Equal(t, 3, second.Items[0].Day)
	})
}

func TestMessages(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	inst, err := repo.CreateInstance(ctx, createInput("alice@example.com", "mentor@example.com"))
	require.NoError(t, err)

	for _, text := range []string{"how is it going?", "great, day 3 done"} {
		_, err := repo.AddMessage(ctx, inst.InstanceID, domain.MessageInput{
			SenderID: "mentor@example.com",
			Text:     text,
		})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	page, err := repo.GetMessages(ctx, inst.InstanceID, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "how is it going?", page.Items[0].Text)
	assert.Equal(t, "great, day 3 done", page.Items[1].Text)
	for _, msg := range page.Items {
		assert.NotEmpty(t, msg.MessageID)
		assert.NotEmpty(t, msg.Timestamp)
	}
}

func TestIndexQueries(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := repo.CreateInstance(ctx, createInput("alice@example.com", "mentor@example.com"))
		require.NoError(t, err)
	}
	_, err := repo.CreateInstance(ctx, createInput("bob@example.com", "mentor@example.com"))
	require.NoError(t, err)

	t.Run("by assignee", func(t *testing.T) {
		page, err := repo.GetUserProjects(ctx, "alice@example.com", 10, "")
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)

		empty, err := repo.GetUserProjects(ctx, "nobody@example.com", 10, "")
		require.NoError(t, err)
		assert.Empty(t, empty.Items)
	})

	t.Run("by mentor", func(t *testing.T) {
		page, err := repo.GetMentorProjects(ctx, "mentor@example.com", 10, "")
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)
	})

	t.Run("submissions do not leak into instance listings", func(t *testing.T) {
		mine, err := repo.GetUserProjects(ctx, "alice@example.com", 10, "")
		require.NoError(t, err)
		_, err = repo.AddSubmission(ctx, mine.Items[0].InstanceID, domain.SubmissionInput{Day: 1})
		require.NoError(t, err)

		after, err := repo.GetUserProjects(ctx, "alice@example.com", 10, "")
		require.NoError(t, err)
		assert.Len(t, after.Items, 2)
	})
}
