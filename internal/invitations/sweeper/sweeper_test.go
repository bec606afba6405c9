package sweeper_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guahanweb/photography-challenges-backend/internal/invitations/domain"
	"github.com/guahanweb/photography-challenges-backend/internal/invitations/repository"
	"github.com/guahanweb/photography-challenges-backend/internal/invitations/sweeper"
	"github.com/guahanweb/photography-challenges-backend/internal/storage/storagetest"
)

func TestSweep(t *testing.T) {
	fake := storagetest.New(storagetest.TableDef{
		Name:         "invitations",
		PartitionKey: "invitationId",
		Indexes: []storagetest.IndexDef{
			{Name: "CodeIndex", PartitionKey: "code"},
			{Name: "FromUserIndex", PartitionKey: "fromUserId", SortKey: "status"},
			{Name: "EmailIndex", PartitionKey: "email", SortKey: "status"},
		},
	})
	repo := repository.NewInvitationRepository(fake, "invitations")
	ctx := context.Background()

	sender := domain.Sender{UserID: "mentor@example.com"}
	fresh, err := repo.Create(ctx, domain.CreateInput{Email: "fresh@example.com", From: sender})
	require.NoError(t, err)
	stale, err := repo.Create(ctx, domain.CreateInput{Email: "stale@example.com", From: sender})
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour).Unix()
	_, err = repo.Update(ctx, stale.InvitationID, domain.UpdateInput{ExpiresAt: &past})
	require.NoError(t, err)

	n, err := sweeper.New(repo).Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.GetByID(ctx, stale.InvitationID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, got.Status)

	untouched, err := repo.GetByID(ctx, fresh.InvitationID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, untouched.Status)

	// A second pass finds nothing left to expire.
	n, err = sweeper.New(repo).Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
