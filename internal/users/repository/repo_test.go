package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guahanweb/photography-challenges-backend/internal/storage/storagetest"
	"github.com/guahanweb/photography-challenges-backend/internal/users/domain"
	"github.com/guahanweb/photography-challenges-backend/internal/users/repository"
)

func newRepo() *repository.UserRepository {
	fake := storagetest.New(storagetest.TableDef{
		Name:         "users",
		PartitionKey: "email",
	})
	return repository.NewUserRepository(fake, "users")
}

func TestCreateUser(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	t.Run("stores a hashed credential, never the password", func(t *testing.T) {
		user, err := repo.CreateUser(ctx, "Alice@Example.com", "hunter22")
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEqual(t, "hunter22", user.PasswordHash)
		assert.NotEmpty(t, user.Salt)
		assert.Equal(t, []string{domain.DefaultRole}, user.Roles)
		assert.NotEmpty(t, user.CreatedAt)
	})

	t.Run("duplicate email fails without touching the stored row", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, "alice@example.com", "different-password")
		assert.ErrorIs(t, err, domain.ErrDuplicate)

		// Original credential still works.
		_, err = repo.Login(ctx, "alice@example.com", "hunter22")
		assert.NoError(t, err)
	})

	t.Run("requires email and password", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, "", "pw")
		assert.Error(t, err)
		_, err = repo.CreateUser(ctx, "x@example.com", "")
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	repo := newRepo()
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, "bob@example.com", "correct horse")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := repo.Login(ctx, "BOB@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", user.Email)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, wrongPw := repo.Login(ctx, "bob@example.com", "battery staple")
		_, unknown := repo.Login(ctx, "ghost@example.com", "correct horse")

		assert.ErrorIs(t, wrongPw, domain.ErrInvalidCredentials)
		assert.ErrorIs(t, unknown, domain.ErrInvalidCredentials)
	})
}
