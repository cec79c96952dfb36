//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-share/internal/model"
)

func TestUserRepository_Postgres(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t)
	repo := NewUserRepository(db.Pool)

	alice, err := repo.Create(ctx, "alice", "alice@example.com", "hash-a")
	require.NoError(t, err)
	assert.NotEmpty(t, alice.ID)
	assert.Equal(t, 0, alice.TokenVersion)
	assert.False(t, alice.CreatedAt.IsZero())

	t.Run("unique email and username ignore case", func(t *testing.T) {
		_, err := repo.Create(ctx, "alice2", "ALICE@example.com", "hash")
		assert.ErrorIs(t, err, model.ErrUserAlreadyExists)

		_, err = repo.Create(ctx, "Alice", "other@example.com", "hash")
		assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})

	t.Run("find", func(t *testing.T) {
		byEmail, err := repo.FindByEmail(ctx, "Alice@Example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byEmail.ID)
		assert.Equal(t, "hash-a", byEmail.PasswordHash)

		byID, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)

		_, err = repo.FindByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, model.ErrUserNotFound)

		_, err = repo.FindByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("list is ordered and omits hashes", func(t *testing.T) {
		_, err := repo.Create(ctx, "bob", "bob@example.com", "hash-b")
		require.NoError(t, err)

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "alice", users[0].Username)
		assert.Equal(t, "bob", users[1].Username)
	})

	t.Run("token version bump", func(t *testing.T) {
		version, err := repo.BumpTokenVersion(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, version)

		reloaded, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, reloaded.TokenVersion)

		_, err = repo.BumpTokenVersion(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := setupPostgres(t)
	require.NoError(t, db.EnsureSchema(context.Background()))
	require.NoError(t, db.EnsureSchema(context.Background()))
	require.NoError(t, db.Health(context.Background()))
}

func TestHealth_RequiresSchema(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	_, err := db.Pool.Exec(ctx, `ALTER TABLE users DROP COLUMN token_version`)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.EnsureSchema(context.Background()))
	})

	assert.ErrorContains(t, db.Health(ctx), "users schema is not applied")
}
