// File: internal/repository/channel/channel_repository_test.go
package channel

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/docutalk/docutalk/internal/domain"
)

func newTestRepo(t *testing.T) ChannelRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Channel{}))
	return NewChannelRepository(db)
}

func TestCreateAndFind(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(context.Background(), &domain.Channel{OwnerID: 1, Title: "First"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)

	_, err = repo.FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestCreateRequiresOwner(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Create(context.Background(), &domain.Channel{Title: "No owner"})
	assert.Error(t, err)
}

func TestFindByOwnerIDScopesToOwner(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Create(context.Background(), &domain.Channel{OwnerID: 1, Title: "Mine"})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), &domain.Channel{OwnerID: 2, Title: "Theirs"})
	require.NoError(t, err)

	channels, err := repo.FindByOwnerID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "Mine", channels[0].Title)
}

func TestVerifyOwnership(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(context.Background(), &domain.Channel{OwnerID: 1, Title: "Mine"})
	require.NoError(t, err)

	ok, err := repo.VerifyOwnership(context.Background(), created.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.VerifyOwnership(context.Background(), created.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateTitle(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(context.Background(), &domain.Channel{OwnerID: 1, Title: "Old"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateTitle(context.Background(), created.ID, "New"))
	got, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)

	assert.ErrorIs(t, repo.UpdateTitle(context.Background(), 999, "New"), ErrChannelNotFound)
	assert.Error(t, repo.UpdateTitle(context.Background(), created.ID, ""))
}

func TestDeleteScopedToOwner(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(context.Background(), &domain.Channel{OwnerID: 1, Title: "Mine"})
	require.NoError(t, err)

	// Wrong owner cannot delete.
	assert.ErrorIs(t, repo.Delete(context.Background(), created.ID, 2), ErrUnauthorizedAccess)

	require.NoError(t, repo.Delete(context.Background(), created.ID, 1))
	_, err = repo.FindByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestTouchUpdatedAt(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.Create(context.Background(), &domain.Channel{OwnerID: 1, Title: "Mine"})
	require.NoError(t, err)

	assert.NoError(t, repo.TouchUpdatedAt(context.Background(), created.ID))
	assert.ErrorIs(t, repo.TouchUpdatedAt(context.Background(), 999), ErrChannelNotFound)
}
