package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modvault/internal/domain"
	"modvault/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, NewUserRepository(db).Init(ctx))
	require.NoError(t, NewFileRepository(db).Init(ctx))
	require.NoError(t, NewCommentRepository(db).Init(ctx))
	return db
}

func seedUser(t *testing.T, repo repository.UserRepository, username, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
	}
	_, err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func seedFile(t *testing.T, repo repository.FileRepository, userID int64) *domain.UserFile {
	t.Helper()
	file := &domain.UserFile{
		UserID:      userID,
		Name:        "Pack",
		Game:        "Skyrim",
		ContentType: "mod",
		Size:        "1MB",
		Version:     "1.0",
		FileURL:     "https://example.com/pack.zip",
		FileType:    domain.FileTypeDirect,
	}
	_, err := repo.Create(context.Background(), file)
	require.NoError(t, err)
	return file
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := seedUser(t, repo, "alice", "a@x.com")
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.True(t, byEmail.IsActive)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = repo.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// The schema's UNIQUE constraints are the authoritative duplicate guard.
func TestUserRepositoryUniqueConstraints(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, repo, "alice", "a@x.com")

	_, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "other@x.com", PasswordHash: "x", IsActive: true})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = repo.Create(ctx, &domain.User{Username: "bob", Email: "a@x.com", PasswordHash: "x", IsActive: true})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestCommentRepositoryLifecycle(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	files := NewFileRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice", "a@x.com")
	file := seedFile(t, files, alice.ID)

	rating := 5
	comment := &domain.Comment{
		UserID:  alice.ID,
		FileID:  file.ID,
		Content: "works great",
		Rating:  &rating,
	}
	_, err := comments.Create(ctx, comment)
	require.NoError(t, err)

	listed, err := comments.ListByFile(ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "works great", listed[0].Content)
	assert.Equal(t, "alice", listed[0].Username, "listing joins author fields")
	require.NotNil(t, listed[0].Rating)
	assert.Equal(t, 5, *listed[0].Rating)

	require.NoError(t, comments.SoftDelete(ctx, comment.ID))

	after, err := comments.GetByID(ctx, comment.ID)
	require.NoError(t, err, "soft delete keeps the row")
	assert.Equal(t, domain.DeletedCommentContent, after.Content)
	assert.Nil(t, after.Rating)

	assert.ErrorIs(t, comments.SoftDelete(ctx, 9999), repository.ErrNotFound)
}

func TestCommentRepositoryUpdate(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	files := NewFileRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice", "a@x.com")
	file := seedFile(t, files, alice.ID)

	comment := &domain.Comment{UserID: alice.ID, FileID: file.ID, Content: "first"}
	_, err := comments.Create(ctx, comment)
	require.NoError(t, err)

	rating := 3
	require.NoError(t, comments.Update(ctx, comment.ID, "edited", &rating))

	after, err := comments.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", after.Content)
	require.NotNil(t, after.Rating)
	assert.Equal(t, 3, *after.Rating)
}

func TestFileRepositoryLifecycle(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	files := NewFileRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice", "a@x.com")
	file := seedFile(t, files, alice.ID)

	listed, err := files.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "alice", listed[0].Author)
	assert.Zero(t, listed[0].Downloads)

	require.NoError(t, files.IncrementDownloads(ctx, file.ID))
	require.NoError(t, files.IncrementDownloads(ctx, file.ID))

	got, err := files.GetByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Downloads)

	require.NoError(t, files.Delete(ctx, file.ID))
	_, err = files.GetByID(ctx, file.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, files.Delete(ctx, file.ID), repository.ErrNotFound)
}
