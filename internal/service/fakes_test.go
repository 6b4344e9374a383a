package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"modvault/internal/domain"
	"modvault/internal/repository"
	"modvault/internal/storage"
)

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (r *fakeUserRepo) Init(context.Context) error { return nil }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return 0, fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

type fakeCommentRepo struct {
	comments map[int64]*domain.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*domain.Comment), nextID: 1}
}

func (r *fakeCommentRepo) Init(context.Context) error { return nil }

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) (int64, error) {
	comment.ID = r.nextID
	comment.CreatedAt = time.Now().UTC()
	comment.UpdatedAt = comment.CreatedAt
	r.nextID++
	copied := *comment
	r.comments[comment.ID] = &copied
	return comment.ID, nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCommentRepo) ListByFile(_ context.Context, fileID int64) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range r.comments {
		if c.FileID == fileID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Update(_ context.Context, id int64, content string, rating *int) error {
	c, ok := r.comments[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Content = content
	c.Rating = rating
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeCommentRepo) SoftDelete(_ context.Context, id int64) error {
	c, ok := r.comments[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Content = domain.DeletedCommentContent
	c.Rating = nil
	c.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeFileRepo struct {
	files  map[int64]*domain.UserFile
	nextID int64
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[int64]*domain.UserFile), nextID: 1}
}

func (r *fakeFileRepo) Init(context.Context) error { return nil }

func (r *fakeFileRepo) Create(_ context.Context, file *domain.UserFile) (int64, error) {
	file.ID = r.nextID
	file.CreatedAt = time.Now().UTC()
	r.nextID++
	copied := *file
	r.files[file.ID] = &copied
	return file.ID, nil
}

func (r *fakeFileRepo) GetByID(_ context.Context, id int64) (*domain.UserFile, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFileRepo) List(_ context.Context) ([]domain.UserFile, error) {
	var out []domain.UserFile
	for _, f := range r.files {
		out = append(out, *f)
	}
	return out, nil
}

func (r *fakeFileRepo) IncrementDownloads(_ context.Context, id int64) error {
	f, ok := r.files[id]
	if !ok {
		return repository.ErrNotFound
	}
	f.Downloads++
	return nil
}

func (r *fakeFileRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.files[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.files, id)
	return nil
}

type fakeStorage struct {
	uploaded        map[string][]byte
	deletedPrefixes []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: make(map[string][]byte)}
}

func (s *fakeStorage) UploadObject(_ context.Context, bucket, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.uploaded[bucket+"/"+key] = data
	return nil
}

func (s *fakeStorage) PresignDownload(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://%s.example.com/%s?signed", bucket, key), nil
}

func (s *fakeStorage) ListObjects(context.Context, string, string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (s *fakeStorage) DeletePrefix(_ context.Context, _ string, prefix string) error {
	s.deletedPrefixes = append(s.deletedPrefixes, prefix)
	return nil
}

var _ storage.Service = (*fakeStorage)(nil)
