package repository

import (
	"context"

	"modvault/internal/domain"
)

// FileRepository defines persistence operations for shared file metadata.
type FileRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, file *domain.UserFile) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.UserFile, error)
	List(ctx context.Context) ([]domain.UserFile, error)
	IncrementDownloads(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
