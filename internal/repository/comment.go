package repository

import (
	"context"

	"modvault/internal/domain"
)

// CommentRepository defines persistence operations for Comment entities.
type CommentRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, comment *domain.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByFile(ctx context.Context, fileID int64) ([]domain.Comment, error)
	Update(ctx context.Context, id int64, content string, rating *int) error
	SoftDelete(ctx context.Context, id int64) error
}
