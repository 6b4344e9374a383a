package service

import (
	"context"
	"errors"
	"strings"

	"modvault/internal/auth"
	"modvault/internal/domain"
	"modvault/internal/repository"
)

// CommentService manages comments on shared files. Mutations require verified
// claims and enforce that only the author may change their comment.
type CommentService interface {
	ListByFile(ctx context.Context, fileID int64) ([]domain.Comment, error)
	Create(ctx context.Context, claims *auth.Claims, fileID int64, content string, rating *int) (*domain.Comment, error)
	Update(ctx context.Context, claims *auth.Claims, id int64, content string, rating *int) error
	Delete(ctx context.Context, claims *auth.Claims, id int64) error
}

type commentService struct {
	comments repository.CommentRepository
}

func NewCommentService(comments repository.CommentRepository) CommentService {
	return &commentService{comments: comments}
}

func (s *commentService) ListByFile(ctx context.Context, fileID int64) ([]domain.Comment, error) {
	return s.comments.ListByFile(ctx, fileID)
}

func (s *commentService) Create(ctx context.Context, claims *auth.Claims, fileID int64, content string, rating *int) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if fileID <= 0 {
		return nil, validationErr("file_id is required")
	}
	if content == "" {
		return nil, validationErr("content is required")
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		UserID:  claims.UserID,
		FileID:  fileID,
		Content: content,
		Rating:  rating,
	}
	if _, err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, claims *auth.Claims, id int64, content string, rating *int) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return validationErr("content is required")
	}
	if err := validateRating(rating); err != nil {
		return err
	}

	if err := s.authorizeAuthor(ctx, claims, id); err != nil {
		return err
	}
	return s.comments.Update(ctx, id, content, rating)
}

func (s *commentService) Delete(ctx context.Context, claims *auth.Claims, id int64) error {
	if err := s.authorizeAuthor(ctx, claims, id); err != nil {
		return err
	}
	return s.comments.SoftDelete(ctx, id)
}

// authorizeAuthor loads the comment and checks ownership. Callers have
// already established identity, so a missing comment may surface as 404 and a
// foreign one as 403.
func (s *commentService) authorizeAuthor(ctx context.Context, claims *auth.Claims, id int64) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !auth.AuthorizeOwner(comment.UserID, claims) {
		return ErrForbidden
	}
	return nil
}

func validateRating(rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return validationErr("rating must be between 1 and 5")
	}
	return nil
}
