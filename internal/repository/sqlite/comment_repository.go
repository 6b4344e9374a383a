package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modvault/internal/domain"
	"modvault/internal/repository"
)

const createCommentsTable = `
CREATE TABLE IF NOT EXISTS comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	file_id INTEGER NOT NULL REFERENCES user_files(id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	rating INTEGER,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comments_file_id ON comments(file_id);
`

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) repository.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCommentsTable); err != nil {
		return fmt.Errorf("create comments table: %w", err)
	}
	return nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO comments (user_id, file_id, content, rating, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		comment.UserID,
		comment.FileID,
		comment.Content,
		comment.Rating,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("comment last insert id: %w", err)
	}
	comment.ID = id
	return id, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, file_id, content, rating, created_at, updated_at
FROM comments
WHERE id = ?`,
		id,
	)

	var comment domain.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.UserID,
		&comment.FileID,
		&comment.Content,
		&comment.Rating,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &comment, nil
}

func (r *CommentRepository) ListByFile(ctx context.Context, fileID int64) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.user_id, c.file_id, c.content, c.rating, c.created_at, c.updated_at,
       u.username, u.avatar_url
FROM comments c
JOIN users u ON c.user_id = u.id
WHERE c.file_id = ?
ORDER BY c.created_at DESC`,
		fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.UserID,
			&comment.FileID,
			&comment.Content,
			&comment.Rating,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.Username,
			&comment.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) Update(ctx context.Context, id int64, content string, rating *int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE comments SET content = ?, rating = ?, updated_at = ? WHERE id = ?`,
		content, rating, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return affectedOrNotFound(res, "comment")
}

// SoftDelete blanks the comment instead of removing the row: content becomes
// the tombstone marker and the rating is cleared.
func (r *CommentRepository) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE comments SET content = ?, rating = NULL, updated_at = ? WHERE id = ?`,
		domain.DeletedCommentContent, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("soft delete comment: %w", err)
	}
	return affectedOrNotFound(res, "comment")
}

func affectedOrNotFound(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, repository.ErrNotFound)
	}
	return nil
}
