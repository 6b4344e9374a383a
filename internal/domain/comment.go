package domain

import "time"

// DeletedCommentContent replaces a comment's content on soft delete. The row
// is kept so the thread structure survives.
const DeletedCommentContent = "[deleted]"

// Comment belongs to exactly one user (the author) and one shared file.
// Rating is optional, 1..5 when present.
type Comment struct {
	ID        int64
	UserID    int64
	FileID    int64
	Content   string
	Rating    *int
	CreatedAt time.Time
	UpdatedAt time.Time

	// Author fields joined from the users table for listings.
	Username  string
	AvatarURL string
}

// Deleted reports whether the comment has been soft deleted.
func (c *Comment) Deleted() bool {
	return c.Content == DeletedCommentContent
}
