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

const createUserFilesTable = `
CREATE TABLE IF NOT EXISTS user_files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	name TEXT NOT NULL,
	game TEXT NOT NULL,
	content_type TEXT NOT NULL,
	download_type TEXT NOT NULL DEFAULT '',
	mod_type TEXT NOT NULL DEFAULT '',
	size TEXT NOT NULL,
	version TEXT NOT NULL,
	file_url TEXT NOT NULL,
	file_type TEXT NOT NULL DEFAULT 'direct',
	downloads INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
`

type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) repository.FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUserFilesTable); err != nil {
		return fmt.Errorf("create user_files table: %w", err)
	}
	return nil
}

func (r *FileRepository) Create(ctx context.Context, file *domain.UserFile) (int64, error) {
	file.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO user_files (user_id, name, game, content_type, download_type, mod_type, size, version, file_url, file_type, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		file.UserID,
		file.Name,
		file.Game,
		file.ContentType,
		file.DownloadType,
		file.ModType,
		file.Size,
		file.Version,
		file.FileURL,
		file.FileType,
		file.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert user file: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user file last insert id: %w", err)
	}
	file.ID = id
	return id, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id int64) (*domain.UserFile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT uf.id, uf.user_id, uf.name, uf.game, uf.content_type, uf.download_type, uf.mod_type,
       uf.size, uf.version, uf.file_url, uf.file_type, uf.downloads, uf.created_at, u.username
FROM user_files uf
JOIN users u ON uf.user_id = u.id
WHERE uf.id = ?`,
		id,
	)

	var file domain.UserFile
	if err := scanFile(row.Scan, &file); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user file: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user file: %w", err)
	}
	return &file, nil
}

func (r *FileRepository) List(ctx context.Context) ([]domain.UserFile, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT uf.id, uf.user_id, uf.name, uf.game, uf.content_type, uf.download_type, uf.mod_type,
       uf.size, uf.version, uf.file_url, uf.file_type, uf.downloads, uf.created_at, u.username
FROM user_files uf
JOIN users u ON uf.user_id = u.id
ORDER BY uf.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list user files: %w", err)
	}
	defer rows.Close()

	var files []domain.UserFile
	for rows.Next() {
		var file domain.UserFile
		if err := scanFile(rows.Scan, &file); err != nil {
			return nil, fmt.Errorf("scan user file row: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user files: %w", err)
	}
	return files, nil
}

func (r *FileRepository) IncrementDownloads(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE user_files SET downloads = downloads + 1 WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("increment downloads: %w", err)
	}
	return affectedOrNotFound(res, "user file")
}

func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user file: %w", err)
	}
	return affectedOrNotFound(res, "user file")
}

func scanFile(scan func(dest ...any) error, file *domain.UserFile) error {
	return scan(
		&file.ID,
		&file.UserID,
		&file.Name,
		&file.Game,
		&file.ContentType,
		&file.DownloadType,
		&file.ModType,
		&file.Size,
		&file.Version,
		&file.FileURL,
		&file.FileType,
		&file.Downloads,
		&file.CreatedAt,
		&file.Author,
	)
}
