package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"modvault/internal/auth"
	"modvault/internal/domain"
	"modvault/internal/repository"
	"modvault/internal/storage"
)

// ErrStorageNotConfigured is returned by upload/download operations when no
// object storage bucket is configured. Metadata operations keep working.
var ErrStorageNotConfigured = errors.New("storage not configured")

const downloadURLTTL = 15 * time.Minute

// FileService manages shared file metadata and the object-storage blobs
// behind s3-typed files.
type FileService interface {
	List(ctx context.Context) ([]domain.UserFile, error)
	Create(ctx context.Context, file *domain.UserFile) (*domain.UserFile, error)
	DownloadURL(ctx context.Context, id int64) (string, error)
	Upload(ctx context.Context, filename string, body io.Reader) (location string, err error)
	Delete(ctx context.Context, claims *auth.Claims, id int64) ([]string, error)
}

type fileService struct {
	files     repository.FileRepository
	storage   storage.Service
	bucket    string
	keyPrefix string
}

func NewFileService(files repository.FileRepository, store storage.Service, bucket, keyPrefix string) FileService {
	return &fileService{
		files:     files,
		storage:   store,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
	}
}

func (s *fileService) List(ctx context.Context) ([]domain.UserFile, error) {
	return s.files.List(ctx)
}

func (s *fileService) Create(ctx context.Context, file *domain.UserFile) (*domain.UserFile, error) {
	file.Name = strings.TrimSpace(file.Name)
	file.Game = strings.TrimSpace(file.Game)

	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", file.Name},
		{"game", file.Game},
		{"content_type", file.ContentType},
		{"size", file.Size},
		{"version", file.Version},
		{"file_url", file.FileURL},
	} {
		if field.value == "" {
			return nil, validationErr(fmt.Sprintf("%s is required", field.name))
		}
	}
	if file.UserID <= 0 {
		return nil, validationErr("user id is required")
	}
	if file.FileType == "" {
		file.FileType = domain.FileTypeDirect
	}

	if _, err := s.files.Create(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// DownloadURL resolves the URL a client should fetch the file from and counts
// the download. Files in the service bucket get a short-lived presigned URL;
// everything else returns the stored external URL.
func (s *fileService) DownloadURL(ctx context.Context, id int64) (string, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	url := file.FileURL
	if file.FileType == domain.FileTypeS3 {
		if s.storage == nil || s.bucket == "" {
			return "", ErrStorageNotConfigured
		}
		key, err := keyFromLocation(file.FileURL, s.bucket)
		if err != nil {
			return "", err
		}
		url, err = s.storage.PresignDownload(ctx, s.bucket, key, downloadURLTTL)
		if err != nil {
			return "", err
		}
	}

	// count only downloads we actually handed a URL for
	if err := s.files.IncrementDownloads(ctx, id); err != nil {
		return "", err
	}
	return url, nil
}

// Upload streams a file body into the service bucket and returns its s3
// location. Each upload gets a fresh uuid directory so names never collide.
func (s *fileService) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	if s.storage == nil || s.bucket == "" {
		return "", ErrStorageNotConfigured
	}
	filename = path.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		return "", validationErr("filename is required")
	}

	key := fmt.Sprintf("%s/%s", uuid.NewString(), filename)
	if s.keyPrefix != "" {
		key = s.keyPrefix + "/" + key
	}

	if err := s.storage.UploadObject(ctx, s.bucket, key, body); err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// Delete removes file metadata and, for files in the service bucket, the
// stored objects. Only the uploader may delete. Remote cleanup failures are
// returned as warnings rather than failing the delete.
func (s *fileService) Delete(ctx context.Context, claims *auth.Claims, id int64) ([]string, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !auth.AuthorizeOwner(file.UserID, claims) {
		return nil, ErrForbidden
	}

	var warnings []string
	if file.FileType == domain.FileTypeS3 && s.storage != nil && s.bucket != "" {
		if key, err := keyFromLocation(file.FileURL, s.bucket); err == nil {
			if err := s.storage.DeletePrefix(ctx, s.bucket, path.Dir(key)); err != nil {
				warnings = append(warnings, fmt.Sprintf("delete remote data: %v", err))
			}
		}
	}

	if err := s.files.Delete(ctx, id); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// keyFromLocation extracts the object key from an s3://bucket/key location,
// verifying the bucket matches the one this service is configured for.
func keyFromLocation(location, bucket string) (string, error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", fmt.Errorf("invalid s3 location")
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid s3 location")
	}
	if parts[0] != bucket {
		return "", fmt.Errorf("s3 bucket mismatch")
	}
	return strings.TrimPrefix(parts[1], "/"), nil
}
