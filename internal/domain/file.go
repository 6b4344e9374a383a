package domain

import "time"

// File type values. Direct files link out to an external URL; s3 files live
// in the service's own bucket and are served through presigned URLs.
const (
	FileTypeDirect = "direct"
	FileTypeS3     = "s3"
)

// UserFile is uploaded mod/file metadata shared on the site. The bytes
// themselves are either hosted externally (FileURL points anywhere) or in
// object storage (FileURL is an s3:// location).
type UserFile struct {
	ID           int64
	UserID       int64
	Name         string
	Game         string
	ContentType  string
	DownloadType string
	ModType      string
	Size         string
	Version      string
	FileURL      string
	FileType     string
	Downloads    int64
	CreatedAt    time.Time

	// Author username joined from the users table for listings.
	Author string
}
