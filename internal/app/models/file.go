package models

import "time"

// File holds metadata for a stored blob. The bytes themselves live in the
// file storage backend; FilePath is the storage-relative location and
// FileURL the public address.
type File struct {
	ID         int64     `json:"id"`
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"-"`
	FileURL    string    `json:"fileUrl"`
	FileSize   int64     `json:"fileSize"`
	FileType   string    `json:"fileType"`
	UploadedBy int64     `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}
