package filestorage

import "mime/multipart"

// FileStorage defines the interface for blob storage operations. Callers
// treat stored files as opaque: they hand bytes in and get a path/URL back.
type FileStorage interface {
	// SaveFile saves a file under the storage root and returns its accessible path
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// SaveFileWithPath saves a file under the given subdirectory
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a file from storage; deleting a missing file is not an error
	DeleteFile(filePath string) error

	// GetBaseURL returns the public base URL prepended to stored paths
	GetBaseURL() string

	// FileURL returns the public URL for a storage-relative path
	FileURL(relativePath string) string
}
