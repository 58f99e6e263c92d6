package dto

import "time"

// NoteResponse represents a note file attached to a classroom
type NoteResponse struct {
	FileID     int64     `json:"fileId"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	FileSize   int64     `json:"fileSize"`
	FileType   string    `json:"fileType"`
	UploadedBy int64     `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NoteListResponse represents a classroom's notes in upload order
type NoteListResponse struct {
	Notes []NoteResponse `json:"notes"`
}
