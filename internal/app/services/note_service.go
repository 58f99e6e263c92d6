package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/Aryan9inja/edu-collab/internal/app/access"
	"github.com/Aryan9inja/edu-collab/internal/app/models"
	"github.com/Aryan9inja/edu-collab/internal/app/models/dto"
	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
	"github.com/Aryan9inja/edu-collab/internal/pkg/filestorage"
)

// NoteService defines the interface for classroom note operations
type NoteService interface {
	Upload(ctx context.Context, classroomID, requestorID int64, fileHeader *multipart.FileHeader) (*dto.NoteResponse, error)
	List(ctx context.Context, classroomID, requestorID int64) (*dto.NoteListResponse, error)
	Remove(ctx context.Context, classroomID, noteID, requestorID int64) error
	GetViewURL(ctx context.Context, classroomID, noteID, requestorID int64) (string, error)
	GetDownloadURL(ctx context.Context, classroomID, noteID, requestorID int64) (string, error)
}

// noteServiceImpl implements NoteService
type noteServiceImpl struct {
	classroomRepo ClassroomStore
	noteRepo      NoteStore
	fileRepo      FileStore
	fileStorage   filestorage.FileStorage
	logger        zerolog.Logger
}

// NewNoteService creates a new NoteService
func NewNoteService(
	classroomRepo ClassroomStore,
	noteRepo NoteStore,
	fileRepo FileStore,
	fileStorage filestorage.FileStorage,
	logger zerolog.Logger,
) NoteService {
	return &noteServiceImpl{
		classroomRepo: classroomRepo,
		noteRepo:      noteRepo,
		fileRepo:      fileRepo,
		fileStorage:   fileStorage,
		logger:        logger,
	}
}

// Upload stores a note file and links it into the classroom. Only users
// with edit access may upload. If the link step fails the stored blob and
// file record are removed again.
func (s *noteServiceImpl) Upload(ctx context.Context, classroomID, requestorID int64, fileHeader *multipart.FileHeader) (*dto.NoteResponse, error) {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	if !access.HasAccess(classroom, requestorID) {
		return nil, apperrors.NewForbiddenError("You do not have access to upload notes to this classroom")
	}

	if fileHeader == nil {
		return nil, apperrors.NewValidationError("A file is required")
	}

	relativePath, err := s.fileStorage.SaveFileWithPath(fileHeader, fmt.Sprintf("classrooms/%d", classroomID))
	if err != nil {
		return nil, fmt.Errorf("error storing note file: %w", err)
	}

	file := &models.File{
		FileName:   fileHeader.Filename,
		FilePath:   relativePath,
		FileURL:    s.fileStorage.FileURL(relativePath),
		FileSize:   fileHeader.Size,
		FileType:   fileHeader.Header.Get("Content-Type"),
		UploadedBy: requestorID,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		if cleanupErr := s.fileStorage.DeleteFile(relativePath); cleanupErr != nil {
			s.logger.Warn().Err(cleanupErr).
				Str("path", relativePath).
				Msg("Failed to clean up blob after record insert failure")
		}
		return nil, fmt.Errorf("error creating file record: %w", err)
	}

	if err := s.noteRepo.Link(ctx, classroomID, file.ID); err != nil {
		if cleanupErr := s.fileRepo.Delete(ctx, file.ID); cleanupErr != nil {
			s.logger.Warn().Err(cleanupErr).
				Int64("fileID", file.ID).
				Msg("Failed to clean up file record after link failure")
		}
		if cleanupErr := s.fileStorage.DeleteFile(relativePath); cleanupErr != nil {
			s.logger.Warn().Err(cleanupErr).
				Str("path", relativePath).
				Msg("Failed to clean up blob after link failure")
		}
		return nil, fmt.Errorf("error linking note: %w", err)
	}

	s.logger.Info().
		Int64("classroomID", classroomID).
		Int64("fileID", file.ID).
		Int64("uploadedBy", requestorID).
		Msg("Note uploaded")

	return s.toResponse(file), nil
}

// List returns the classroom's notes in upload order. Members only.
func (s *noteServiceImpl) List(ctx context.Context, classroomID, requestorID int64) (*dto.NoteListResponse, error) {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	if !access.IsMember(classroom, requestorID) {
		return nil, apperrors.NewForbiddenError("Only classroom members can view notes")
	}

	files, err := s.noteRepo.GetFilesByClassroomID(ctx, classroomID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}

	notes := make([]dto.NoteResponse, 0, len(files))
	for _, file := range files {
		notes = append(notes, *s.toResponse(file))
	}

	return &dto.NoteListResponse{Notes: notes}, nil
}

// Remove unlinks a note from the classroom and deletes the file record and
// blob. Only users with edit access may remove notes. The blob deletion is
// best-effort; a leaked blob is logged, never surfaced.
func (s *noteServiceImpl) Remove(ctx context.Context, classroomID, noteID, requestorID int64) error {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return err
	}

	if !access.HasAccess(classroom, requestorID) {
		return apperrors.NewForbiddenError("You do not have access to remove notes from this classroom")
	}

	file, err := s.lookupNote(ctx, classroomID, noteID)
	if err != nil {
		return err
	}

	if err := s.noteRepo.Unlink(ctx, classroomID, noteID); err != nil {
		return err
	}

	if err := s.fileRepo.Delete(ctx, file.ID); err != nil {
		s.logger.Warn().Err(err).
			Int64("fileID", file.ID).
			Msg("Failed to delete file record for removed note")
	}
	if err := s.fileStorage.DeleteFile(file.FilePath); err != nil {
		s.logger.Warn().Err(err).
			Str("path", file.FilePath).
			Msg("Failed to delete blob for removed note")
	}

	s.logger.Info().
		Int64("classroomID", classroomID).
		Int64("fileID", noteID).
		Msg("Note removed")
	return nil
}

// GetViewURL returns the inline URL for a note. Members only.
func (s *noteServiceImpl) GetViewURL(ctx context.Context, classroomID, noteID, requestorID int64) (string, error) {
	file, err := s.memberNote(ctx, classroomID, noteID, requestorID)
	if err != nil {
		return "", err
	}
	return file.FileURL, nil
}

// GetDownloadURL returns the attachment URL for a note. Members only.
func (s *noteServiceImpl) GetDownloadURL(ctx context.Context, classroomID, noteID, requestorID int64) (string, error) {
	file, err := s.memberNote(ctx, classroomID, noteID, requestorID)
	if err != nil {
		return "", err
	}
	return file.FileURL + "?download=1", nil
}

func (s *noteServiceImpl) memberNote(ctx context.Context, classroomID, noteID, requestorID int64) (*models.File, error) {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	if !access.IsMember(classroom, requestorID) {
		return nil, apperrors.NewForbiddenError("Only classroom members can view notes")
	}

	return s.lookupNote(ctx, classroomID, noteID)
}

// lookupNote resolves a note id to its file, verifying the link belongs to
// the classroom.
func (s *noteServiceImpl) lookupNote(ctx context.Context, classroomID, noteID int64) (*models.File, error) {
	linked, err := s.noteRepo.Exists(ctx, classroomID, noteID)
	if err != nil {
		return nil, fmt.Errorf("error checking note link: %w", err)
	}
	if !linked {
		return nil, apperrors.ErrNoteNotFound
	}

	file, err := s.fileRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, apperrors.ErrNoteNotFound
	}

	return file, nil
}

func (s *noteServiceImpl) toResponse(file *models.File) *dto.NoteResponse {
	return &dto.NoteResponse{
		FileID:     file.ID,
		FileName:   file.FileName,
		FileURL:    file.FileURL,
		FileSize:   file.FileSize,
		FileType:   file.FileType,
		UploadedBy: file.UploadedBy,
		CreatedAt:  file.CreatedAt,
	}
}
