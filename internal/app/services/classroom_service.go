package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Aryan9inja/edu-collab/internal/app/access"
	"github.com/Aryan9inja/edu-collab/internal/app/models"
	"github.com/Aryan9inja/edu-collab/internal/app/models/dto"
	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
	"github.com/Aryan9inja/edu-collab/internal/pkg/filestorage"
)

// ClassroomService defines the interface for classroom operations
type ClassroomService interface {
	Create(ctx context.Context, adminID int64, req *dto.CreateClassroomRequest) (*dto.ClassroomResponse, error)
	GetByID(ctx context.Context, classroomID, requestorID int64) (*dto.ClassroomResponse, error)
	ListForUser(ctx context.Context, userID int64) (*dto.ClassroomListResponse, error)
	Join(ctx context.Context, classroomID, userID int64) error
	Leave(ctx context.Context, classroomID, userID int64) error
	GrantAccess(ctx context.Context, classroomID, targetID, requestorID int64) error
	RevokeAccess(ctx context.Context, classroomID, targetID, requestorID int64) error
	Rename(ctx context.Context, classroomID, requestorID int64, req *dto.UpdateClassroomRequest) (*dto.ClassroomResponse, error)
	Delete(ctx context.Context, classroomID, requestorID int64) error
}

// classroomServiceImpl implements ClassroomService
type classroomServiceImpl struct {
	classroomRepo  ClassroomStore
	membershipRepo MembershipStore
	usernameRepo   UsernameStore
	noteRepo       NoteStore
	fileRepo       FileStore
	fileStorage    filestorage.FileStorage
	logger         zerolog.Logger
}

// NewClassroomService creates a new ClassroomService
func NewClassroomService(
	classroomRepo ClassroomStore,
	membershipRepo MembershipStore,
	usernameRepo UsernameStore,
	noteRepo NoteStore,
	fileRepo FileStore,
	fileStorage filestorage.FileStorage,
	logger zerolog.Logger,
) ClassroomService {
	return &classroomServiceImpl{
		classroomRepo:  classroomRepo,
		membershipRepo: membershipRepo,
		usernameRepo:   usernameRepo,
		noteRepo:       noteRepo,
		fileRepo:       fileRepo,
		fileStorage:    fileStorage,
		logger:         logger,
	}
}

// Create creates a classroom with the caller as its admin. The admin is also
// stored as a member so list queries and member listings see them uniformly.
func (s *classroomServiceImpl) Create(ctx context.Context, adminID int64, req *dto.CreateClassroomRequest) (*dto.ClassroomResponse, error) {
	classroom := &models.Classroom{
		Name:    req.Name,
		AdminID: adminID,
	}

	if err := s.classroomRepo.Create(ctx, classroom); err != nil {
		return nil, fmt.Errorf("error creating classroom: %w", err)
	}

	if err := s.membershipRepo.AddMember(ctx, classroom.ID, adminID); err != nil {
		return nil, fmt.Errorf("error adding admin membership: %w", err)
	}

	s.logger.Info().
		Int64("classroomID", classroom.ID).
		Int64("adminID", adminID).
		Msg("Classroom created")

	classroom.MemberIDs = []int64{adminID}
	classroom.GranteeIDs = []int64{}
	return s.toResponse(ctx, classroom, true)
}

// GetByID retrieves a classroom with members and grantees resolved to handles
func (s *classroomServiceImpl) GetByID(ctx context.Context, classroomID, requestorID int64) (*dto.ClassroomResponse, error) {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	// Non-members can see the classroom exists but not who is in it
	includeRoster := access.IsMember(classroom, requestorID)
	if !includeRoster {
		classroom.MemberIDs = nil
		classroom.GranteeIDs = nil
	}

	return s.toResponse(ctx, classroom, includeRoster)
}

// ListForUser lists every classroom the user administers or has joined
func (s *classroomServiceImpl) ListForUser(ctx context.Context, userID int64) (*dto.ClassroomListResponse, error) {
	classrooms, err := s.classroomRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing classrooms: %w", err)
	}

	summaries := make([]dto.ClassroomSummaryResponse, 0, len(classrooms))
	for _, classroom := range classrooms {
		members, err := s.membershipRepo.GetMembers(ctx, classroom.ID)
		if err != nil {
			s.logger.Warn().Err(err).
				Int64("classroomID", classroom.ID).
				Msg("Failed to count members")
		}
		summaries = append(summaries, dto.ClassroomSummaryResponse{
			ID:          classroom.ID,
			Name:        classroom.Name,
			AdminID:     classroom.AdminID,
			MemberCount: len(members),
			CreatedAt:   classroom.CreatedAt,
		})
	}

	return &dto.ClassroomListResponse{Classrooms: summaries}, nil
}

// Join adds the user to the classroom's member list. Joining twice is a
// no-op; joining never grants edit access.
func (s *classroomServiceImpl) Join(ctx context.Context, classroomID, userID int64) error {
	if _, err := s.classroomRepo.GetByID(ctx, classroomID); err != nil {
		return err
	}

	if err := s.membershipRepo.AddMember(ctx, classroomID, userID); err != nil {
		return fmt.Errorf("error joining classroom: %w", err)
	}

	s.logger.Info().
		Int64("classroomID", classroomID).
		Int64("userID", userID).
		Msg("User joined classroom")
	return nil
}

// Leave removes the user from members and grantees. The admin cannot leave
// their own classroom.
func (s *classroomServiceImpl) Leave(ctx context.Context, classroomID, userID int64) error {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return err
	}

	if access.IsAdmin(classroom, userID) {
		return apperrors.NewForbiddenError("The classroom admin cannot leave the classroom")
	}

	if err := s.membershipRepo.RemoveGrantee(ctx, classroomID, userID); err != nil {
		return fmt.Errorf("error removing access grant: %w", err)
	}
	if err := s.membershipRepo.RemoveMember(ctx, classroomID, userID); err != nil {
		return fmt.Errorf("error leaving classroom: %w", err)
	}

	s.logger.Info().
		Int64("classroomID", classroomID).
		Int64("userID", userID).
		Msg("User left classroom")
	return nil
}

// GrantAccess gives an existing member edit access. Only users who already
// have access may grant it. Granting to someone who has it is a no-op.
func (s *classroomServiceImpl) GrantAccess(ctx context.Context, classroomID, targetID, requestorID int64) error {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return err
	}

	if !access.HasAccess(classroom, requestorID) {
		return apperrors.NewForbiddenError("You do not have access to this classroom")
	}

	if access.IsAdmin(classroom, targetID) {
		// Admin access is implicit; nothing to record
		return nil
	}

	isMember, err := s.membershipRepo.IsMember(ctx, classroomID, targetID)
	if err != nil {
		return fmt.Errorf("error checking membership: %w", err)
	}
	if !isMember {
		return apperrors.NewValidationError("User must be a classroom member before being granted access")
	}

	if err := s.membershipRepo.AddGrantee(ctx, classroomID, targetID, requestorID); err != nil {
		return fmt.Errorf("error granting access: %w", err)
	}

	s.logger.Info().
		Int64("classroomID", classroomID).
		Int64("targetID", targetID).
		Int64("requestorID", requestorID).
		Msg("Access granted")
	return nil
}

// RevokeAccess removes a grantee's edit access. Admin only; the admin's own
// access can never be revoked.
func (s *classroomServiceImpl) RevokeAccess(ctx context.Context, classroomID, targetID, requestorID int64) error {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return err
	}

	if !access.IsAdmin(classroom, requestorID) {
		return apperrors.NewForbiddenError("Only the classroom admin can revoke access")
	}

	if access.IsAdmin(classroom, targetID) {
		return apperrors.NewForbiddenError("The classroom admin's access cannot be revoked")
	}

	if err := s.membershipRepo.RemoveGrantee(ctx, classroomID, targetID); err != nil {
		return fmt.Errorf("error revoking access: %w", err)
	}

	s.logger.Info().
		Int64("classroomID", classroomID).
		Int64("targetID", targetID).
		Msg("Access revoked")
	return nil
}

// Rename updates the classroom name. Admin only, last write wins.
func (s *classroomServiceImpl) Rename(ctx context.Context, classroomID, requestorID int64, req *dto.UpdateClassroomRequest) (*dto.ClassroomResponse, error) {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	if !access.IsAdmin(classroom, requestorID) {
		return nil, apperrors.NewForbiddenError("Only the classroom admin can rename the classroom")
	}

	if err := s.classroomRepo.UpdateName(ctx, classroomID, req.Name); err != nil {
		return nil, fmt.Errorf("error renaming classroom: %w", err)
	}

	classroom.Name = req.Name
	return s.toResponse(ctx, classroom, true)
}

// Delete removes the classroom, its membership and grant rows, its note
// links and the note blobs themselves. Admin only.
func (s *classroomServiceImpl) Delete(ctx context.Context, classroomID, requestorID int64) error {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return err
	}

	if !access.IsAdmin(classroom, requestorID) {
		return apperrors.NewForbiddenError("Only the classroom admin can delete the classroom")
	}

	// Collect note files before the cascade removes the links
	files, err := s.noteRepo.GetFilesByClassroomID(ctx, classroomID)
	if err != nil {
		return fmt.Errorf("error listing classroom notes: %w", err)
	}

	if err := s.classroomRepo.Delete(ctx, classroomID); err != nil {
		return err
	}

	// Blob and record cleanup is best-effort once the classroom row is gone
	for _, file := range files {
		if err := s.fileRepo.Delete(ctx, file.ID); err != nil {
			s.logger.Warn().Err(err).
				Int64("fileID", file.ID).
				Msg("Failed to delete note file record during classroom cleanup")
			continue
		}
		if err := s.fileStorage.DeleteFile(file.FilePath); err != nil {
			s.logger.Warn().Err(err).
				Str("path", file.FilePath).
				Msg("Failed to delete note blob during classroom cleanup")
		}
	}

	s.logger.Info().
		Int64("classroomID", classroomID).
		Int("notesPurged", len(files)).
		Msg("Classroom deleted")
	return nil
}

// toResponse maps a classroom to its response DTO, resolving member and
// grantee handles in one batch lookup. The admin is not stored in the
// grantee rows but is always presented as one; includeRoster controls
// whether the member and grantee lists are populated at all.
func (s *classroomServiceImpl) toResponse(ctx context.Context, classroom *models.Classroom, includeRoster bool) (*dto.ClassroomResponse, error) {
	granteeIDs := classroom.GranteeIDs
	if includeRoster {
		granteeIDs = append([]int64{classroom.AdminID}, classroom.GranteeIDs...)
	}

	ids := make([]int64, 0, len(classroom.MemberIDs)+len(granteeIDs))
	ids = append(ids, classroom.MemberIDs...)
	ids = append(ids, granteeIDs...)

	handles := map[int64]string{}
	if len(ids) > 0 {
		var err error
		handles, err = s.usernameRepo.GetByUserIDs(ctx, ids)
		if err != nil {
			s.logger.Warn().Err(err).
				Int64("classroomID", classroom.ID).
				Msg("Failed to resolve member handles")
			handles = map[int64]string{}
		}
	}

	toMembers := func(ids []int64) []dto.MemberResponse {
		members := make([]dto.MemberResponse, 0, len(ids))
		for _, id := range ids {
			members = append(members, dto.MemberResponse{
				UserID:   id,
				Username: handles[id],
			})
		}
		return members
	}

	return &dto.ClassroomResponse{
		ID:        classroom.ID,
		Name:      classroom.Name,
		AdminID:   classroom.AdminID,
		Members:   toMembers(classroom.MemberIDs),
		Grantees:  toMembers(granteeIDs),
		CreatedAt: classroom.CreatedAt,
		UpdatedAt: classroom.UpdatedAt,
	}, nil
}
