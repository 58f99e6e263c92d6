package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/Aryan9inja/edu-collab/internal/app/access"
	"github.com/Aryan9inja/edu-collab/internal/app/models"
	"github.com/Aryan9inja/edu-collab/internal/app/models/dto"
	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
	"github.com/Aryan9inja/edu-collab/internal/pkg/validation"
)

// Member search never returns more than this many results
const searchResultLimit = 10

// UsernameService defines the interface for the username directory
type UsernameService interface {
	Register(ctx context.Context, userID int64, req *dto.RegisterUsernameRequest) (*dto.UsernameResponse, error)
	Resolve(ctx context.Context, userID int64) (*dto.UsernameResponse, error)
	ResolveMany(ctx context.Context, userIDs []int64) (*dto.ResolveUsernamesResponse, error)
	Search(ctx context.Context, classroomID, requestorID int64, query string) (*dto.UsernameSearchResponse, error)
}

// usernameServiceImpl implements UsernameService
type usernameServiceImpl struct {
	usernameRepo   UsernameStore
	classroomRepo  ClassroomStore
	membershipRepo MembershipStore
	logger         zerolog.Logger
}

// NewUsernameService creates a new UsernameService
func NewUsernameService(
	usernameRepo UsernameStore,
	classroomRepo ClassroomStore,
	membershipRepo MembershipStore,
	logger zerolog.Logger,
) UsernameService {
	return &usernameServiceImpl{
		usernameRepo:   usernameRepo,
		classroomRepo:  classroomRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

// Register claims a handle for the user. Handles are immutable and unique
// ignoring case.
func (s *usernameServiceImpl) Register(ctx context.Context, userID int64, req *dto.RegisterUsernameRequest) (*dto.UsernameResponse, error) {
	handle := strings.TrimSpace(req.Username)
	if err := validation.ValidateHandle(handle); err != nil {
		return nil, err
	}

	existing, err := s.usernameRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrUsernameNotFound) {
		return nil, fmt.Errorf("error checking existing username: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("You have already registered a username")
	}

	taken, err := s.usernameRepo.HandleExists(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("error checking username availability: %w", err)
	}
	if taken {
		return nil, apperrors.NewConflictError("Username is already taken")
	}

	// The unique index on LOWER(handle) closes the race behind this check
	if err := s.usernameRepo.Create(ctx, userID, handle); err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			return nil, apperrors.NewConflictError("Username is already taken")
		}
		return nil, fmt.Errorf("error registering username: %w", err)
	}

	s.logger.Info().
		Int64("userID", userID).
		Str("username", handle).
		Msg("Username registered")

	return &dto.UsernameResponse{UserID: userID, Username: handle}, nil
}

// Resolve returns the handle registered by a user
func (s *usernameServiceImpl) Resolve(ctx context.Context, userID int64) (*dto.UsernameResponse, error) {
	username, err := s.usernameRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UsernameResponse{UserID: username.UserID, Username: username.Handle}, nil
}

// ResolveMany returns handles for the given users. Users without a handle
// are simply absent from the result; the lookup never fails part-way.
func (s *usernameServiceImpl) ResolveMany(ctx context.Context, userIDs []int64) (*dto.ResolveUsernamesResponse, error) {
	if len(userIDs) == 0 {
		return &dto.ResolveUsernamesResponse{Usernames: map[int64]string{}}, nil
	}

	handles, err := s.usernameRepo.GetByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("error resolving usernames: %w", err)
	}

	return &dto.ResolveUsernamesResponse{Usernames: handles}, nil
}

// Search finds classroom members whose handle contains the query,
// case-insensitive. Only members may search; an empty query matches nothing.
func (s *usernameServiceImpl) Search(ctx context.Context, classroomID, requestorID int64, query string) (*dto.UsernameSearchResponse, error) {
	classroom, err := s.classroomRepo.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	if !access.IsMember(classroom, requestorID) {
		return nil, apperrors.NewForbiddenError("Only classroom members can search the member directory")
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return &dto.UsernameSearchResponse{Results: []dto.UsernameResponse{}}, nil
	}

	members, err := s.membershipRepo.GetMembers(ctx, classroomID)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}

	memberIDs := lo.Map(members, func(m *models.ClassroomMember, _ int) int64 {
		return m.UserID
	})

	handles, err := s.usernameRepo.GetByUserIDs(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("error resolving member handles: %w", err)
	}

	matches := lo.Filter(memberIDs, func(id int64, _ int) bool {
		handle, ok := handles[id]
		return ok && strings.Contains(strings.ToLower(handle), query)
	})

	results := make([]dto.UsernameResponse, 0, len(matches))
	for _, id := range matches {
		if len(results) == searchResultLimit {
			break
		}
		results = append(results, dto.UsernameResponse{UserID: id, Username: handles[id]})
	}

	return &dto.UsernameSearchResponse{Results: results}, nil
}
