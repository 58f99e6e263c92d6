package services

import (
	"context"
	"time"

	"github.com/Aryan9inja/edu-collab/internal/app/models"
)

// Narrow persistence interfaces consumed by the services. The concrete
// implementations live in the repositories package; tests substitute
// in-memory fakes.

type ClassroomStore interface {
	Create(ctx context.Context, classroom *models.Classroom) error
	GetByID(ctx context.Context, id int64) (*models.Classroom, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.Classroom, error)
	UpdateName(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

type MembershipStore interface {
	AddMember(ctx context.Context, classroomID, userID int64) error
	RemoveMember(ctx context.Context, classroomID, userID int64) error
	IsMember(ctx context.Context, classroomID, userID int64) (bool, error)
	GetMembers(ctx context.Context, classroomID int64) ([]*models.ClassroomMember, error)
	AddGrantee(ctx context.Context, classroomID, userID, grantedBy int64) error
	RemoveGrantee(ctx context.Context, classroomID, userID int64) error
}

type UsernameStore interface {
	Create(ctx context.Context, userID int64, handle string) error
	GetByUserID(ctx context.Context, userID int64) (*models.Username, error)
	GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64]string, error)
	HandleExists(ctx context.Context, handle string) (bool, error)
}

type NoteStore interface {
	Link(ctx context.Context, classroomID, fileID int64) error
	Unlink(ctx context.Context, classroomID, fileID int64) error
	Exists(ctx context.Context, classroomID, fileID int64) (bool, error)
	GetFilesByClassroomID(ctx context.Context, classroomID int64) ([]*models.File, error)
}

type FileStore interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id int64) (*models.File, error)
	Delete(ctx context.Context, id int64) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type TokenStore interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetByValue(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}
