package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	TokenRepository      *TokenRepository
	UsernameRepository   *UsernameRepository
	ClassroomRepository  *ClassroomRepository
	MembershipRepository *MembershipRepository
	NoteRepository       *NoteRepository
	FileRepository       *FileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		TokenRepository:      NewTokenRepository(db),
		UsernameRepository:   NewUsernameRepository(db),
		ClassroomRepository:  NewClassroomRepository(db),
		MembershipRepository: NewMembershipRepository(db),
		NoteRepository:       NewNoteRepository(db),
		FileRepository:       NewFileRepository(db),
	}
}
