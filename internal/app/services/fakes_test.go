package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/Aryan9inja/edu-collab/internal/app/models"
	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
)

// In-memory stores backing the service tests.

type fakeClassroomStore struct {
	nextID     int64
	classrooms map[int64]*models.Classroom
	membership *fakeMembershipStore
}

func newFakeClassroomStore(membership *fakeMembershipStore) *fakeClassroomStore {
	return &fakeClassroomStore{
		nextID:     1,
		classrooms: map[int64]*models.Classroom{},
		membership: membership,
	}
}

func (f *fakeClassroomStore) Create(_ context.Context, classroom *models.Classroom) error {
	classroom.ID = f.nextID
	f.nextID++
	now := time.Now()
	classroom.CreatedAt = now
	classroom.UpdatedAt = now
	stored := *classroom
	f.classrooms[classroom.ID] = &stored
	return nil
}

func (f *fakeClassroomStore) GetByID(_ context.Context, id int64) (*models.Classroom, error) {
	stored, ok := f.classrooms[id]
	if !ok {
		return nil, apperrors.ErrClassroomNotFound
	}
	classroom := *stored
	classroom.MemberIDs = f.membership.memberIDs(id)
	classroom.GranteeIDs = f.membership.granteeIDs(id)
	return &classroom, nil
}

func (f *fakeClassroomStore) ListForUser(_ context.Context, userID int64) ([]*models.Classroom, error) {
	var result []*models.Classroom
	for _, stored := range f.classrooms {
		if stored.AdminID == userID || f.membership.isMember(stored.ID, userID) {
			classroom := *stored
			result = append(result, &classroom)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeClassroomStore) UpdateName(_ context.Context, id int64, name string) error {
	stored, ok := f.classrooms[id]
	if !ok {
		return apperrors.ErrClassroomNotFound
	}
	stored.Name = name
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeClassroomStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.classrooms[id]; !ok {
		return apperrors.ErrClassroomNotFound
	}
	delete(f.classrooms, id)
	f.membership.dropClassroom(id)
	return nil
}

type membershipKey struct {
	classroomID int64
	userID      int64
}

type fakeMembershipStore struct {
	nextID   int64
	members  map[membershipKey]*models.ClassroomMember
	grantees map[membershipKey]*models.ClassroomGrantee
}

func newFakeMembershipStore() *fakeMembershipStore {
	return &fakeMembershipStore{
		nextID:   1,
		members:  map[membershipKey]*models.ClassroomMember{},
		grantees: map[membershipKey]*models.ClassroomGrantee{},
	}
}

func (f *fakeMembershipStore) AddMember(_ context.Context, classroomID, userID int64) error {
	key := membershipKey{classroomID, userID}
	if _, ok := f.members[key]; ok {
		return nil
	}
	f.members[key] = &models.ClassroomMember{
		ID:          f.nextID,
		ClassroomID: classroomID,
		UserID:      userID,
		JoinedAt:    time.Now(),
	}
	f.nextID++
	return nil
}

func (f *fakeMembershipStore) RemoveMember(_ context.Context, classroomID, userID int64) error {
	delete(f.members, membershipKey{classroomID, userID})
	return nil
}

func (f *fakeMembershipStore) IsMember(_ context.Context, classroomID, userID int64) (bool, error) {
	return f.isMember(classroomID, userID), nil
}

func (f *fakeMembershipStore) GetMembers(_ context.Context, classroomID int64) ([]*models.ClassroomMember, error) {
	var members []*models.ClassroomMember
	for _, m := range f.members {
		if m.ClassroomID == classroomID {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (f *fakeMembershipStore) AddGrantee(_ context.Context, classroomID, userID, grantedBy int64) error {
	key := membershipKey{classroomID, userID}
	if _, ok := f.grantees[key]; ok {
		return nil
	}
	f.grantees[key] = &models.ClassroomGrantee{
		ID:          f.nextID,
		ClassroomID: classroomID,
		UserID:      userID,
		GrantedBy:   grantedBy,
		GrantedAt:   time.Now(),
	}
	f.nextID++
	return nil
}

func (f *fakeMembershipStore) RemoveGrantee(_ context.Context, classroomID, userID int64) error {
	delete(f.grantees, membershipKey{classroomID, userID})
	return nil
}

func (f *fakeMembershipStore) isMember(classroomID, userID int64) bool {
	_, ok := f.members[membershipKey{classroomID, userID}]
	return ok
}

func (f *fakeMembershipStore) memberIDs(classroomID int64) []int64 {
	var members []*models.ClassroomMember
	for _, m := range f.members {
		if m.ClassroomID == classroomID {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	ids := []int64{}
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func (f *fakeMembershipStore) granteeIDs(classroomID int64) []int64 {
	var grantees []*models.ClassroomGrantee
	for _, g := range f.grantees {
		if g.ClassroomID == classroomID {
			grantees = append(grantees, g)
		}
	}
	sort.Slice(grantees, func(i, j int) bool { return grantees[i].ID < grantees[j].ID })
	ids := []int64{}
	for _, g := range grantees {
		ids = append(ids, g.UserID)
	}
	return ids
}

func (f *fakeMembershipStore) dropClassroom(classroomID int64) {
	for key := range f.members {
		if key.classroomID == classroomID {
			delete(f.members, key)
		}
	}
	for key := range f.grantees {
		if key.classroomID == classroomID {
			delete(f.grantees, key)
		}
	}
}

type fakeUsernameStore struct {
	handles map[int64]string
}

func newFakeUsernameStore() *fakeUsernameStore {
	return &fakeUsernameStore{handles: map[int64]string{}}
}

func (f *fakeUsernameStore) Create(_ context.Context, userID int64, handle string) error {
	for _, existing := range f.handles {
		if strings.EqualFold(existing, handle) {
			return apperrors.ErrUsernameTaken
		}
	}
	f.handles[userID] = handle
	return nil
}

func (f *fakeUsernameStore) GetByUserID(_ context.Context, userID int64) (*models.Username, error) {
	handle, ok := f.handles[userID]
	if !ok {
		return nil, apperrors.ErrUsernameNotFound
	}
	return &models.Username{UserID: userID, Handle: handle}, nil
}

func (f *fakeUsernameStore) GetByUserIDs(_ context.Context, userIDs []int64) (map[int64]string, error) {
	result := map[int64]string{}
	for _, id := range userIDs {
		if handle, ok := f.handles[id]; ok {
			result[id] = handle
		}
	}
	return result, nil
}

func (f *fakeUsernameStore) HandleExists(_ context.Context, handle string) (bool, error) {
	for _, existing := range f.handles {
		if strings.EqualFold(existing, handle) {
			return true, nil
		}
	}
	return false, nil
}

type noteKey struct {
	classroomID int64
	fileID      int64
}

type fakeNoteStore struct {
	nextLinkID int64
	links      map[noteKey]int64
	files      *fakeFileStore
	linkErr    error
}

func newFakeNoteStore(files *fakeFileStore) *fakeNoteStore {
	return &fakeNoteStore{
		nextLinkID: 1,
		links:      map[noteKey]int64{},
		files:      files,
	}
}

func (f *fakeNoteStore) Link(_ context.Context, classroomID, fileID int64) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	f.links[noteKey{classroomID, fileID}] = f.nextLinkID
	f.nextLinkID++
	return nil
}

func (f *fakeNoteStore) Unlink(_ context.Context, classroomID, fileID int64) error {
	key := noteKey{classroomID, fileID}
	if _, ok := f.links[key]; !ok {
		return apperrors.ErrNoteNotFound
	}
	delete(f.links, key)
	return nil
}

func (f *fakeNoteStore) Exists(_ context.Context, classroomID, fileID int64) (bool, error) {
	_, ok := f.links[noteKey{classroomID, fileID}]
	return ok, nil
}

func (f *fakeNoteStore) GetFilesByClassroomID(_ context.Context, classroomID int64) ([]*models.File, error) {
	type entry struct {
		linkID int64
		file   *models.File
	}
	var entries []entry
	for key, linkID := range f.links {
		if key.classroomID != classroomID {
			continue
		}
		if file, ok := f.files.files[key.fileID]; ok {
			entries = append(entries, entry{linkID, file})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].linkID < entries[j].linkID })
	files := []*models.File{}
	for _, e := range entries {
		copied := *e.file
		files = append(files, &copied)
	}
	return files, nil
}

type fakeFileStore struct {
	nextID int64
	files  map[int64]*models.File
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{nextID: 1, files: map[int64]*models.File{}}
}

func (f *fakeFileStore) Create(_ context.Context, file *models.File) error {
	file.ID = f.nextID
	f.nextID++
	file.CreatedAt = time.Now()
	stored := *file
	f.files[file.ID] = &stored
	return nil
}

func (f *fakeFileStore) GetByID(_ context.Context, id int64) (*models.File, error) {
	stored, ok := f.files[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	file := *stored
	return &file, nil
}

func (f *fakeFileStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.files[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.files, id)
	return nil
}

type fakeUserStore struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[int64]*models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	stored, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	user := *stored
	return &user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, stored := range f.users {
		if strings.EqualFold(stored.Email, email) {
			user := *stored
			return &user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(context.Background(), email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

type fakeTokenStore struct {
	tokens map[string]*models.RefreshToken
	nextID int64
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*models.RefreshToken{}, nextID: 1}
}

func (f *fakeTokenStore) Create(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	f.tokens[token] = &models.RefreshToken{
		ID:        f.nextID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	f.nextID++
	return nil
}

func (f *fakeTokenStore) GetByValue(_ context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := f.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, token string) error {
	stored, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	now := time.Now()
	stored.RevokedAt = &now
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(_ context.Context, userID int64) error {
	now := time.Now()
	for _, stored := range f.tokens {
		if stored.UserID == userID && stored.RevokedAt == nil {
			stored.RevokedAt = &now
		}
	}
	return nil
}

// fakeBlobStorage satisfies filestorage.FileStorage without touching disk.
type fakeBlobStorage struct {
	nextID  int64
	blobs   map[string]bool
	saveErr error
}

func newFakeBlobStorage() *fakeBlobStorage {
	return &fakeBlobStorage{nextID: 1, blobs: map[string]bool{}}
}

func (f *fakeBlobStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return f.SaveFileWithPath(fileHeader, "")
}

func (f *fakeBlobStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	path := fmt.Sprintf("%s/blob-%d", subPath, f.nextID)
	f.nextID++
	f.blobs[path] = true
	return path, nil
}

func (f *fakeBlobStorage) DeleteFile(filePath string) error {
	delete(f.blobs, filePath)
	return nil
}

func (f *fakeBlobStorage) GetBaseURL() string { return "http://localhost:8080/uploads" }

func (f *fakeBlobStorage) FileURL(relativePath string) string {
	return f.GetBaseURL() + "/" + relativePath
}
