package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aryan9inja/edu-collab/internal/app/models"
	"github.com/Aryan9inja/edu-collab/internal/app/models/dto"
	"github.com/Aryan9inja/edu-collab/internal/pkg/apperrors"
)

func newClassroomFixture() (ClassroomService, *fakeClassroomStore, *fakeMembershipStore, *fakeNoteStore, *fakeFileStore, *fakeBlobStorage) {
	membership := newFakeMembershipStore()
	classrooms := newFakeClassroomStore(membership)
	usernames := newFakeUsernameStore()
	files := newFakeFileStore()
	notes := newFakeNoteStore(files)
	blobs := newFakeBlobStorage()
	svc := NewClassroomService(classrooms, membership, usernames, notes, files, blobs, zerolog.Nop())
	return svc, classrooms, membership, notes, files, blobs
}

func TestClassroomCreate(t *testing.T) {
	svc, _, _, _, _, _ := newClassroomFixture()
	ctx := context.Background()

	resp, err := svc.Create(ctx, 1, &dto.CreateClassroomRequest{Name: "Physics 101"})
	require.NoError(t, err)

	assert.Equal(t, "Physics 101", resp.Name)
	assert.Equal(t, int64(1), resp.AdminID)
	require.Len(t, resp.Members, 1)
	assert.Equal(t, int64(1), resp.Members[0].UserID)
	// The admin has edit access from the start
	require.Len(t, resp.Grantees, 1)
	assert.Equal(t, int64(1), resp.Grantees[0].UserID)
}

func TestClassroomJoinIsIdempotent(t *testing.T) {
	svc, _, membership, _, _, _ := newClassroomFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &dto.CreateClassroomRequest{Name: "Math"})
	require.NoError(t, err)

	require.NoError(t, svc.Join(ctx, created.ID, 2))
	require.NoError(t, svc.Join(ctx, created.ID, 2))

	members, err := membership.GetMembers(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	// Joining never grants edit access
	classroom, err := svc.GetByID(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.Len(t, classroom.Grantees, 1)
}

func TestClassroomJoinMissingClassroom(t *testing.T) {
	svc, _, _, _, _, _ := newClassroomFixture()

	err := svc.Join(context.Background(), 99, 2)
	assert.ErrorIs(t, err, apperrors.ErrClassroomNotFound)
}

func TestClassroomLeave(t *testing.T) {
	svc, _, membership, _, _, _ := newClassroomFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &dto.CreateClassroomRequest{Name: "Math"})
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, created.ID, 2))
	require.NoError(t, svc.GrantAccess(ctx, created.ID, 2, 1))

	require.NoError(t, svc.Leave(ctx, created.ID, 2))

	// Leaving removes both membership and any grant
	assert.False(t, membership.isMember(created.ID, 2))
	assert.Empty(t, membership.granteeIDs(created.ID))
}

func TestClassroomAdminCannotLeave(t *testing.T) {
	svc, _, _, _, _, _ := newClassroomFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &dto.CreateClassroomRequest{Name: "Math"})
	require.NoError(t, err)

	err = svc.Leave(ctx, created.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGrantAccess(t *testing.T) {
	svc, _, _, _, _, _ := newClassroomFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &dto.CreateClassroomRequest{Name: "Math"})
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, created.ID, 2))
	require.NoError(t, svc.Join(ctx, created.ID, 3))

	t.Run("member without access cannot grant", func(t *testing.T) {
		err := svc.GrantAccess(ctx, created.ID, 3, 2)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("admin grants to member", func(t *testing.T) {
		require.NoError(t, svc.GrantAccess(ctx, created.ID, 2, 1))

		classroom, err := svc.GetByID(ctx, created.ID, 1)
		require.NoError(t, err)
		assert.Len(t, classroom.Grantees, 2)
	})

	t.Run("granting twice is a no-op", func(t *testing.T) {
		require.NoError(t, svc.GrantAccess(ctx, created.ID, 2, 1))

		classroom, err := svc.GetByID(ctx, created.ID, 1)
		require.NoError(t, err)
		assert.Len(t, classroom.Grantees, 2)
	})

	t.Run("grantee can grant to another member", func(t *testing.T) {
		require.NoError(t, svc.GrantAccess(ctx, created.ID, 3, 2))

		classroom, err := svc.GetByID(ctx, created.ID, 1)
		require.NoError(t, err)
		assert.Len(t, classroom.Grantees, 3)
	})

	t.Run("non-member target is rejected", func(t *testing.T) {
		err := svc.GrantAccess(ctx, created.ID, 42, 1)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestRevokeAccess(t *testing.T) {
	svc, _, _, _, _, _ := newClassroomFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &dto.CreateClassroomRequest{Name: "Math"})
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, created.ID, 2))
	require.NoError(t, svc.Join(ctx, created.ID, 3))
	require.NoError(t, svc.GrantAccess(ctx, created.ID, 2, 1))

	t.Run("grantee cannot revoke", func(t *testing.T) {
		err := svc.RevokeAccess(ctx, created.ID, 2, 2)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("member cannot revoke", func(t *testing.T) {
		err := svc.RevokeAccess(ctx, created.ID, 2, 3)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("admin access is irrevocable", func(t *testing.T) {
		err := svc.RevokeAccess(ctx, created.ID, 1, 1)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("admin revokes a grant", func(t *testing.T) {
		require.NoError(t, svc.RevokeAccess(ctx, created.ID, 2, 1))

		classroom, err := svc.GetByID(ctx, created.ID, 1)
		require.NoError(t, err)
		assert.Len(t, classroom.Grantees, 1)
	})

	t.Run("revoking a non-grantee is a no-op", func(t *testing.T) {
		require.NoError(t, svc.RevokeAccess(ctx, created.ID, 3, 1))
	})
}

func TestClassroomRename(t *testing.T) {
	svc, _, _, _, _, _ := newClassroomFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &dto.CreateClassroomRequest{Name: "Old"})
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, created.ID, 2))

	_, err = svc.Rename(ctx, created.ID, 2, &dto.UpdateClassroomRequest{Name: "New"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	renamed, err := svc.Rename(ctx, created.ID, 1, &dto.UpdateClassroomRequest{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", renamed.Name)
}

func TestClassroomDelete(t *testing.T) {
	svc, _, _, _, _, _ := newClassroomFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &dto.CreateClassroomRequest{Name: "Math"})
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, created.ID, 2))

	err = svc.Delete(ctx, created.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, svc.Delete(ctx, created.ID, 1))

	_, err = svc.GetByID(ctx, created.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrClassroomNotFound)
}

func TestClassroomDeletePurgesNotes(t *testing.T) {
	svc, _, _, notes, files, blobs := newClassroomFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &dto.CreateClassroomRequest{Name: "Math"})
	require.NoError(t, err)

	// Attach a note by hand
	path, err := blobs.SaveFileWithPath(nil, "classrooms/1")
	require.NoError(t, err)
	file := &models.File{FileName: "notes.pdf", FilePath: path, UploadedBy: 1}
	require.NoError(t, files.Create(ctx, file))
	require.NoError(t, notes.Link(ctx, created.ID, file.ID))

	require.NoError(t, svc.Delete(ctx, created.ID, 1))

	assert.Empty(t, files.files)
	assert.Empty(t, blobs.blobs)
}

func TestClassroomGetByIDHidesRosterFromNonMembers(t *testing.T) {
	svc, _, _, _, _, _ := newClassroomFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &dto.CreateClassroomRequest{Name: "Math"})
	require.NoError(t, err)

	classroom, err := svc.GetByID(ctx, created.ID, 42)
	require.NoError(t, err)
	assert.Empty(t, classroom.Members)
	assert.Empty(t, classroom.Grantees)
}

func TestClassroomListForUser(t *testing.T) {
	svc, _, _, _, _, _ := newClassroomFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, &dto.CreateClassroomRequest{Name: "Alpha"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, 2, &dto.CreateClassroomRequest{Name: "Beta"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 3, &dto.CreateClassroomRequest{Name: "Gamma"})
	require.NoError(t, err)

	require.NoError(t, svc.Join(ctx, second.ID, 1))

	list, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list.Classrooms, 2)
	assert.Equal(t, first.ID, list.Classrooms[0].ID)
	assert.Equal(t, second.ID, list.Classrooms[1].ID)
}

func TestClassroomErrorsAreNotFound(t *testing.T) {
	svc, _, _, _, _, _ := newClassroomFixture()
	ctx := context.Background()

	for _, err := range []error{
		func() error { _, e := svc.GetByID(ctx, 7, 1); return e }(),
		svc.Leave(ctx, 7, 1),
		svc.GrantAccess(ctx, 7, 2, 1),
		svc.RevokeAccess(ctx, 7, 2, 1),
		svc.Delete(ctx, 7, 1),
	} {
		assert.True(t, errors.Is(err, apperrors.ErrClassroomNotFound))
	}
}
