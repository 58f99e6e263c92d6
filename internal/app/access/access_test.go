package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aryan9inja/edu-collab/internal/app/models"
)

func testClassroom() *models.Classroom {
	return &models.Classroom{
		ID:         1,
		AdminID:    10,
		MemberIDs:  []int64{10, 20, 30},
		GranteeIDs: []int64{20},
	}
}

func TestAccessPolicy(t *testing.T) {
	classroom := testClassroom()

	tests := []struct {
		name      string
		userID    int64
		hasAccess bool
		isMember  bool
		isAdmin   bool
	}{
		{name: "admin", userID: 10, hasAccess: true, isMember: true, isAdmin: true},
		{name: "grantee member", userID: 20, hasAccess: true, isMember: true, isAdmin: false},
		{name: "plain member", userID: 30, hasAccess: false, isMember: true, isAdmin: false},
		{name: "outsider", userID: 99, hasAccess: false, isMember: false, isAdmin: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hasAccess, HasAccess(classroom, tt.userID))
			assert.Equal(t, tt.isMember, IsMember(classroom, tt.userID))
			assert.Equal(t, tt.isAdmin, IsAdmin(classroom, tt.userID))
		})
	}
}

func TestAccessPolicyNilClassroom(t *testing.T) {
	assert.False(t, HasAccess(nil, 10))
	assert.False(t, IsMember(nil, 10))
	assert.False(t, IsAdmin(nil, 10))
}

func TestAdminImplicitMembership(t *testing.T) {
	// No membership row for the admin, still a member
	classroom := &models.Classroom{ID: 1, AdminID: 10}
	assert.True(t, IsMember(classroom, 10))
	assert.True(t, HasAccess(classroom, 10))
}
