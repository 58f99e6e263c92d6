// Package access holds the single policy entry point deciding what a user
// may do in a classroom. Every mutating code path consults these functions
// instead of re-deriving the rules locally.
package access

import "github.com/Aryan9inja/edu-collab/internal/app/models"

// HasAccess reports whether the user may upload or delete notes, invite,
// and manage other members' access. True iff the user is the classroom
// admin or an explicit grantee. Pure; no I/O.
func HasAccess(classroom *models.Classroom, userID int64) bool {
	if classroom == nil {
		return false
	}
	if userID == classroom.AdminID {
		return true
	}
	for _, id := range classroom.GranteeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsMember reports whether the user belongs to the classroom. The admin is
// always a member, whether or not a membership row exists for it.
func IsMember(classroom *models.Classroom, userID int64) bool {
	if classroom == nil {
		return false
	}
	if userID == classroom.AdminID {
		return true
	}
	for _, id := range classroom.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is the classroom admin.
func IsAdmin(classroom *models.Classroom, userID int64) bool {
	return classroom != nil && classroom.AdminID == userID
}
