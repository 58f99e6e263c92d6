package models

import "time"

// Classroom represents one collaborative space. AdminID is fixed at creation
// and is always treated as a member with access, whether or not a membership
// row exists for it.
type Classroom struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	AdminID   int64     `json:"adminId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Loaded on demand by the repositories
	MemberIDs  []int64 `json:"memberIds,omitempty"`
	GranteeIDs []int64 `json:"granteeIds,omitempty"`
}

// ClassroomMember is a membership row linking a user to a classroom.
type ClassroomMember struct {
	ID          int64     `json:"id"`
	ClassroomID int64     `json:"classroomId"`
	UserID      int64     `json:"userId"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// ClassroomGrantee is an explicit edit-access grant for a member.
// The admin never appears here; admin access is implicit and irrevocable.
type ClassroomGrantee struct {
	ID          int64     `json:"id"`
	ClassroomID int64     `json:"classroomId"`
	UserID      int64     `json:"userId"`
	GrantedBy   int64     `json:"grantedBy"`
	GrantedAt   time.Time `json:"grantedAt"`
}

// ClassroomNote links an uploaded file into a classroom's note sequence.
// Link id order is upload order.
type ClassroomNote struct {
	ID          int64     `json:"id"`
	ClassroomID int64     `json:"classroomId"`
	FileID      int64     `json:"fileId"`
	CreatedAt   time.Time `json:"createdAt"`
}
