package dto

import "time"

// CreateClassroomRequest represents a classroom creation request
type CreateClassroomRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateClassroomRequest represents a classroom rename request
type UpdateClassroomRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// GrantAccessRequest represents an access grant request for a member
type GrantAccessRequest struct {
	UserID int64 `json:"userId" binding:"required,min=1"`
}

// ClassroomResponse represents full classroom information
type ClassroomResponse struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	AdminID    int64            `json:"adminId"`
	Members    []MemberResponse `json:"members"`
	Grantees   []MemberResponse `json:"grantees"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// MemberResponse represents a user inside a classroom listing
type MemberResponse struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username,omitempty"`
}

// ClassroomSummaryResponse represents a classroom in list views
type ClassroomSummaryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	AdminID     int64     `json:"adminId"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ClassroomListResponse represents the classrooms visible to a user
type ClassroomListResponse struct {
	Classrooms []ClassroomSummaryResponse `json:"classrooms"`
}
