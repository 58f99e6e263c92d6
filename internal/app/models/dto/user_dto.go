package dto

// UserResponse represents basic user information
type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

// RegisterUsernameRequest represents a username claim request
type RegisterUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

// UsernameResponse represents a single directory entry
type UsernameResponse struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// ResolveUsernamesRequest represents a batch userId-to-username lookup
type ResolveUsernamesRequest struct {
	UserIDs []int64 `json:"userIds" binding:"required"`
}

// ResolveUsernamesResponse maps user IDs to their handles. Users without a
// registered handle are absent from the map.
type ResolveUsernamesResponse struct {
	Usernames map[int64]string `json:"usernames"`
}

// UsernameSearchResponse represents prefix search results
type UsernameSearchResponse struct {
	Results []UsernameResponse `json:"results"`
}
