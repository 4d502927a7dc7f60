package identity

import "time"

// UserResponse is the public view of a user. The password hash never leaves
// the package boundary.
type UserResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Role            string    `json:"role"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewUserResponse projects a stored user into its public view.
func NewUserResponse(user User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Role:            string(user.Role),
		ProfileImageURL: user.ProfileImageURL,
		CreatedAt:       user.CreatedAt,
	}
}
