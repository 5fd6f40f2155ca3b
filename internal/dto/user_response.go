package dto

import "github.com/SscSPs/trakmymedia/internal/core/domain"

// UserResponse is the public shape of a user record. It never includes the secret hash.
type UserResponse struct {
	ID       string  `json:"id"`
	Username *string `json:"username"`
	Email    string  `json:"email"`
	Name     *string `json:"name"`
}

func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.UserID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.DisplayName,
	}
}

// MeResponse is the stored record of the signed-in user.
type MeResponse struct {
	UserResponse
	Image           *string `json:"image"`
	ProfileComplete bool    `json:"profileComplete"`
	AuthProvider    string  `json:"authProvider"`
	HasPassword     bool    `json:"hasPassword"`
}

func ToMeResponse(user *domain.User) MeResponse {
	return MeResponse{
		UserResponse:    ToUserResponse(user),
		Image:           user.AvatarURL,
		ProfileComplete: user.ProfileComplete,
		AuthProvider:    string(user.AuthProvider),
		HasPassword:     user.HasPassword(),
	}
}
