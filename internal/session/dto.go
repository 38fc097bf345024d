// AngelaMos | 2026
// dto.go

package session

import "github.com/modep/console/internal/gateway"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Username  string `json:"username"   validate:"required,min=3,max=150"`
	Password  string `json:"password"   validate:"required,min=8"`
	Email     string `json:"email"      validate:"required,email"`
	FirstName string `json:"first_name" validate:"omitempty,max=150"`
	LastName  string `json:"last_name"  validate:"omitempty,max=150"`
}

type ProfileUpdateRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty"  validate:"omitempty,max=150"`
	Email     *string `json:"email,omitempty"      validate:"omitempty,email"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsStaff   bool   `json:"is_staff"`
}

// SessionResponse is the probe result: the client learns whether the
// console cookie still maps to a live backend session without ever
// seeing an error status.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

func ToUserResponse(u *gateway.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsStaff:   u.IsStaff,
	}
}
