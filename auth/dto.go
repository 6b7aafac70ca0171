package auth

// RegisterRequest is the registration payload. Password is write-only: it
// appears on no response type.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email" example:"user@example.com"`
	Password  string `json:"password" validate:"required" example:"strongpassword123"`
	FirstName string `json:"first_name" example:"Ada"`
	LastName  string `json:"last_name" example:"Lovelace"`
}

// LoginRequest is the login payload. It is a transient input contract with
// no model binding.
type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"user@example.com"`
	Password string `json:"password" validate:"required" example:"strongpassword123"`
}

// UpdateProfileRequest is the profile-update payload. All fields are
// optional; an absent password leaves the stored hash untouched.
type UpdateProfileRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// UserResponse is the wire representation of a user. IsActive and
// Permissions are read-only, derived fields; the password hash never leaves
// the model layer.
type UserResponse struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email" example:"user@example.com"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	IsActive    bool     `json:"is_active"`
	Permissions []string `json:"permissions"`
}

func newUserResponse(u User, permissions []string) *UserResponse {
	if permissions == nil {
		permissions = []string{}
	}
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		Permissions: permissions,
	}
}
