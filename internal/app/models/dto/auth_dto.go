package dto

// LoginRequest represents login credentials for any role
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is used by admins and faculty
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// ForgotPasswordRequest starts the admin password reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes the admin password reset flow
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ContactRequest is a message from the public contact form
type ContactRequest struct {
	Name    string `json:"name" binding:"required,singleline"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}
