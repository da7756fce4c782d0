package dto

import "github.com/act/eventportal/internal/app/models"

// AdminProfile is the public view of an administrator
type AdminProfile struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"admin"`
	Email    string `json:"email" example:"admin@college.edu"`
}

// UpdateAdminRequest updates the admin's own profile
type UpdateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// NewAdminProfile builds the profile view of an admin
func NewAdminProfile(a *models.Admin) AdminProfile {
	return AdminProfile{ID: a.ID, Username: a.Username, Email: a.Email}
}
