package dto

import "github.com/act/eventportal/internal/app/models"

// FacultyRegisterRequest is submitted by a faculty member asking for an account
type FacultyRegisterRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Gender     string `json:"gender"`
}

// UpdateFacultyProfileRequest is the faculty member's own profile edit; email is not editable
type UpdateFacultyProfileRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Gender     string `json:"gender"`
}

// AdminUpdateFacultyRequest is an admin edit of a faculty record.
// A nil Approved leaves the approval state unchanged.
type AdminUpdateFacultyRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Gender     string `json:"gender"`
	Approved   *bool  `json:"approved"`
}

// FacultyProfile is the public view of a faculty member
type FacultyProfile struct {
	ID         int64  `json:"id" example:"1"`
	Name       string `json:"name" example:"Dr. Priya Raman"`
	Email      string `json:"email" example:"priya@college.edu"`
	Phone      string `json:"phone" example:"9876543210"`
	Department string `json:"department" example:"CSE"`
	Gender     string `json:"gender" example:"Female"`
	Approved   bool   `json:"approved" example:"true"`
}

// FacultyDTO is the admin listing of a faculty member with its workload
type FacultyDTO struct {
	FacultyProfile
	AssignedEventsCount int `json:"assignedEventsCount" example:"3"`
}

// NewFacultyProfile builds the profile view of a faculty member
func NewFacultyProfile(f *models.Faculty) FacultyProfile {
	return FacultyProfile{
		ID:         f.ID,
		Name:       f.Name,
		Email:      f.Email,
		Phone:      f.Phone,
		Department: f.Department,
		Gender:     f.Gender,
		Approved:   f.Approved,
	}
}

// NewFacultyDTO builds the admin listing entry of a faculty member
func NewFacultyDTO(f *models.Faculty, assignedEvents int) FacultyDTO {
	return FacultyDTO{FacultyProfile: NewFacultyProfile(f), AssignedEventsCount: assignedEvents}
}
