package dto

import "github.com/act/eventportal/internal/app/models"

// StudentSignupRequest creates a student account
type StudentSignupRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Gender     string `json:"gender"`
	Department string `json:"department"`
	Password   string `json:"password" binding:"required,min=6"`
}

// UpdateStudentProfileRequest is the student's own profile edit
type UpdateStudentProfileRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Gender     string `json:"gender"`
}

// StudentPasswordRequest changes a student's password
type StudentPasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// AdminUpdateStudentRequest is an admin edit of a student record
type AdminUpdateStudentRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Gender     string `json:"gender"`
}

// StudentProfile is the public view of a student
type StudentProfile struct {
	ID         int64  `json:"id" example:"1"`
	Name       string `json:"name" example:"Arun Kumar"`
	Email      string `json:"email" example:"arun@college.edu"`
	Phone      string `json:"phone" example:"9123456780"`
	Gender     string `json:"gender" example:"Male"`
	Department string `json:"department" example:"ECE"`
}

// StudentWithEventsDTO lists a student with the names of registered events
type StudentWithEventsDTO struct {
	StudentProfile
	RegisteredEvents []string `json:"registeredEvents"`
}

// StudentEventCountDTO lists a student with the number of registrations
type StudentEventCountDTO struct {
	StudentProfile
	EventCount int `json:"eventCount" example:"2"`
}

// StudentAttendanceDTO is one row of an event's attendance sheet
type StudentAttendanceDTO struct {
	StudentID  int64  `json:"studentId" example:"4"`
	Name       string `json:"name" example:"Arun Kumar"`
	Email      string `json:"email" example:"arun@college.edu"`
	Phone      string `json:"phone" example:"9123456780"`
	Department string `json:"department" example:"ECE"`
	Attendance *bool  `json:"attendance"`
}

// NewStudentProfile builds the profile view of a student
func NewStudentProfile(s *models.Student) StudentProfile {
	return StudentProfile{
		ID:         s.ID,
		Name:       s.Name,
		Email:      s.Email,
		Phone:      s.Phone,
		Gender:     s.Gender,
		Department: s.Department,
	}
}

// NewStudentAttendanceDTO builds an attendance row from a registration with Student populated
func NewStudentAttendanceDTO(reg *models.StudentEvent) StudentAttendanceDTO {
	row := StudentAttendanceDTO{StudentID: reg.StudentID, Attendance: reg.Attendance}
	if reg.Student != nil {
		row.Name = reg.Student.Name
		row.Email = reg.Student.Email
		row.Phone = reg.Student.Phone
		row.Department = reg.Student.Department
	}
	return row
}
