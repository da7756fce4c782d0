package dto

import (
	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/pkg/optional"
)

// UnassignedFacultyName is shown for events without a faculty owner
const UnassignedFacultyName = "Unassigned"

// EventInput is the create/update payload for events. Absent keys leave a field
// untouched on update; an explicit null facultyId unassigns the event.
type EventInput struct {
	Name        optional.Value[string] `json:"name" swaggertype:"string"`
	Description optional.Value[string] `json:"description" swaggertype:"string"`
	Date        optional.Value[string] `json:"date" swaggertype:"string"`
	Venue       optional.Value[string] `json:"venue" swaggertype:"string"`
	FacultyID   optional.Value[int64]  `json:"facultyId" swaggertype:"integer"`
}

// EventSummaryDTO is the admin listing of an event
type EventSummaryDTO struct {
	ID          int64  `json:"id" example:"1"`
	Name        string `json:"name" example:"AI Symposium"`
	Description string `json:"description" example:"Talks on applied ML"`
	Date        string `json:"date" example:"2025-03-14"`
	Venue       string `json:"venue" example:"Main Auditorium"`
	FacultyID   *int64 `json:"facultyId" example:"2"`
	FacultyName string `json:"facultyName" example:"Dr. Priya Raman"`
}

// EventDTO is the detailed event view shown to students and faculty
type EventDTO struct {
	EventSummaryDTO
	FacultyEmail      *string `json:"facultyEmail" example:"priya@college.edu"`
	FacultyDepartment *string `json:"facultyDepartment" example:"CSE"`
}

// AttendanceDTO is a student's attendance for one event
type AttendanceDTO struct {
	EventID    int64 `json:"eventId" example:"1"`
	Attendance *bool `json:"attendance"`
}

// NewEventSummaryDTO builds the admin projection of an event
func NewEventSummaryDTO(e *models.Event) EventSummaryDTO {
	dto := EventSummaryDTO{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Date:        e.Date,
		Venue:       e.Venue,
		FacultyID:   e.FacultyID,
		FacultyName: UnassignedFacultyName,
	}
	if e.Faculty != nil {
		dto.FacultyName = e.Faculty.Name
	}
	return dto
}

// NewEventDTO builds the detailed projection of an event
func NewEventDTO(e *models.Event) EventDTO {
	dto := EventDTO{EventSummaryDTO: NewEventSummaryDTO(e)}
	if e.Faculty != nil {
		email, dept := e.Faculty.Email, e.Faculty.Department
		dto.FacultyEmail = &email
		dto.FacultyDepartment = &dept
	}
	return dto
}
