package models

// Event defines an academic event based on the 'events' table
type Event struct {
	ID          int64  `json:"id" db:"id" example:"1"`
	Name        string `json:"name" db:"name" example:"AI Symposium"`
	Description string `json:"description" db:"description" example:"Talks on applied ML"`
	Date        string `json:"date" db:"date" example:"2025-03-14"`
	Venue       string `json:"venue" db:"venue" example:"Main Auditorium"`
	FacultyID   *int64 `json:"facultyId" db:"faculty_id" example:"2"`

	// Relations (populated when needed)
	Faculty *Faculty `json:"faculty,omitempty"`
}

// OwnedBy reports whether the event is assigned to the given faculty
func (e *Event) OwnedBy(facultyID int64) bool {
	return e.FacultyID != nil && *e.FacultyID == facultyID
}
