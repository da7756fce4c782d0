package models

// StudentEvent is the registration of a student for an event ('student_events' table).
// Attendance is nil until marked, then true for present and false for absent.
type StudentEvent struct {
	ID         int64 `json:"id" db:"id"`
	StudentID  int64 `json:"studentId" db:"student_id"`
	EventID    int64 `json:"eventId" db:"event_id"`
	Attendance *bool `json:"attendance" db:"attendance"`

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
	Event   *Event   `json:"event,omitempty"`
}
