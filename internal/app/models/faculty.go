package models

// Faculty defines a faculty member based on the 'faculties' table.
// Password stays nil until the member sets it after approval.
type Faculty struct {
	ID         int64   `json:"id" db:"id" example:"1"`
	Name       string  `json:"name" db:"name" example:"Dr. Priya Raman"`
	Email      string  `json:"email" db:"email" example:"priya@college.edu"`
	Phone      string  `json:"phone" db:"phone" example:"9876543210"`
	Department string  `json:"department" db:"department" example:"CSE"`
	Gender     string  `json:"gender" db:"gender" example:"Female"`
	Password   *string `json:"-" db:"password"`
	Approved   bool    `json:"approved" db:"approved" example:"false"`
}

// HasPassword reports whether the faculty member has set a password
func (f *Faculty) HasPassword() bool {
	return f.Password != nil && *f.Password != ""
}
