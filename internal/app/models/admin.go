package models

// Admin defines the administrator model based on the 'admins' table
type Admin struct {
	ID       int64  `json:"id" db:"id" example:"1"`
	Username string `json:"username" db:"username" example:"admin"`
	Email    string `json:"email" db:"email" example:"admin@college.edu"`
	Password string `json:"-" db:"password"` // bcrypt hash
}
