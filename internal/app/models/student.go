package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID         int64  `json:"id" db:"id" example:"1"`
	Name       string `json:"name" db:"name" example:"Arun Kumar"`
	Email      string `json:"email" db:"email" example:"arun@college.edu"`
	Phone      string `json:"phone" db:"phone" example:"9123456780"`
	Gender     string `json:"gender" db:"gender" example:"Male"`
	Department string `json:"department" db:"department" example:"ECE"`
	Password   string `json:"-" db:"password"` // bcrypt hash
}
