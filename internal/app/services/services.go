package services

import (
	"errors"

	"github.com/act/eventportal/internal/app/repositories"
	"github.com/act/eventportal/internal/pkg/apperrors"
)

// Services defined in this package:
// - AdminService: admin account, faculty approval, student and event management
// - FacultyService: faculty registration, login, assigned events and attendance
// - StudentService: student signup, login, event registration and attendance lookup
// - NotificationService: outbound mail

// Client-facing messages shared by several services
const (
	msgInvalidCredentials = "Invalid credentials"
	msgNotLoggedIn        = "Not logged in"
	msgEmailExists        = "Email already exists"
	msgEventNotFound      = "Event not found"
	msgFacultyNotFound    = "Faculty not found"
	msgStudentNotFound    = "Student not found"
)

// notFoundAs converts a repository not-found error into a client-facing one
func notFoundAs(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NewResourceNotFoundError(message)
	}
	return err
}

// principalMissing maps a vanished session principal to an authentication error
func principalMissing(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NewCustomError(apperrors.ErrNotAuthenticated, msgNotLoggedIn)
	}
	return err
}

// emailConflict maps a unique email violation to a client-facing error
func emailConflict(err error) error {
	if errors.Is(err, repositories.ErrEmailTaken) {
		return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, msgEmailExists)
	}
	return err
}
