package services

import (
	"context"
	"errors"
	"strings"

	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/app/models/dto"
	"github.com/act/eventportal/internal/app/repositories"
	"github.com/act/eventportal/internal/pkg/apperrors"
	"github.com/act/eventportal/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// FacultyService defines the operations available to faculty members
type FacultyService interface {
	Register(ctx context.Context, req dto.FacultyRegisterRequest) (*dto.FacultyProfile, error)
	Login(ctx context.Context, email, password string) (*dto.FacultyProfile, error)
	GetProfile(ctx context.Context, facultyID int64) (*dto.FacultyProfile, error)
	UpdateProfile(ctx context.Context, facultyID int64, req dto.UpdateFacultyProfileRequest) (*dto.FacultyProfile, error)
	UpdatePassword(ctx context.Context, facultyID int64, currentPassword, newPassword string) error
	SetPassword(ctx context.Context, email, password string) error
	ListAssignedEvents(ctx context.Context, facultyID int64) ([]dto.EventDTO, error)
	ListEventStudents(ctx context.Context, facultyID, eventID int64) ([]dto.StudentAttendanceDTO, error)
	MarkAttendance(ctx context.Context, facultyID, eventID, studentID int64, present bool) error
}

// facultyServiceImpl implements the FacultyService interface
type facultyServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewFacultyService creates a new faculty service instance
func NewFacultyService(repos *repositories.Repositories, logger zerolog.Logger) FacultyService {
	return &facultyServiceImpl{
		repos:  repos,
		logger: logger,
	}
}

// Register stores a pending faculty account. Approval and password are always reset,
// whatever the client sent.
func (s *facultyServiceImpl) Register(ctx context.Context, req dto.FacultyRegisterRequest) (*dto.FacultyProfile, error) {
	faculty := &models.Faculty{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Phone:      req.Phone,
		Department: req.Department,
		Gender:     req.Gender,
		Approved:   false,
		Password:   nil,
	}

	if _, err := s.repos.Faculties.Create(ctx, faculty); err != nil {
		return nil, emailConflict(err)
	}

	s.logger.Info().Int64("facultyID", faculty.ID).Msg("Faculty registered, awaiting approval")
	profile := dto.NewFacultyProfile(faculty)
	return &profile, nil
}

func (s *facultyServiceImpl) Login(ctx context.Context, email, password string) (*dto.FacultyProfile, error) {
	faculty, err := s.repos.Faculties.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, err
	}

	switch {
	case !faculty.Approved:
		return nil, apperrors.NewUnauthorizedError("Not approved yet")
	case !faculty.HasPassword():
		return nil, apperrors.NewUnauthorizedError("Password not set yet")
	case !auth.CheckPassword(*faculty.Password, password):
		return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}

	profile := dto.NewFacultyProfile(faculty)
	return &profile, nil
}

func (s *facultyServiceImpl) GetProfile(ctx context.Context, facultyID int64) (*dto.FacultyProfile, error) {
	faculty, err := s.repos.Faculties.GetByID(ctx, facultyID)
	if err != nil {
		return nil, principalMissing(err)
	}
	profile := dto.NewFacultyProfile(faculty)
	return &profile, nil
}

func (s *facultyServiceImpl) UpdateProfile(ctx context.Context, facultyID int64, req dto.UpdateFacultyProfileRequest) (*dto.FacultyProfile, error) {
	faculty, err := s.repos.Faculties.GetByID(ctx, facultyID)
	if err != nil {
		return nil, principalMissing(err)
	}

	faculty.Name = strings.TrimSpace(req.Name)
	faculty.Phone = req.Phone
	faculty.Department = req.Department
	faculty.Gender = req.Gender

	if err := s.repos.Faculties.Update(ctx, faculty); err != nil {
		return nil, principalMissing(err)
	}
	profile := dto.NewFacultyProfile(faculty)
	return &profile, nil
}

func (s *facultyServiceImpl) UpdatePassword(ctx context.Context, facultyID int64, currentPassword, newPassword string) error {
	faculty, err := s.repos.Faculties.GetByID(ctx, facultyID)
	if err != nil {
		return principalMissing(err)
	}
	if !faculty.HasPassword() || !auth.CheckPassword(*faculty.Password, currentPassword) {
		return apperrors.NewBadRequestError("Current password incorrect")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repos.Faculties.UpdatePassword(ctx, facultyID, hash)
}

// SetPassword sets the first password of an approved faculty member. It cannot
// overwrite an existing password; UpdatePassword handles changes.
func (s *facultyServiceImpl) SetPassword(ctx context.Context, email, password string) error {
	if strings.TrimSpace(password) == "" {
		return apperrors.NewValidationError("Password is required")
	}

	faculty, err := s.repos.Faculties.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return notFoundAs(err, msgFacultyNotFound)
	}
	if !faculty.Approved {
		return apperrors.NewBadRequestError("Faculty not approved yet")
	}
	if faculty.HasPassword() {
		return apperrors.NewBadRequestError("Password already set")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repos.Faculties.UpdatePassword(ctx, faculty.ID, hash); err != nil {
		return notFoundAs(err, msgFacultyNotFound)
	}

	s.logger.Info().Int64("facultyID", faculty.ID).Msg("Faculty password set")
	return nil
}

func (s *facultyServiceImpl) ListAssignedEvents(ctx context.Context, facultyID int64) ([]dto.EventDTO, error) {
	if _, err := s.repos.Faculties.GetByID(ctx, facultyID); err != nil {
		return nil, principalMissing(err)
	}

	events, err := s.repos.Events.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.EventDTO, 0, len(events))
	for _, e := range events {
		result = append(result, dto.NewEventDTO(e))
	}
	return result, nil
}

// ownedEvent loads an event and checks that facultyID owns it
func (s *facultyServiceImpl) ownedEvent(ctx context.Context, facultyID, eventID int64) (*models.Event, error) {
	event, err := s.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundAs(err, msgEventNotFound)
	}
	if !event.OwnedBy(facultyID) {
		return nil, apperrors.NewForbiddenError("Unauthorized access")
	}
	return event, nil
}

func (s *facultyServiceImpl) ListEventStudents(ctx context.Context, facultyID, eventID int64) ([]dto.StudentAttendanceDTO, error) {
	if _, err := s.ownedEvent(ctx, facultyID, eventID); err != nil {
		return nil, err
	}
	return attendanceSheet(ctx, s.repos, eventID)
}

func (s *facultyServiceImpl) MarkAttendance(ctx context.Context, facultyID, eventID, studentID int64, present bool) error {
	if _, err := s.ownedEvent(ctx, facultyID, eventID); err != nil {
		return err
	}
	if _, err := s.repos.Students.GetByID(ctx, studentID); err != nil {
		return notFoundAs(err, msgStudentNotFound)
	}

	if _, err := s.repos.Registrations.Get(ctx, studentID, eventID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewBadRequestError("Student not registered for this event")
		}
		return err
	}

	if err := s.repos.Registrations.UpdateAttendance(ctx, studentID, eventID, present); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewBadRequestError("Student not registered for this event")
		}
		return err
	}

	s.logger.Debug().Int64("eventID", eventID).Int64("studentID", studentID).Bool("present", present).Msg("Attendance marked")
	return nil
}
