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

// StudentService defines the operations available to students
type StudentService interface {
	Signup(ctx context.Context, req dto.StudentSignupRequest) (*dto.StudentProfile, error)
	Login(ctx context.Context, email, password string) (*dto.StudentProfile, error)
	GetProfile(ctx context.Context, studentID int64) (*dto.StudentProfile, error)
	UpdateProfile(ctx context.Context, studentID int64, req dto.UpdateStudentProfileRequest) (*dto.StudentProfile, error)
	UpdatePassword(ctx context.Context, studentID int64, oldPassword, newPassword string) error
	RegisterEvent(ctx context.Context, studentID, eventID int64) error
	UnregisterEvent(ctx context.Context, studentID, eventID int64) error
	ListEvents(ctx context.Context) ([]dto.EventDTO, error)
	ListRegisteredEvents(ctx context.Context, studentID int64) ([]dto.EventDTO, error)
	GetAttendance(ctx context.Context, studentID, eventID int64) (*bool, error)
}

type studentServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(repos *repositories.Repositories, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		repos:  repos,
		logger: logger,
	}
}

func (s *studentServiceImpl) Signup(ctx context.Context, req dto.StudentSignupRequest) (*dto.StudentProfile, error) {
	email := strings.TrimSpace(req.Email)
	if _, err := s.repos.Students.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, msgEmailExists)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Phone:      req.Phone,
		Gender:     req.Gender,
		Department: req.Department,
		Password:   hash,
	}
	// the unique index still guards against a concurrent signup with the same email
	if _, err := s.repos.Students.Create(ctx, student); err != nil {
		return nil, emailConflict(err)
	}

	s.logger.Info().Int64("studentID", student.ID).Msg("Student signed up")
	profile := dto.NewStudentProfile(student)
	return &profile, nil
}

func (s *studentServiceImpl) Login(ctx context.Context, email, password string) (*dto.StudentProfile, error) {
	student, err := s.repos.Students.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, err
	}
	if !auth.CheckPassword(student.Password, password) {
		return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}

	profile := dto.NewStudentProfile(student)
	return &profile, nil
}

func (s *studentServiceImpl) GetProfile(ctx context.Context, studentID int64) (*dto.StudentProfile, error) {
	student, err := s.repos.Students.GetByID(ctx, studentID)
	if err != nil {
		return nil, principalMissing(err)
	}
	profile := dto.NewStudentProfile(student)
	return &profile, nil
}

func (s *studentServiceImpl) UpdateProfile(ctx context.Context, studentID int64, req dto.UpdateStudentProfileRequest) (*dto.StudentProfile, error) {
	student, err := s.repos.Students.GetByID(ctx, studentID)
	if err != nil {
		return nil, principalMissing(err)
	}

	student.Name = strings.TrimSpace(req.Name)
	student.Phone = req.Phone
	student.Department = req.Department
	student.Gender = req.Gender

	if err := s.repos.Students.Update(ctx, student); err != nil {
		return nil, principalMissing(err)
	}
	profile := dto.NewStudentProfile(student)
	return &profile, nil
}

func (s *studentServiceImpl) UpdatePassword(ctx context.Context, studentID int64, oldPassword, newPassword string) error {
	student, err := s.repos.Students.GetByID(ctx, studentID)
	if err != nil {
		return principalMissing(err)
	}
	if !auth.CheckPassword(student.Password, oldPassword) {
		return apperrors.NewBadRequestError("Incorrect old password")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repos.Students.UpdatePassword(ctx, studentID, hash)
}

func (s *studentServiceImpl) RegisterEvent(ctx context.Context, studentID, eventID int64) error {
	if _, err := s.repos.Students.GetByID(ctx, studentID); err != nil {
		return principalMissing(err)
	}
	if _, err := s.repos.Events.GetByID(ctx, eventID); err != nil {
		return notFoundAs(err, msgEventNotFound)
	}

	if _, err := s.repos.Registrations.Get(ctx, studentID, eventID); err == nil {
		return apperrors.NewConflictError("Already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	if _, err := s.repos.Registrations.Create(ctx, studentID, eventID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperrors.NewConflictError("Already registered")
		}
		return notFoundAs(err, msgEventNotFound)
	}
	return nil
}

func (s *studentServiceImpl) UnregisterEvent(ctx context.Context, studentID, eventID int64) error {
	if _, err := s.repos.Events.GetByID(ctx, eventID); err != nil {
		return notFoundAs(err, msgEventNotFound)
	}

	if err := s.repos.Registrations.Delete(ctx, studentID, eventID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewBadRequestError("Not registered for this event")
		}
		return err
	}
	return nil
}

func (s *studentServiceImpl) ListEvents(ctx context.Context) ([]dto.EventDTO, error) {
	events, err := s.repos.Events.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.EventDTO, 0, len(events))
	for _, e := range events {
		result = append(result, dto.NewEventDTO(e))
	}
	return result, nil
}

func (s *studentServiceImpl) ListRegisteredEvents(ctx context.Context, studentID int64) ([]dto.EventDTO, error) {
	regs, err := s.repos.Registrations.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.EventDTO, 0, len(regs))
	for _, reg := range regs {
		if reg.Event != nil {
			result = append(result, dto.NewEventDTO(reg.Event))
		}
	}
	return result, nil
}

// GetAttendance returns nil both when attendance is unmarked and when the student
// is not registered for the event.
func (s *studentServiceImpl) GetAttendance(ctx context.Context, studentID, eventID int64) (*bool, error) {
	reg, err := s.repos.Registrations.Get(ctx, studentID, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return reg.Attendance, nil
}
