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

// AdminService defines the operations available to administrators
type AdminService interface {
	Authenticate(ctx context.Context, email, password string) (*dto.AdminProfile, error)
	GetProfile(ctx context.Context, adminID int64) (*dto.AdminProfile, error)
	UpdateProfile(ctx context.Context, adminID int64, req dto.UpdateAdminRequest) (*dto.AdminProfile, error)
	UpdatePassword(ctx context.Context, adminID int64, currentPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	ListUnapprovedFaculties(ctx context.Context) ([]dto.FacultyProfile, error)
	ListFaculties(ctx context.Context) ([]dto.FacultyDTO, error)
	ApproveFaculty(ctx context.Context, facultyID int64) error
	RejectFaculty(ctx context.Context, facultyID int64, reason string) error
	UpdateFaculty(ctx context.Context, facultyID int64, req dto.AdminUpdateFacultyRequest) (*dto.FacultyDTO, error)
	DeleteFaculty(ctx context.Context, facultyID int64, replacementID *int64) error

	ListStudents(ctx context.Context) ([]dto.StudentWithEventsDTO, error)
	ListStudentEventCounts(ctx context.Context) ([]dto.StudentEventCountDTO, error)
	UpdateStudent(ctx context.Context, studentID int64, req dto.AdminUpdateStudentRequest) (*dto.StudentProfile, error)
	DeleteStudent(ctx context.Context, studentID int64) error

	ListEvents(ctx context.Context) ([]dto.EventSummaryDTO, error)
	CreateEvent(ctx context.Context, input dto.EventInput) (*dto.EventSummaryDTO, error)
	UpdateEvent(ctx context.Context, eventID int64, input dto.EventInput) (*dto.EventSummaryDTO, error)
	DeleteEvent(ctx context.Context, eventID int64) error
	ListEventStudents(ctx context.Context, eventID int64) ([]dto.StudentAttendanceDTO, error)
	ReassignEvent(ctx context.Context, eventID, facultyID int64) error
}

type adminServiceImpl struct {
	repos         *repositories.Repositories
	tx            repositories.Transactor
	notifications NotificationService
	resetTokens   *auth.ResetTokenService
	logger        zerolog.Logger
}

// NewAdminService creates a new admin service instance
func NewAdminService(
	repos *repositories.Repositories,
	tx repositories.Transactor,
	notifications NotificationService,
	resetTokens *auth.ResetTokenService,
	logger zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		repos:         repos,
		tx:            tx,
		notifications: notifications,
		resetTokens:   resetTokens,
		logger:        logger,
	}
}

// --- Account ---

func (s *adminServiceImpl) Authenticate(ctx context.Context, email, password string) (*dto.AdminProfile, error) {
	admin, err := s.repos.Admins.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, err
	}
	if !auth.CheckPassword(admin.Password, password) {
		return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}

	profile := dto.NewAdminProfile(admin)
	return &profile, nil
}

func (s *adminServiceImpl) GetProfile(ctx context.Context, adminID int64) (*dto.AdminProfile, error) {
	admin, err := s.repos.Admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, principalMissing(err)
	}
	profile := dto.NewAdminProfile(admin)
	return &profile, nil
}

func (s *adminServiceImpl) UpdateProfile(ctx context.Context, adminID int64, req dto.UpdateAdminRequest) (*dto.AdminProfile, error) {
	admin, err := s.repos.Admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, principalMissing(err)
	}

	admin.Username = strings.TrimSpace(req.Username)
	admin.Email = strings.TrimSpace(req.Email)
	if err := s.repos.Admins.Update(ctx, admin); err != nil {
		return nil, emailConflict(err)
	}

	profile := dto.NewAdminProfile(admin)
	return &profile, nil
}

func (s *adminServiceImpl) UpdatePassword(ctx context.Context, adminID int64, currentPassword, newPassword string) error {
	admin, err := s.repos.Admins.GetByID(ctx, adminID)
	if err != nil {
		return principalMissing(err)
	}
	if !auth.CheckPassword(admin.Password, currentPassword) {
		return apperrors.NewBadRequestError("Current password incorrect")
	}
	return s.setPassword(ctx, admin.ID, newPassword)
}

func (s *adminServiceImpl) setPassword(ctx context.Context, adminID int64, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.repos.Admins.UpdatePassword(ctx, adminID, hash)
}

func (s *adminServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	admin, err := s.repos.Admins.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// same response for unknown addresses
			s.logger.Info().Str("email", email).Msg("Password reset requested for unknown admin email")
			return nil
		}
		return err
	}

	token, err := s.resetTokens.Generate(admin.ID, admin.Email, admin.Password)
	if err != nil {
		return err
	}
	s.notifications.AdminPasswordReset(ctx, admin, token)
	return nil
}

func (s *adminServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	invalid := apperrors.NewBadRequestError("Invalid or expired reset token")

	claims, err := s.resetTokens.Validate(token)
	if err != nil {
		return invalid
	}

	admin, err := s.repos.Admins.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return invalid
		}
		return err
	}
	if !claims.Matches(admin.Password) {
		return invalid
	}

	if err := s.setPassword(ctx, admin.ID, newPassword); err != nil {
		return err
	}
	s.logger.Info().Int64("adminID", admin.ID).Msg("Admin password reset")
	return nil
}

// --- Faculty management ---

func (s *adminServiceImpl) ListUnapprovedFaculties(ctx context.Context) ([]dto.FacultyProfile, error) {
	approved := false
	faculties, err := s.repos.Faculties.List(ctx, &approved)
	if err != nil {
		return nil, err
	}

	profiles := make([]dto.FacultyProfile, 0, len(faculties))
	for _, f := range faculties {
		profiles = append(profiles, dto.NewFacultyProfile(f))
	}
	return profiles, nil
}

func (s *adminServiceImpl) ListFaculties(ctx context.Context) ([]dto.FacultyDTO, error) {
	faculties, err := s.repos.Faculties.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	counts, err := s.repos.Events.CountByFaculty(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.FacultyDTO, 0, len(faculties))
	for _, f := range faculties {
		result = append(result, dto.NewFacultyDTO(f, counts[f.ID]))
	}
	return result, nil
}

func (s *adminServiceImpl) ApproveFaculty(ctx context.Context, facultyID int64) error {
	faculty, err := s.repos.Faculties.GetByID(ctx, facultyID)
	if err != nil {
		return notFoundAs(err, msgFacultyNotFound)
	}

	faculty.Approved = true
	if err := s.repos.Faculties.Update(ctx, faculty); err != nil {
		return notFoundAs(err, msgFacultyNotFound)
	}

	s.logger.Info().Int64("facultyID", faculty.ID).Msg("Faculty approved")
	s.notifications.FacultyApproved(ctx, faculty)
	return nil
}

// RejectFaculty removes a faculty member and mails the reason. Events the member
// owned stay in place as unassigned.
func (s *adminServiceImpl) RejectFaculty(ctx context.Context, facultyID int64, reason string) error {
	var (
		faculty *models.Faculty
		cleared int64
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		if faculty, err = repos.Faculties.GetByID(ctx, facultyID); err != nil {
			return notFoundAs(err, msgFacultyNotFound)
		}
		if cleared, err = repos.Events.UnassignFaculty(ctx, facultyID); err != nil {
			return err
		}
		return notFoundAs(repos.Faculties.Delete(ctx, facultyID), msgFacultyNotFound)
	})
	if err != nil {
		return err
	}

	s.notifications.FacultyRejected(ctx, faculty, reason)
	s.logger.Info().
		Int64("facultyID", facultyID).
		Int64("unassignedEvents", cleared).
		Str("reason", reason).
		Msg("Faculty rejected")
	return nil
}

func (s *adminServiceImpl) UpdateFaculty(ctx context.Context, facultyID int64, req dto.AdminUpdateFacultyRequest) (*dto.FacultyDTO, error) {
	faculty, err := s.repos.Faculties.GetByID(ctx, facultyID)
	if err != nil {
		return nil, notFoundAs(err, msgFacultyNotFound)
	}

	faculty.Name = strings.TrimSpace(req.Name)
	faculty.Email = strings.TrimSpace(req.Email)
	faculty.Phone = req.Phone
	faculty.Department = req.Department
	faculty.Gender = req.Gender
	if req.Approved != nil {
		faculty.Approved = *req.Approved
	}

	if err := s.repos.Faculties.Update(ctx, faculty); err != nil {
		return nil, notFoundAs(emailConflict(err), msgFacultyNotFound)
	}

	owned, err := s.repos.Events.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	result := dto.NewFacultyDTO(faculty, len(owned))
	return &result, nil
}

func (s *adminServiceImpl) DeleteFaculty(ctx context.Context, facultyID int64, replacementID *int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Faculties.GetByID(ctx, facultyID); err != nil {
			return notFoundAs(err, msgFacultyNotFound)
		}

		owned, err := repos.Events.ListByFaculty(ctx, facultyID)
		if err != nil {
			return err
		}

		if len(owned) > 0 {
			if replacementID == nil {
				return apperrors.NewConflictError("Faculty has assigned events. Provide replacementFacultyId.")
			}
			if *replacementID == facultyID {
				return apperrors.NewBadRequestError("Replacement faculty must differ from the faculty being deleted")
			}
			if _, err := repos.Faculties.GetByID(ctx, *replacementID); err != nil {
				return notFoundAs(err, "Replacement faculty not found")
			}
			if _, err := repos.Events.ReassignFaculty(ctx, facultyID, *replacementID); err != nil {
				return err
			}
		}

		return notFoundAs(repos.Faculties.Delete(ctx, facultyID), msgFacultyNotFound)
	})
	if err != nil {
		return err
	}

	event := s.logger.Info().Int64("facultyID", facultyID)
	if replacementID != nil {
		event = event.Int64("replacementFacultyID", *replacementID)
	}
	event.Msg("Faculty deleted")
	return nil
}

// --- Student management ---

func (s *adminServiceImpl) ListStudents(ctx context.Context) ([]dto.StudentWithEventsDTO, error) {
	students, err := s.repos.Students.List(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.repos.Registrations.EventNamesByStudent(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.StudentWithEventsDTO, 0, len(students))
	for _, st := range students {
		registered := names[st.ID]
		if registered == nil {
			registered = []string{}
		}
		result = append(result, dto.StudentWithEventsDTO{
			StudentProfile:   dto.NewStudentProfile(st),
			RegisteredEvents: registered,
		})
	}
	return result, nil
}

func (s *adminServiceImpl) ListStudentEventCounts(ctx context.Context) ([]dto.StudentEventCountDTO, error) {
	students, err := s.repos.Students.List(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.repos.Registrations.EventNamesByStudent(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.StudentEventCountDTO, 0, len(students))
	for _, st := range students {
		result = append(result, dto.StudentEventCountDTO{
			StudentProfile: dto.NewStudentProfile(st),
			EventCount:     len(names[st.ID]),
		})
	}
	return result, nil
}

func (s *adminServiceImpl) UpdateStudent(ctx context.Context, studentID int64, req dto.AdminUpdateStudentRequest) (*dto.StudentProfile, error) {
	student, err := s.repos.Students.GetByID(ctx, studentID)
	if err != nil {
		return nil, notFoundAs(err, msgStudentNotFound)
	}

	student.Name = strings.TrimSpace(req.Name)
	student.Email = strings.TrimSpace(req.Email)
	student.Phone = req.Phone
	student.Department = req.Department
	student.Gender = req.Gender

	if err := s.repos.Students.Update(ctx, student); err != nil {
		return nil, notFoundAs(emailConflict(err), msgStudentNotFound)
	}

	profile := dto.NewStudentProfile(student)
	return &profile, nil
}

func (s *adminServiceImpl) DeleteStudent(ctx context.Context, studentID int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Students.GetByID(ctx, studentID); err != nil {
			return notFoundAs(err, msgStudentNotFound)
		}
		if err := repos.Registrations.DeleteByStudent(ctx, studentID); err != nil {
			return err
		}
		return notFoundAs(repos.Students.Delete(ctx, studentID), msgStudentNotFound)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", studentID).Msg("Student and registrations deleted")
	return nil
}

// --- Event management ---

func (s *adminServiceImpl) ListEvents(ctx context.Context) ([]dto.EventSummaryDTO, error) {
	events, err := s.repos.Events.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.EventSummaryDTO, 0, len(events))
	for _, e := range events {
		result = append(result, dto.NewEventSummaryDTO(e))
	}
	return result, nil
}

func (s *adminServiceImpl) CreateEvent(ctx context.Context, input dto.EventInput) (*dto.EventSummaryDTO, error) {
	if !input.Name.Present() || strings.TrimSpace(input.Name.Value) == "" {
		return nil, apperrors.NewValidationError("Event name is required")
	}

	event := &models.Event{}
	if err := s.applyEventInput(ctx, event, input); err != nil {
		return nil, err
	}

	if _, err := s.repos.Events.Create(ctx, event); err != nil {
		return nil, notFoundAs(err, msgFacultyNotFound)
	}

	s.logger.Info().Int64("eventID", event.ID).Msg("Event created")
	return s.eventSummary(ctx, event.ID)
}

func (s *adminServiceImpl) UpdateEvent(ctx context.Context, eventID int64, input dto.EventInput) (*dto.EventSummaryDTO, error) {
	event, err := s.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundAs(err, msgEventNotFound)
	}

	if input.Name.Set && strings.TrimSpace(input.Name.Value) == "" {
		return nil, apperrors.NewValidationError("Event name cannot be empty")
	}
	if err := s.applyEventInput(ctx, event, input); err != nil {
		return nil, err
	}

	if err := s.repos.Events.Update(ctx, event); err != nil {
		return nil, notFoundAs(err, msgEventNotFound)
	}
	return s.eventSummary(ctx, eventID)
}

// applyEventInput copies the keys present in input onto event. A facultyId must
// reference an existing faculty; an explicit null unassigns the event.
func (s *adminServiceImpl) applyEventInput(ctx context.Context, event *models.Event, input dto.EventInput) error {
	if input.Name.Set {
		event.Name = strings.TrimSpace(input.Name.Value)
	}
	if input.Description.Set {
		event.Description = input.Description.Value
	}
	if input.Date.Set {
		event.Date = input.Date.Value
	}
	if input.Venue.Set {
		event.Venue = input.Venue.Value
	}

	if input.FacultyID.Set {
		if input.FacultyID.Null {
			event.FacultyID = nil
		} else {
			faculty, err := s.repos.Faculties.GetByID(ctx, input.FacultyID.Value)
			if err != nil {
				return notFoundAs(err, msgFacultyNotFound)
			}
			event.FacultyID = input.FacultyID.Ptr()
			event.Faculty = faculty
		}
	}
	return nil
}

func (s *adminServiceImpl) eventSummary(ctx context.Context, eventID int64) (*dto.EventSummaryDTO, error) {
	event, err := s.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundAs(err, msgEventNotFound)
	}
	summary := dto.NewEventSummaryDTO(event)
	return &summary, nil
}

func (s *adminServiceImpl) DeleteEvent(ctx context.Context, eventID int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Events.GetByID(ctx, eventID); err != nil {
			return notFoundAs(err, msgEventNotFound)
		}
		if err := repos.Registrations.DeleteByEvent(ctx, eventID); err != nil {
			return err
		}
		return notFoundAs(repos.Events.Delete(ctx, eventID), msgEventNotFound)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("eventID", eventID).Msg("Event deleted")
	return nil
}

func (s *adminServiceImpl) ListEventStudents(ctx context.Context, eventID int64) ([]dto.StudentAttendanceDTO, error) {
	if _, err := s.repos.Events.GetByID(ctx, eventID); err != nil {
		return nil, notFoundAs(err, msgEventNotFound)
	}
	return attendanceSheet(ctx, s.repos, eventID)
}

func (s *adminServiceImpl) ReassignEvent(ctx context.Context, eventID, facultyID int64) error {
	event, err := s.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		return notFoundAs(err, msgEventNotFound)
	}
	if _, err := s.repos.Faculties.GetByID(ctx, facultyID); err != nil {
		return notFoundAs(err, msgFacultyNotFound)
	}

	event.FacultyID = &facultyID
	if err := s.repos.Events.Update(ctx, event); err != nil {
		return notFoundAs(err, msgEventNotFound)
	}

	s.logger.Info().Int64("eventID", eventID).Int64("facultyID", facultyID).Msg("Event reassigned")
	return nil
}

// attendanceSheet lists the registrations of an event as attendance rows
func attendanceSheet(ctx context.Context, repos *repositories.Repositories, eventID int64) ([]dto.StudentAttendanceDTO, error) {
	regs, err := repos.Registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.StudentAttendanceDTO, 0, len(regs))
	for _, reg := range regs {
		rows = append(rows, dto.NewStudentAttendanceDTO(reg))
	}
	return rows, nil
}
