package controllers

import (
	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/app/models/dto"
	"github.com/act/eventportal/internal/app/services"
	"github.com/act/eventportal/internal/middleware"
	"github.com/act/eventportal/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// StudentController handles student operations
type StudentController struct {
	studentService services.StudentService
	sessions       *session.Manager
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, sessions *session.Manager, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		sessions:       sessions,
		logger:         logger,
	}
}

// Signup creates a student account
// @Summary Student signup
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.StudentSignupRequest true "Student information"
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfile} "Signup successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or email already exists"
// @Router /students/signup [post]
func (c *StudentController) Signup(ctx *gin.Context) {
	var req dto.StudentSignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	profile, err := c.studentService.Signup(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Signup successful", profile)
}

// Login authenticates a student and starts a student session
// @Summary Student login
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Student credentials"
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfile} "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /students/login [post]
func (c *StudentController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	profile, err := c.studentService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	login(ctx, c.sessions, c.logger, models.RoleStudent, profile.ID, profile)
}

// Logout destroys the student session
// @Summary Student logout
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse "Logged out successfully"
// @Router /students/logout [post]
func (c *StudentController) Logout(ctx *gin.Context) {
	logout(ctx, c.sessions, c.logger, "Logged out successfully")
}

// GetProfile returns the logged-in student
// @Summary Student profile
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfile}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /students/profile [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	profile, err := c.studentService.GetProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", profile)
}

// UpdateProfile edits the student's own profile
// @Summary Update student profile
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.UpdateStudentProfileRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfile}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /students/profile [put]
func (c *StudentController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateStudentProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	profile, err := c.studentService.UpdateProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Profile updated", profile)
}

// UpdatePassword changes the student password
// @Summary Update student password
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.StudentPasswordRequest true "Old and new password"
// @Success 200 {object} dto.APIResponse "Password updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Incorrect old password"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /students/profile/password [put]
func (c *StudentController) UpdatePassword(ctx *gin.Context) {
	var req dto.StudentPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	if err := c.studentService.UpdatePassword(ctx.Request.Context(), middleware.CurrentUserID(ctx), req.OldPassword, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Password updated successfully", nil)
}

// RegisterEvent registers the student for an event
// @Summary Register for event
// @Tags students
// @Produce json
// @Param id path int true "Event ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Event registered successfully"
// @Failure 400 {object} dto.ErrorResponse "Already registered"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /students/register-event/{id} [post]
func (c *StudentController) RegisterEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.RegisterEvent(ctx.Request.Context(), middleware.CurrentUserID(ctx), eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Event registered successfully", nil)
}

// UnregisterEvent removes the student's registration for an event
// @Summary Unregister from event
// @Tags students
// @Produce json
// @Param id path int true "Event ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Unregistered from event"
// @Failure 400 {object} dto.ErrorResponse "Not registered for this event"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /students/unregister-event/{id} [post]
func (c *StudentController) UnregisterEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.UnregisterEvent(ctx.Request.Context(), middleware.CurrentUserID(ctx), eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Unregistered from event", nil)
}

// ListEvents lists every event
// @Summary All events
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.EventDTO}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /students/events [get]
func (c *StudentController) ListEvents(ctx *gin.Context) {
	events, err := c.studentService.ListEvents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", events)
}

// ListRegisteredEvents lists the events the student registered for
// @Summary Registered events
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.EventDTO}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /students/registered-events [get]
func (c *StudentController) ListRegisteredEvents(ctx *gin.Context) {
	events, err := c.studentService.ListRegisteredEvents(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", events)
}

// GetAttendance returns the student's attendance for an event
// @Summary Event attendance
// @Description attendance is null while unmarked or when the student is not registered
// @Tags students
// @Produce json
// @Param id path int true "Event ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceDTO}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /students/events/{id}/attendance [get]
func (c *StudentController) GetAttendance(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	attendance, err := c.studentService.GetAttendance(ctx.Request.Context(), middleware.CurrentUserID(ctx), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", dto.AttendanceDTO{EventID: eventID, Attendance: attendance})
}
