package controllers

import (
	"strconv"

	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/app/models/dto"
	"github.com/act/eventportal/internal/app/services"
	"github.com/act/eventportal/internal/middleware"
	"github.com/act/eventportal/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// FacultyController handles faculty-related operations
type FacultyController struct {
	facultyService services.FacultyService
	sessions       *session.Manager
	logger         zerolog.Logger
}

// NewFacultyController creates a new FacultyController
func NewFacultyController(facultyService services.FacultyService, sessions *session.Manager, logger zerolog.Logger) *FacultyController {
	return &FacultyController{
		facultyService: facultyService,
		sessions:       sessions,
		logger:         logger,
	}
}

// Register handles faculty self-registration
// @Summary Register as faculty
// @Description Creates a pending faculty account. An admin must approve it before the password can be set.
// @Tags faculty
// @Accept json
// @Produce json
// @Param request body dto.FacultyRegisterRequest true "Faculty information"
// @Success 200 {object} dto.APIResponse{data=dto.FacultyProfile} "Faculty registered. Wait for admin approval."
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or email already exists"
// @Router /faculty/register [post]
func (c *FacultyController) Register(ctx *gin.Context) {
	var req dto.FacultyRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	profile, err := c.facultyService.Register(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Faculty registered. Wait for admin approval.", profile)
}

// Login authenticates an approved faculty member
// @Summary Faculty login
// @Tags faculty
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Faculty credentials"
// @Success 200 {object} dto.APIResponse{data=dto.FacultyProfile} "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials, not approved yet or password not set"
// @Router /faculty/login [post]
func (c *FacultyController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	profile, err := c.facultyService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	login(ctx, c.sessions, c.logger, models.RoleFaculty, profile.ID, profile)
}

// Logout destroys the faculty session
// @Summary Faculty logout
// @Tags faculty
// @Produce json
// @Success 200 {object} dto.APIResponse "Faculty logged out successfully"
// @Router /faculty/logout [post]
func (c *FacultyController) Logout(ctx *gin.Context) {
	logout(ctx, c.sessions, c.logger, "Faculty logged out successfully")
}

// SetPassword sets the first password of an approved faculty member
// @Summary Set faculty password
// @Tags faculty
// @Produce json
// @Param email query string true "Faculty email"
// @Param password query string true "New password"
// @Success 200 {object} dto.APIResponse "Password set successfully"
// @Failure 400 {object} dto.ErrorResponse "Not approved yet or password already set"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculty/set-password [post]
func (c *FacultyController) SetPassword(ctx *gin.Context) {
	email, ok := requireQuery(ctx, "email")
	if !ok {
		return
	}
	password, ok := requireQuery(ctx, "password")
	if !ok {
		return
	}

	if err := c.facultyService.SetPassword(ctx.Request.Context(), email, password); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Password set successfully", nil)
}

// GetProfile returns the logged-in faculty member
// @Summary Current faculty
// @Tags faculty
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.FacultyProfile}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /faculty/me [get]
func (c *FacultyController) GetProfile(ctx *gin.Context) {
	profile, err := c.facultyService.GetProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", profile)
}

// UpdateProfile edits the faculty member's own profile; email is not editable
// @Summary Update faculty profile
// @Tags faculty
// @Accept json
// @Produce json
// @Param request body dto.UpdateFacultyProfileRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=dto.FacultyProfile}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /faculty/update [put]
func (c *FacultyController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateFacultyProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	profile, err := c.facultyService.UpdateProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Profile updated", profile)
}

// UpdatePassword changes the faculty password
// @Summary Update faculty password
// @Tags faculty
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse "Password updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Current password incorrect"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /faculty/update-password [put]
func (c *FacultyController) UpdatePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	if err := c.facultyService.UpdatePassword(ctx.Request.Context(), middleware.CurrentUserID(ctx), req.CurrentPassword, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "Password updated successfully", nil)
}

// ListEvents lists the events assigned to the logged-in faculty member
// @Summary Assigned events
// @Tags faculty
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.EventDTO}
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /faculty/events [get]
func (c *FacultyController) ListEvents(ctx *gin.Context) {
	events, err := c.facultyService.ListAssignedEvents(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", events)
}

// ListEventStudents lists the students registered for an owned event
// @Summary Event students
// @Tags faculty
// @Produce json
// @Param id path int true "Event ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentAttendanceDTO}
// @Failure 401 {object} dto.ErrorResponse "Not logged in or event not owned"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /faculty/events/{id}/students [get]
func (c *FacultyController) ListEventStudents(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	students, err := c.facultyService.ListEventStudents(ctx.Request.Context(), middleware.CurrentUserID(ctx), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, "", students)
}

// MarkAttendance records a registered student as present or absent
// @Summary Mark attendance
// @Tags faculty
// @Produce json
// @Param id path int true "Event ID" Format(int64) minimum(1)
// @Param studentId query int true "Student ID"
// @Param present query bool true "Whether the student attended"
// @Success 200 {object} dto.APIResponse "Attendance marked as Present"
// @Failure 400 {object} dto.ErrorResponse "Student not registered for this event"
// @Failure 401 {object} dto.ErrorResponse "Not logged in or event not owned"
// @Failure 404 {object} dto.ErrorResponse "Event or student not found"
// @Router /faculty/events/{id}/attendance [post]
func (c *FacultyController) MarkAttendance(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	studentID, present, ok := parseIDQuery(ctx, "studentId")
	if !ok {
		return
	}
	if !present {
		middleware.HandleBadRequest(ctx, "studentId is required")
		return
	}
	presentRaw, ok := requireQuery(ctx, "present")
	if !ok {
		return
	}
	attended, err := strconv.ParseBool(presentRaw)
	if err != nil {
		middleware.HandleBadRequest(ctx, "Invalid present")
		return
	}

	if err := c.facultyService.MarkAttendance(ctx.Request.Context(), middleware.CurrentUserID(ctx), eventID, studentID, attended); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := "Absent"
	if attended {
		status = "Present"
	}
	respond(ctx, "Attendance marked as "+status, nil)
}
