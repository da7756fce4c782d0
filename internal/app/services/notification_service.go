package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/pkg/email"
	"github.com/rs/zerolog"
)

// NotificationService composes and sends the portal's outbound mail.
// Delivery is best-effort: failures are logged and never returned to the caller.
type NotificationService interface {
	FacultyApproved(ctx context.Context, faculty *models.Faculty)
	FacultyRejected(ctx context.Context, faculty *models.Faculty, reason string)
	ContactInquiry(ctx context.Context, name, fromEmail, message string)
	AdminPasswordReset(ctx context.Context, admin *models.Admin, token string)
}

// NotificationConfig holds the addresses used in outbound mail
type NotificationConfig struct {
	FrontendURL      string
	ContactRecipient string
}

type notificationServiceImpl struct {
	sender email.Sender
	config NotificationConfig
	logger zerolog.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(sender email.Sender, config NotificationConfig, logger zerolog.Logger) NotificationService {
	config.FrontendURL = strings.TrimRight(config.FrontendURL, "/")
	return &notificationServiceImpl{
		sender: sender,
		config: config,
		logger: logger,
	}
}

func (s *notificationServiceImpl) FacultyApproved(ctx context.Context, faculty *models.Faculty) {
	link := fmt.Sprintf("%s/faculty/set-password?email=%s", s.config.FrontendURL, url.QueryEscape(faculty.Email))
	s.send(ctx, faculty.Email, "Faculty Approval", "Approved! Set password: "+link)
}

func (s *notificationServiceImpl) FacultyRejected(ctx context.Context, faculty *models.Faculty, reason string) {
	s.send(ctx, faculty.Email, "Faculty Rejected", "Reason: "+reason)
}

func (s *notificationServiceImpl) ContactInquiry(ctx context.Context, name, fromEmail, message string) {
	subject := "New Contact Inquiry from " + name
	body := fmt.Sprintf("From: %s <%s>\n\n%s", name, fromEmail, message)
	s.send(ctx, s.config.ContactRecipient, subject, body)
}

func (s *notificationServiceImpl) AdminPasswordReset(ctx context.Context, admin *models.Admin, token string) {
	link := fmt.Sprintf("%s/admin/reset-password?token=%s", s.config.FrontendURL, url.QueryEscape(token))
	body := fmt.Sprintf("Hello %s,\n\nUse the link below to reset your password:\n%s\n\nIf you did not request this, ignore this email.", admin.Username, link)
	s.send(ctx, admin.Email, "Password Reset Request", body)
}

func (s *notificationServiceImpl) send(ctx context.Context, to, subject, body string) {
	if err := s.sender.Send(ctx, to, subject, body); err != nil {
		s.logger.Error().Err(err).Str("to", to).Str("subject", subject).Msg("Failed to deliver notification")
		return
	}
	s.logger.Debug().Str("to", to).Str("subject", subject).Msg("Notification sent")
}
