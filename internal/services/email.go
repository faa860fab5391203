package services

import (
	"context"

	"github.com/fittrackd/fittrackd/internal/logger"
)

// Email template names
const (
	EmailTemplateSuspension     = "suspension"
	EmailTemplateUnsuspension   = "unsuspension"
	EmailTemplateWarning        = "warning"
	EmailTemplateWarningLifting = "warning_lifting"
	EmailTemplateAppealRejected = "appeal_rejected"
	EmailTemplateExportReady    = "data_export_ready"
	EmailTemplateExportErrored  = "data_export_errored"
	EmailTemplateImportFinished = "archive_import_finished"
	EmailTemplateImportErrored  = "archive_import_errored"
)

// EmailMessage is one rendered-and-delivered email request. Template
// rendering and SMTP delivery are owned by the sender implementation.
type EmailMessage struct {
	Template string
	To       string
	Data     map[string]interface{}
}

// EmailSender delivers a single email message
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// Email gates email delivery behind an explicit enabled flag threaded
// through the constructor instead of global state.
type Email struct {
	sender  EmailSender
	enabled bool
}

// NewEmailService creates a new email service. When enabled is false all
// sends become no-ops.
func NewEmailService(sender EmailSender, enabled bool) *Email {
	return &Email{
		sender:  sender,
		enabled: enabled,
	}
}

// Send delivers the message unless email sending is disabled. Delivery
// failures are logged, never propagated: email is a best-effort side
// effect of the domain operation.
func (s *Email) Send(ctx context.Context, msg EmailMessage) {
	if !s.enabled {
		logger.Debugf("Email sending disabled, skipping template %s to %s", msg.Template, msg.To)
		return
	}
	if msg.To == "" {
		logger.Warnf("No recipient for email template %s, skipping", msg.Template)
		return
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		logger.Errorf("Failed to send email template %s to %s: %v", msg.Template, msg.To, err)
	}
}

// LogEmailSender writes email requests to the log instead of delivering
// them. Used in development and as the default sender.
type LogEmailSender struct{}

// Send implements EmailSender
func (LogEmailSender) Send(_ context.Context, msg EmailMessage) error {
	logger.InfoWithFields("Email sent", map[string]interface{}{
		"template": msg.Template,
		"to":       msg.To,
	})
	return nil
}
