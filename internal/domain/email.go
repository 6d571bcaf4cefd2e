package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ConferenceConfirmationEmailData holds data for the conference creation
// confirmation email sent to the organizer.
type ConferenceConfirmationEmailData struct {
	Email          string
	OrganizerName  string
	ConferenceName string
	City           string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendConferenceConfirmation(ctx context.Context, data *ConferenceConfirmationEmailData) error
}
