package mailer

import (
	"fmt"

	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
	"github.com/resend/resend-go/v2"
)

// Mailer sends notification emails through the Resend API.
type Mailer struct {
	client *resend.Client
	from   string
}

// New returns a Mailer. With an empty API key the Mailer is disabled and
// every send reports success without calling out, so the notifier can run
// in environments without mail credentials.
func New(apiKey, from string) *Mailer {
	m := &Mailer{from: from}
	if apiKey != "" {
		m.client = resend.NewClient(apiKey)
	}
	return m
}

// SendMaintenanceReminder emails the maintenance template for one asset to
// one recipient.
func (m *Mailer) SendMaintenanceReminder(email string, asset models.Asset) error {
	subject := fmt.Sprintf("Maintenance due: %s (%s)", asset.Name, asset.Tag)
	body := fmt.Sprintf(
		"<p>Asset <strong>%s</strong> (tag %s) is due for maintenance.</p>"+
			"<p>Please review the asset record and plan the maintenance window.</p>",
		asset.Name, asset.Tag,
	)
	return m.send(email, subject, body)
}

// SendReminder emails an ad-hoc scheduled notification message.
func (m *Mailer) SendReminder(email, subject, message string) error {
	return m.send(email, subject, "<p>"+message+"</p>")
}

func (m *Mailer) send(to, subject, html string) error {
	if m.client == nil {
		return nil
	}
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := m.client.Emails.Send(params); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
