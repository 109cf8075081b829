package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"wedding-rsvp/internal/models"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailConfig configures SendGrid confirmation mails
type EmailConfig struct {
	APIKey      string
	FromEmail   string
	FromName    string
	CoupleNames string
	WeddingDate string
}

// Email sends a confirmation mail to the guest's address
type Email struct {
	cfg  EmailConfig
	log  zerolog.Logger
	send func(ctx context.Context, m *mail.SGMailV3) (int, error)
}

// NewEmail creates a SendGrid-backed notifier
func NewEmail(cfg EmailConfig, log zerolog.Logger) *Email {
	e := &Email{cfg: cfg, log: log.With().Str("component", "email").Logger()}
	e.send = e.sendGrid
	return e
}

// GuestCreated mails a confirmation; it is skipped when no API key or no
// guest email is configured
func (e *Email) GuestCreated(ctx context.Context, g models.Guest) error {
	if e.cfg.APIKey == "" {
		e.log.Debug().Str("guest", g.Name).Msg("SendGrid API key not set, skipping email")
		return nil
	}
	if strings.TrimSpace(g.Email) == "" {
		return nil
	}

	status, err := e.send(ctx, e.Confirmation(g))
	if err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("sendgrid returned status %d", status)
	}
	e.log.Info().Str("to", g.Email).Int("status", status).Msg("Confirmation email sent")
	return nil
}

// Confirmation builds the mail for one guest record
func (e *Email) Confirmation(g models.Guest) *mail.SGMailV3 {
	from := mail.NewEmail(e.cfg.FromName, e.cfg.FromEmail)
	to := mail.NewEmail(g.Name, g.Email)
	subject := fmt.Sprintf("Deine Rückmeldung zur Hochzeit von %s", e.cfg.CoupleNames)

	var text strings.Builder
	fmt.Fprintf(&text, "Hallo %s,\n\n", g.Name)
	switch g.Attendance() {
	case models.AttendanceYes:
		fmt.Fprintf(&text, "schön, dass du dabei bist! Wir freuen uns auf dich (%s).\n", e.cfg.WeddingDate)
	case models.AttendanceNo:
		text.WriteString("schade, dass du nicht dabei sein kannst. Danke für deine Rückmeldung.\n")
	default:
		text.WriteString("danke für deine Rückmeldung. Sag uns bitte noch Bescheid, ob du kommst.\n")
	}
	if g.Essenswunsch != "" {
		fmt.Fprintf(&text, "\nEssenswunsch: %s", g.Essenswunsch)
	}
	if g.Anreise != "" {
		fmt.Fprintf(&text, "\nAnreise: %s", g.Anreise)
	}
	if g.Unterkunft != "" {
		fmt.Fprintf(&text, "\nUnterkunft: %s", g.Unterkunft)
	}
	fmt.Fprintf(&text, "\n\n%s", e.cfg.CoupleNames)

	plain := text.String()
	htmlBody := "<p>" + strings.ReplaceAll(html.EscapeString(plain), "\n", "<br>") + "</p>"
	return mail.NewSingleEmail(from, subject, to, plain, htmlBody)
}

func (e *Email) sendGrid(ctx context.Context, m *mail.SGMailV3) (int, error) {
	request := sendgrid.GetRequest(e.cfg.APIKey, "/v3/mail/send", "https://api.sendgrid.com")
	request.Method = "POST"
	request.Body = mail.GetRequestBody(m)
	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return 0, err
	}
	return response.StatusCode, nil
}
