package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"vendora/config"
	"vendora/models"
)

// SMTPMailer renders email templates and delivers them over SMTP. It runs
// inside the background worker, never on a request path.
type SMTPMailer struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	fromName  string
	templates map[string]*template.Template
}

// NewSMTPMailer builds a mailer from the app configuration.
func NewSMTPMailer() *SMTPMailer {
	cfg := config.AppConfig
	m := &SMTPMailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUser,
		password:  cfg.SMTPPass,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		templates: make(map[string]*template.Template),
	}
	m.loadDefaultTemplates()
	return m
}

func (m *SMTPMailer) loadDefaultTemplates() {
	bodies := map[string]string{
		"booking_created": `<p>Hi,</p>
<p>We received your booking <strong>{{.bookingID}}</strong> for {{.startDate}} to {{.endDate}}.
Complete your payment to confirm it.</p>
<p>Total: {{.price}}</p>`,
		"booking_confirmed": `<p>Hi,</p>
<p>Your payment went through. Booking <strong>{{.bookingID}}</strong> is confirmed for
{{.startDate}} to {{.endDate}}.</p>`,
		"vendor_booking_alert": `<p>Hello,</p>
<p>You have a new paid booking <strong>{{.bookingID}}</strong> starting {{.startDate}}.
Please accept it from your dashboard.</p>`,
		"booking_cancelled": `<p>Hi,</p>
<p>Booking <strong>{{.bookingID}}</strong> has been cancelled.</p>`,
	}
	for name, body := range bodies {
		m.templates[name] = template.Must(template.New(name).Parse(body))
	}
}

// Send renders the named template and delivers the message.
func (m *SMTPMailer) Send(payload models.EmailPayload) error {
	tmpl, ok := m.templates[payload.Template]
	if !ok {
		return fmt.Errorf("unknown email template %q", payload.Template)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, payload.Data); err != nil {
		return fmt.Errorf("failed to render template %q: %w", payload.Template, err)
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.fromName, m.fromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", payload.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", payload.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.fromEmail, []string{payload.To}, msg.Bytes()); err != nil {
		return fmt.Errorf("smtp delivery to %s failed: %w", payload.To, err)
	}
	return nil
}
