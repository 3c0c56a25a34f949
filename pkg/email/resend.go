package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *zap.SugaredLogger
}

func NewEmailService(apiKey, from, fromName string, logger *zap.SugaredLogger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(apiKey),
		from:     from,
		fromName: fromName,
		logger:   logger,
	}
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<h2>Welcome, {{.Name}}</h2>
<p>Your membership record has been created with code <strong>{{.Code}}</strong>.</p>
<p>&copy; {{.Year}} {{.FromName}}</p>
`))

var revocationTemplate = template.Must(template.New("revocation").Parse(`
<h2>Certificate Revoked</h2>
<p>Certificate <strong>{{.Number}}</strong> issued to {{.Recipient}} has been revoked.</p>
<p>Reason: {{.Reason}}</p>
<p>&copy; {{.Year}} {{.FromName}}</p>
`))

func (s *EmailService) SendWelcomeEmail(to, name, code string) error {
	s.logger.Infow("sending welcome email", "to", to)

	html, err := render(welcomeTemplate, map[string]interface{}{
		"Name":     name,
		"Code":     code,
		"Year":     time.Now().Year(),
		"FromName": s.fromName,
	})
	if err != nil {
		return err
	}

	return s.send(to, "Welcome to the Membership Registry", html)
}

func (s *EmailService) SendRevocationNotice(to, number, recipient, reason string) error {
	s.logger.Infow("sending revocation notice", "to", to, "number", number)

	html, err := render(revocationTemplate, map[string]interface{}{
		"Number":    number,
		"Recipient": recipient,
		"Reason":    reason,
		"Year":      time.Now().Year(),
		"FromName":  s.fromName,
	})
	if err != nil {
		return err
	}

	return s.send(to, "Certificate "+number+" has been revoked", html)
}

func (s *EmailService) send(to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Errorw("failed to send email", "to", to, "subject", subject, "error", err)
		return err
	}

	s.logger.Infow("email sent", "to", to, "id", resp.Id)
	return nil
}

func render(t *template.Template, data map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}
